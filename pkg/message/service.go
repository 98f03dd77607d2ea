package message

import (
	"fmt"

	"gochat/pkg/avatar"
	"gochat/pkg/user"
)

// NewMessageEvent is pushed to the receiver's primary connection when a
// message for them is stored.
const NewMessageEvent = "newMessage"

// Notifier is the realtime push collaborator; delivery is fire-and-forget.
type Notifier interface {
	SendTo(userID, event string, payload any) bool
}

type ServiceInterface interface {
	SidebarUsers(meID string) ([]*user.User, map[string]int64, error)
	History(meID, otherID string) ([]*Message, error)
	MarkSeen(id string) error
	Send(meID, otherID, text, image string) (*Message, error)
}

type Service struct {
	Repo    Repository
	Users   user.Repository
	Notify  Notifier
	Uploads avatar.Store
}

func NewService(repo Repository, users user.Repository, notify Notifier, uploads avatar.Store) *Service {
	return &Service{Repo: repo, Users: users, Notify: notify, Uploads: uploads}
}

// SidebarUsers lists every other user plus, per user, how many of their
// messages to me are still unseen.
func (s *Service) SidebarUsers(meID string) ([]*user.User, map[string]int64, error) {
	others, err := s.Users.AllExcept(meID)
	if err != nil {
		return nil, nil, err
	}

	unseen := make(map[string]int64)
	for _, u := range others {
		n, err := s.Repo.CountUnseen(u.ID, meID)
		if err != nil {
			return nil, nil, err
		}
		if n > 0 {
			unseen[u.ID] = n
		}
	}

	return others, unseen, nil
}

// History returns the conversation with otherID and marks their messages to
// me as seen, since the caller is about to display them.
func (s *Service) History(meID, otherID string) ([]*Message, error) {
	msgs, err := s.Repo.Between(meID, otherID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.MarkSeenFrom(otherID, meID); err != nil {
		return nil, err
	}

	return msgs, nil
}

func (s *Service) MarkSeen(id string) error {
	return s.Repo.MarkSeen(id)
}

// Send stores a message and pushes it to the receiver if they are online. An
// offline receiver just finds it in history later.
func (s *Service) Send(meID, otherID, text, image string) (*Message, error) {
	msg := &Message{
		SenderID:   meID,
		ReceiverID: otherID,
	}

	if image != "" {
		url, err := s.Uploads.Upload(image)
		if err != nil {
			return nil, fmt.Errorf("image upload error: %w", err)
		}
		msg.Image = url
	}
	msg.Text = text

	if err := s.Repo.Create(msg); err != nil {
		return nil, err
	}

	s.Notify.SendTo(otherID, NewMessageEvent, msg)

	return msg, nil
}
