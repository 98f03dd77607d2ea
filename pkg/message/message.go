package message

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("message not found")

type Message struct {
	MongoID    primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID         string             `json:"_id" bson:"-"`
	SenderID   string             `json:"senderId" bson:"senderId"`
	ReceiverID string             `json:"receiverId" bson:"receiverId"`
	Text       string             `json:"text,omitempty" bson:"text,omitempty"`
	Image      string             `json:"image,omitempty" bson:"image,omitempty"`
	Seen       bool               `json:"seen" bson:"seen"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

type Repository interface {
	Create(msg *Message) error
	Between(userA, userB string) ([]*Message, error)
	MarkSeen(id string) error
	MarkSeenFrom(senderID, receiverID string) error
	CountUnseen(senderID, receiverID string) (int64, error)
}
