package user

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"gochat/pkg/avatar"
	"gochat/pkg/generator"
)

type ServiceInterface interface {
	Signup(fullName, email, password, bio string) (*User, error)
	Login(email, password string) (*User, error)
	UpdateProfile(userID, fullName, bio, profilePic string) (*User, error)
}

type Service struct {
	Repo    Repository
	Avatars avatar.Store
}

func NewService(repo Repository, avatars avatar.Store) *Service {
	return &Service{Repo: repo, Avatars: avatars}
}

func (s *Service) Signup(fullName, email, password, bio string) (*User, error) {
	if fullName == "" || email == "" || password == "" || bio == "" {
		return nil, ErrMissingFields
	}

	exist, err := s.Repo.FindByEmail(email)
	if exist != nil && err == nil {
		return nil, ErrAlreadyExists
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password error: %w", err)
	}

	userID, err := generator.GenerateRandomID(24)
	if err != nil {
		return nil, fmt.Errorf("UserID gen error: %w", err)
	}

	user := &User{
		ID:       userID,
		Email:    email,
		FullName: fullName,
		Password: string(hashedPassword),
		Bio:      bio,
	}

	if err := s.Repo.Create(user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// Login rejects an unknown email and a wrong password with the same error so
// the response does not reveal which of the two was off.
func (s *Service) Login(email, password string) (*User, error) {
	user, err := s.Repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user.Password = ""
	return user, nil
}

// UpdateProfile patches the mutable profile fields. A non-empty profilePic is
// a base64 data URI pushed through the blob store first.
func (s *Service) UpdateProfile(userID, fullName, bio, profilePic string) (*User, error) {
	user, err := s.Repo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if fullName != "" {
		user.FullName = fullName
	}
	if bio != "" {
		user.Bio = bio
	}
	if profilePic != "" {
		url, err := s.Avatars.Upload(profilePic)
		if err != nil {
			return nil, fmt.Errorf("avatar upload error: %w", err)
		}
		user.ProfilePic = url
	}

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}
