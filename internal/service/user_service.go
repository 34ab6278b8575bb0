package service

import (
	"fmt"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/model"
	"skillvouch-backend/internal/repository"
)

type UserService interface {
	GetAllUsers() ([]model.User, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(requesterID, targetID uint, updates ProfileUpdate) (*model.User, error)
}

// ProfileUpdate carries the mutable profile fields. Skill lists are managed
// through the skill registry, not here.
type ProfileUpdate struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetAllUsers() ([]model.User, error) {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *userService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// UpdateProfile lets a user update their own profile only.
func (s *userService) UpdateProfile(requesterID, targetID uint, updates ProfileUpdate) (*model.User, error) {
	if requesterID != targetID {
		return nil, fmt.Errorf("%w: you can only update your own profile", apperr.ErrForbidden)
	}

	user, err := s.userRepo.GetUserByID(targetID)
	if err != nil {
		return nil, err
	}

	if updates.Name != "" {
		user.Name = updates.Name
	}
	user.Avatar = updates.Avatar
	user.Bio = updates.Bio

	if err := s.userRepo.SaveUser(user); err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}
