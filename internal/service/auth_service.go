package service

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/model"
	"skillvouch-backend/internal/repository"
	"skillvouch-backend/utilities"
)

// AuthService interface
type AuthService interface {
	Register(user *model.User) error
	Login(email, password string) (*model.User, string, string, error)
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService initializes authentication service
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Name == "" || user.Email == "" {
		return fmt.Errorf("%w: name and email are required", apperr.ErrValidation)
	}
	if user.Password == "" {
		return fmt.Errorf("%w: password cannot be empty", apperr.ErrValidation)
	}

	existing, err := s.userRepo.GetUserByEmail(user.Email)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if existing != nil {
		return apperr.ErrEmailTaken
	}

	// Passwords are only ever stored as salted bcrypt hashes.
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	user.Rating = 5

	return s.userRepo.CreateUser(user)
}

// Login authenticates the user and returns access and refresh tokens.
func (s *authService) Login(email, password string) (*model.User, string, string, error) {
	user, err := s.userRepo.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, "", "", apperr.ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", "", apperr.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := utilities.GenerateTokens(user)
	if err != nil {
		return nil, "", "", err
	}

	user.Password = ""
	return user, accessToken, refreshToken, nil
}
