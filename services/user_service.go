package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"ember_server/apperr"
	"ember_server/models"
	"ember_server/storage"
)

const bcryptCost = 10

// UserService handles registration, login and profile updates.
type UserService struct {
	Users storage.UserStore
	Log   *logrus.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(users storage.UserStore, log *logrus.Logger) *UserService {
	return &UserService{Users: users, Log: log}
}

// Register hashes the password and creates the account.
func (us *UserService) Register(ctx context.Context, username, password string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("username and password are required: %w", apperr.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := us.Users.CreateUser(ctx, models.User{Username: username, Password: string(hash)})
	if err != nil {
		return models.User{}, err
	}

	us.Log.WithField("username", username).Info("user registered")
	return user, nil
}

// Login verifies the password against the stored hash. An unknown
// username and a wrong password are indistinguishable to the caller.
func (us *UserService) Login(ctx context.Context, username, password string) (models.User, error) {
	user, err := us.Users.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return models.User{}, apperr.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, apperr.ErrInvalidCredentials
	}
	return user, nil
}

// Get returns one user record.
func (us *UserService) Get(ctx context.Context, username string) (models.User, error) {
	return us.Users.GetUser(ctx, username)
}

// List returns the public view of every account.
func (us *UserService) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := us.Users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.PublicUser, 0, len(users))
	for i := range users {
		result = append(result, users[i].Public())
	}
	return result, nil
}

// SetLocation updates both coordinates of the user.
func (us *UserService) SetLocation(ctx context.Context, username string, lat, long float64) error {
	return us.Users.UpdateLocation(ctx, username, lat, long)
}

// SetBio updates the user's bio text.
func (us *UserService) SetBio(ctx context.Context, username, bio string) error {
	return us.Users.UpdateBio(ctx, username, bio)
}
