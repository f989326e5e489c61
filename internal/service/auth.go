package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"wolontariat-api/internal/domain"
	"wolontariat-api/internal/repository"
)

var (
	ErrUserEmailExists    = repository.ErrUserEmailExists
	ErrUserUsernameExists = repository.ErrUserUsernameExists
	ErrUserNotFound       = repository.ErrUserNotFound
	ErrWrongPassword      = errors.New("wrong password")
	ErrVolunteerAge       = errors.New("volunteers must provide an age between 0 and 120")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthService struct {
	repo AuthUserRepository
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// Signup registers a user. Volunteers must carry a plausible age so the
// minority flag can be derived; other roles may omit it.
func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	if user.Role == domain.RoleVolunteer {
		if user.Age == nil || *user.Age < 0 || *user.Age > 120 {
			return domain.User{}, ErrVolunteerAge
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = string(hash)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Login authenticates by username or email address.
func (s *AuthService) Login(ctx context.Context, login, password string) (domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, login)
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = s.repo.FindByEmail(ctx, login)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		if err != nil {
			return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
		}
	} else if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}
