package service

import (
	"context"
	"fmt"

	"wolontariat-api/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindVolunteers(ctx context.Context) ([]domain.User, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// GetVolunteers lists the volunteer directory for organization-side users.
func (s *UserService) GetVolunteers(ctx context.Context, actor domain.User) ([]domain.User, error) {
	if actor.Role != domain.RoleOrganization && actor.Role != domain.RoleCoordinator {
		return nil, forbidden(actor, "list_volunteers")
	}

	volunteers, err := s.repo.FindVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindVolunteers -> %w", err)
	}

	return volunteers, nil
}
