package service

import (
	"context"
	"errors"
	"fmt"

	"wolontariat-api/internal/domain"
	"wolontariat-api/internal/repository"
)

var ErrOrganizationNotFound = repository.ErrOrganizationNotFound

type OrganizationRepository interface {
	Create(ctx context.Context, org domain.Organization) (domain.Organization, error)
	FindByID(ctx context.Context, id uint) (domain.Organization, error)
	FindVerified(ctx context.Context) ([]domain.Organization, error)
	Delete(ctx context.Context, id uint) error
	CreateProject(ctx context.Context, project domain.Project) (domain.Project, error)
	FindProjectByID(ctx context.Context, id uint) (domain.Project, error)
	FindProjects(ctx context.Context, organizationID *uint, search string) ([]domain.Project, error)
	DeleteProject(ctx context.Context, id uint) error
}

type OrganizationService struct {
	repo OrganizationRepository
}

func NewOrganizationService(repo OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		repo: repo,
	}
}

// CreateOrganization registers an organization. Coordinators only; the
// verified flag is derived from the tax id at the persistence layer.
func (s *OrganizationService) CreateOrganization(ctx context.Context, org domain.Organization, actor domain.User) (domain.Organization, error) {
	if actor.Role != domain.RoleCoordinator {
		return domain.Organization{}, forbidden(actor, "create_organization")
	}

	created, err := s.repo.Create(ctx, org)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// GetOrganizations lists positively verified organizations only.
func (s *OrganizationService) GetOrganizations(ctx context.Context) ([]domain.Organization, error) {
	orgs, err := s.repo.FindVerified(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindVerified -> %w", err)
	}

	return orgs, nil
}

func (s *OrganizationService) GetOrganization(ctx context.Context, id uint) (domain.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return domain.Organization{}, ErrOrganizationNotFound
		}

		return domain.Organization{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return org, nil
}

// DeleteOrganization removes an organization. Coordinators only; projects,
// offers and reviews under it cascade at the schema level.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, id uint, actor domain.User) error {
	if actor.Role != domain.RoleCoordinator {
		return forbidden(actor, "delete_organization")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return ErrOrganizationNotFound
		}

		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// CreateProject opens a project. Organization users create under their own
// organization; coordinators name the owning organization explicitly.
func (s *OrganizationService) CreateProject(ctx context.Context, project domain.Project, actor domain.User) (domain.Project, error) {
	if actor.Role != domain.RoleOrganization && actor.Role != domain.RoleCoordinator {
		return domain.Project{}, forbidden(actor, "create_project")
	}

	if actor.Role == domain.RoleOrganization {
		if actor.OrganizationID == nil {
			return domain.Project{}, forbidden(actor, "create_project")
		}
		project.OrganizationID = *actor.OrganizationID
	}

	if _, err := s.repo.FindByID(ctx, project.OrganizationID); err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return domain.Project{}, ErrOrganizationNotFound
		}

		return domain.Project{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	created, err := s.repo.CreateProject(ctx, project)
	if err != nil {
		return domain.Project{}, fmt.Errorf("s.repo.CreateProject -> %w", err)
	}

	return created, nil
}

func (s *OrganizationService) GetProject(ctx context.Context, id uint) (domain.Project, error) {
	project, err := s.repo.FindProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return domain.Project{}, ErrProjectNotFound
		}

		return domain.Project{}, fmt.Errorf("s.repo.FindProjectByID -> %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and its offers. Organization users may
// delete their own organization's projects; coordinators may delete any.
func (s *OrganizationService) DeleteProject(ctx context.Context, id uint, actor domain.User) error {
	project, err := s.repo.FindProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return ErrProjectNotFound
		}

		return fmt.Errorf("s.repo.FindProjectByID -> %w", err)
	}

	switch actor.Role {
	case domain.RoleCoordinator:
	case domain.RoleOrganization:
		if actor.OrganizationID == nil || *actor.OrganizationID != project.OrganizationID {
			return forbidden(actor, "delete_project")
		}
	default:
		return forbidden(actor, "delete_project")
	}

	if err = s.repo.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteProject -> %w", err)
	}

	return nil
}

func (s *OrganizationService) GetProjects(ctx context.Context, organizationID *uint, search string) ([]domain.Project, error) {
	projects, err := s.repo.FindProjects(ctx, organizationID, search)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindProjects -> %w", err)
	}

	return projects, nil
}
