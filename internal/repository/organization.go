package repository

import (
	"context"
	"fmt"

	"wolontariat-api/internal/domain"
	"wolontariat-api/internal/repository/dao"
)

var (
	ErrOrganizationNotFound = dao.ErrOrganizationNotFound
	ErrProjectNotFound      = dao.ErrProjectNotFound
)

type OrganizationDAO interface {
	Insert(ctx context.Context, org dao.Organization) (dao.Organization, error)
	FindByID(ctx context.Context, id uint) (dao.Organization, error)
	FindVerified(ctx context.Context) ([]dao.Organization, error)
	Delete(ctx context.Context, id uint) error
	InsertProject(ctx context.Context, project dao.Project) (dao.Project, error)
	FindProjectByID(ctx context.Context, id uint) (dao.Project, error)
	FindProjects(ctx context.Context, organizationID *uint, search string) ([]dao.Project, error)
	CountProjectOffers(ctx context.Context, projectID uint) (int64, error)
	DeleteProject(ctx context.Context, id uint) error
}

type OrganizationRepository struct {
	dao OrganizationDAO
}

func NewOrganizationRepository(dao OrganizationDAO) *OrganizationRepository {
	return &OrganizationRepository{
		dao: dao,
	}
}

func (r *OrganizationRepository) Create(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	created, err := r.dao.Insert(ctx, dao.Organization{
		Name:  org.Name,
		Phone: org.Phone,
		TaxID: org.TaxID,
	})
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.orgDaoToDomain(created), nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uint) (domain.Organization, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.orgDaoToDomain(found), nil
}

func (r *OrganizationRepository) FindVerified(ctx context.Context) ([]domain.Organization, error) {
	found, err := r.dao.FindVerified(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindVerified -> %w", err)
	}

	orgs := make([]domain.Organization, len(found))
	for i, o := range found {
		orgs[i] = r.orgDaoToDomain(o)
	}

	return orgs, nil
}

func (r *OrganizationRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *OrganizationRepository) CreateProject(ctx context.Context, project domain.Project) (domain.Project, error) {
	created, err := r.dao.InsertProject(ctx, dao.Project{
		OrganizationID: project.OrganizationID,
		Name:           project.Name,
		Description:    project.Description,
	})
	if err != nil {
		return domain.Project{}, fmt.Errorf("r.dao.InsertProject -> %w", err)
	}

	return r.projectDaoToDomain(created), nil
}

func (r *OrganizationRepository) FindProjectByID(ctx context.Context, id uint) (domain.Project, error) {
	found, err := r.dao.FindProjectByID(ctx, id)
	if err != nil {
		return domain.Project{}, fmt.Errorf("r.dao.FindProjectByID -> %w", err)
	}

	project := r.projectDaoToDomain(found)

	count, err := r.dao.CountProjectOffers(ctx, found.ID)
	if err != nil {
		return domain.Project{}, fmt.Errorf("r.dao.CountProjectOffers -> %w", err)
	}
	project.OfferCount = int(count)

	return project, nil
}

func (r *OrganizationRepository) FindProjects(ctx context.Context, organizationID *uint, search string) ([]domain.Project, error) {
	found, err := r.dao.FindProjects(ctx, organizationID, search)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindProjects -> %w", err)
	}

	projects := make([]domain.Project, len(found))
	for i, p := range found {
		projects[i] = r.projectDaoToDomain(p)
	}

	return projects, nil
}

func (r *OrganizationRepository) DeleteProject(ctx context.Context, id uint) error {
	if err := r.dao.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteProject -> %w", err)
	}

	return nil
}

func (r *OrganizationRepository) orgDaoToDomain(o dao.Organization) domain.Organization {
	return domain.Organization{
		ID:        o.ID,
		Name:      o.Name,
		Phone:     o.Phone,
		TaxID:     o.TaxID,
		Verified:  o.Verified,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (r *OrganizationRepository) projectDaoToDomain(p dao.Project) domain.Project {
	return domain.Project{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Name:           p.Name,
		Description:    p.Description,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
