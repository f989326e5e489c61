package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wolontariat-api/internal/domain"
	"wolontariat-api/internal/repository"
)

type fakeOrgRepo struct {
	nextOrgID     uint
	nextProjectID uint
	orgs          map[uint]domain.Organization
	projects      map[uint]domain.Project
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{
		nextOrgID:     1,
		nextProjectID: 1,
		orgs:          make(map[uint]domain.Organization),
		projects:      make(map[uint]domain.Project),
	}
}

func (r *fakeOrgRepo) Create(_ context.Context, org domain.Organization) (domain.Organization, error) {
	org.ID = r.nextOrgID
	org.Verified = org.TaxID != ""
	r.nextOrgID++
	r.orgs[org.ID] = org

	return org, nil
}

func (r *fakeOrgRepo) FindByID(_ context.Context, id uint) (domain.Organization, error) {
	org, ok := r.orgs[id]
	if !ok {
		return domain.Organization{}, repository.ErrOrganizationNotFound
	}

	return org, nil
}

func (r *fakeOrgRepo) FindVerified(_ context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	for _, o := range r.orgs {
		if o.Verified {
			orgs = append(orgs, o)
		}
	}

	return orgs, nil
}

func (r *fakeOrgRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.orgs[id]; !ok {
		return repository.ErrOrganizationNotFound
	}
	delete(r.orgs, id)
	for pid, p := range r.projects {
		if p.OrganizationID == id {
			delete(r.projects, pid)
		}
	}

	return nil
}

func (r *fakeOrgRepo) CreateProject(_ context.Context, project domain.Project) (domain.Project, error) {
	project.ID = r.nextProjectID
	r.nextProjectID++
	r.projects[project.ID] = project

	return project, nil
}

func (r *fakeOrgRepo) FindProjectByID(_ context.Context, id uint) (domain.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return domain.Project{}, repository.ErrProjectNotFound
	}

	return project, nil
}

func (r *fakeOrgRepo) FindProjects(_ context.Context, organizationID *uint, search string) ([]domain.Project, error) {
	var projects []domain.Project
	for _, p := range r.projects {
		if organizationID != nil && p.OrganizationID != *organizationID {
			continue
		}
		if search != "" && !strings.Contains(p.Name, search) {
			continue
		}
		projects = append(projects, p)
	}

	return projects, nil
}

func (r *fakeOrgRepo) DeleteProject(_ context.Context, id uint) error {
	if _, ok := r.projects[id]; !ok {
		return repository.ErrProjectNotFound
	}
	delete(r.projects, id)

	return nil
}

func newTestOrganizationService(t *testing.T) (*OrganizationService, *fakeOrgRepo, domain.Organization, domain.Project) {
	t.Helper()
	ctx := context.Background()

	repo := newFakeOrgRepo()
	svc := NewOrganizationService(repo)

	org, err := repo.Create(ctx, domain.Organization{Name: "Fundacja Pomagam", TaxID: "1234567890"})
	require.NoError(t, err)

	project, err := repo.CreateProject(ctx, domain.Project{OrganizationID: org.ID, Name: "Zbiorka zimowa"})
	require.NoError(t, err)

	return svc, repo, org, project
}

func TestOrganizationService_CreateOrganization(t *testing.T) {
	ctx := context.Background()
	coordinator := domain.User{ID: 20, Role: domain.RoleCoordinator}

	t.Run("coordinator registers", func(t *testing.T) {
		svc, _, _, _ := newTestOrganizationService(t)

		created, err := svc.CreateOrganization(ctx, domain.Organization{Name: "Nowa", TaxID: "9998887776"}, coordinator)

		require.NoError(t, err)
		assert.True(t, created.Verified)
	})

	t.Run("organization user cannot register", func(t *testing.T) {
		svc, _, org, _ := newTestOrganizationService(t)
		orgID := org.ID

		_, err := svc.CreateOrganization(ctx, domain.Organization{Name: "Nowa"},
			domain.User{ID: 30, Role: domain.RoleOrganization, OrganizationID: &orgID})

		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestOrganizationService_DeleteOrganization(t *testing.T) {
	ctx := context.Background()
	coordinator := domain.User{ID: 20, Role: domain.RoleCoordinator}

	t.Run("coordinator deletes with projects cascading", func(t *testing.T) {
		svc, repo, org, project := newTestOrganizationService(t)

		require.NoError(t, svc.DeleteOrganization(ctx, org.ID, coordinator))

		_, err := repo.FindByID(ctx, org.ID)
		assert.ErrorIs(t, err, repository.ErrOrganizationNotFound)
		_, err = repo.FindProjectByID(ctx, project.ID)
		assert.ErrorIs(t, err, repository.ErrProjectNotFound)
	})

	t.Run("organization user cannot delete", func(t *testing.T) {
		svc, _, org, _ := newTestOrganizationService(t)
		orgID := org.ID

		err := svc.DeleteOrganization(ctx, org.ID,
			domain.User{ID: 30, Role: domain.RoleOrganization, OrganizationID: &orgID})

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown organization", func(t *testing.T) {
		svc, _, _, _ := newTestOrganizationService(t)

		err := svc.DeleteOrganization(ctx, 999, coordinator)

		assert.ErrorIs(t, err, ErrOrganizationNotFound)
	})
}

func TestOrganizationService_DeleteProject(t *testing.T) {
	ctx := context.Background()

	t.Run("owning organization deletes", func(t *testing.T) {
		svc, repo, org, project := newTestOrganizationService(t)
		orgID := org.ID

		err := svc.DeleteProject(ctx, project.ID,
			domain.User{ID: 30, Role: domain.RoleOrganization, OrganizationID: &orgID})

		require.NoError(t, err)
		_, err = repo.FindProjectByID(ctx, project.ID)
		assert.ErrorIs(t, err, repository.ErrProjectNotFound)
	})

	t.Run("coordinator deletes any project", func(t *testing.T) {
		svc, _, _, project := newTestOrganizationService(t)

		err := svc.DeleteProject(ctx, project.ID, domain.User{ID: 20, Role: domain.RoleCoordinator})

		assert.NoError(t, err)
	})

	t.Run("other organization cannot delete", func(t *testing.T) {
		svc, _, _, project := newTestOrganizationService(t)
		otherOrgID := uint(999)

		err := svc.DeleteProject(ctx, project.ID,
			domain.User{ID: 31, Role: domain.RoleOrganization, OrganizationID: &otherOrgID})

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("volunteer cannot delete", func(t *testing.T) {
		svc, _, _, project := newTestOrganizationService(t)

		err := svc.DeleteProject(ctx, project.ID, domain.User{ID: 10, Role: domain.RoleVolunteer})

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown project", func(t *testing.T) {
		svc, _, _, _ := newTestOrganizationService(t)

		err := svc.DeleteProject(ctx, 999, domain.User{ID: 20, Role: domain.RoleCoordinator})

		assert.ErrorIs(t, err, ErrProjectNotFound)
	})
}
