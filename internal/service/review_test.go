package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wolontariat-api/internal/domain"
	"wolontariat-api/internal/repository"
)

type fakeReviewRepo struct {
	mu      sync.Mutex
	nextID  uint
	reviews map[uint]domain.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		nextID:  1,
		reviews: make(map[uint]domain.Review),
	}
}

func (r *fakeReviewRepo) Create(_ context.Context, review domain.Review) (domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reviews {
		if existing.OfferID == review.OfferID && existing.VolunteerID == review.VolunteerID {
			return domain.Review{}, repository.ErrDuplicateReview
		}
	}

	review.ID = r.nextID
	r.nextID++
	review.CreatedAt = time.Now()
	r.reviews[review.ID] = review

	return review, nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uint) (domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[id]
	if !ok {
		return domain.Review{}, repository.ErrReviewNotFound
	}

	return review, nil
}

func (r *fakeReviewRepo) Exists(_ context.Context, offerID, volunteerID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, review := range r.reviews {
		if review.OfferID == offerID && review.VolunteerID == volunteerID {
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeReviewRepo) Find(_ context.Context, volunteerID *uint) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var reviews []domain.Review
	for _, review := range r.reviews {
		if volunteerID == nil || review.VolunteerID == *volunteerID {
			reviews = append(reviews, review)
		}
	}

	return reviews, nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review domain.Review) (domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[review.ID]; !ok {
		return domain.Review{}, repository.ErrReviewNotFound
	}
	r.reviews[review.ID] = review

	return review, nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[id]; !ok {
		return repository.ErrReviewNotFound
	}
	delete(r.reviews, id)

	return nil
}

// newTestReviewService seeds one offer whose volunteer 10 has completed and
// volunteer 11 has only applied.
func newTestReviewService(t *testing.T) (*ReviewService, uint) {
	t.Helper()

	ctx := context.Background()
	offerRepo := newFakeOfferRepo()
	users := newTestUsers()
	projects := &fakeProjectRepo{
		projects: map[uint]domain.Project{
			1: {ID: 1, OrganizationID: testOrgID, Name: "zbiorka darow"},
		},
	}

	now := time.Now()
	completedAt := now.Add(time.Hour)
	offer, err := offerRepo.Create(ctx, domain.Offer{
		OrganizationID: testOrgID,
		ProjectID:      1,
		Title:          "pomoc w magazynie",
		Capacity:       2,
		Participations: []domain.Participation{
			{VolunteerID: 10, Status: domain.StatusCompleted, AppliedAt: now, ConfirmedAt: &now, CompletedAt: &completedAt},
			{VolunteerID: 11, Status: domain.StatusApplied, AppliedAt: now},
		},
	})
	require.NoError(t, err)

	svc := NewReviewService(newFakeReviewRepo(), offerRepo, users, projects)

	return svc, offer.ID
}

func TestReviewService_CreateReview(t *testing.T) {
	ctx := context.Background()
	orgID := testOrgID
	otherOrgID := testOtherOrgID
	orgUser := domain.User{ID: 30, Role: domain.RoleOrganization, OrganizationID: &orgID}

	t.Run("reviews a completed volunteer", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)

		review, err := svc.CreateReview(ctx, offerID, 10, orgUser, 5, "niezawodna pomoc")

		require.NoError(t, err)
		assert.Equal(t, 5, review.Rating)
		assert.Equal(t, testOrgID, review.OrganizationID)
	})

	t.Run("rejects a second review for the same pair", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)

		_, err := svc.CreateReview(ctx, offerID, 10, orgUser, 5, "")
		require.NoError(t, err)

		_, err = svc.CreateReview(ctx, offerID, 10, orgUser, 3, "")

		assert.ErrorIs(t, err, ErrDuplicateReview)
	})

	t.Run("rejects when the participation is not completed", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)

		_, err := svc.CreateReview(ctx, offerID, 11, orgUser, 4, "")

		assert.ErrorIs(t, err, ErrNotCompleted)
	})

	t.Run("rejects out-of-range ratings", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)

		for _, rating := range []int{0, -1, 6} {
			_, err := svc.CreateReview(ctx, offerID, 10, orgUser, rating, "")
			assert.ErrorIs(t, err, ErrInvalidRating)
		}
	})

	t.Run("another organization is forbidden", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)

		_, err := svc.CreateReview(ctx, offerID, 10, domain.User{
			ID: 31, Role: domain.RoleOrganization, OrganizationID: &otherOrgID,
		}, 5, "")

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("coordinator is forbidden", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)

		_, err := svc.CreateReview(ctx, offerID, 10, domain.User{ID: 20, Role: domain.RoleCoordinator}, 5, "")

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("volunteer with no participation", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)

		_, err := svc.CreateReview(ctx, offerID, 999, orgUser, 5, "")

		assert.ErrorIs(t, err, ErrVolunteerNotFound)
	})

	t.Run("unknown offer", func(t *testing.T) {
		svc, _ := newTestReviewService(t)

		_, err := svc.CreateReview(ctx, 999, 10, orgUser, 5, "")

		assert.ErrorIs(t, err, ErrOfferNotFound)
	})
}

func TestReviewService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	orgID := testOrgID
	otherOrgID := testOtherOrgID
	orgUser := domain.User{ID: 30, Role: domain.RoleOrganization, OrganizationID: &orgID}
	otherOrgUser := domain.User{ID: 31, Role: domain.RoleOrganization, OrganizationID: &otherOrgID}

	t.Run("author updates its review", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)
		review, err := svc.CreateReview(ctx, offerID, 10, orgUser, 3, "ok")
		require.NoError(t, err)

		updated, err := svc.UpdateReview(ctx, review.ID, orgUser, 5, "jednak swietnie")

		require.NoError(t, err)
		assert.Equal(t, 5, updated.Rating)
		assert.Equal(t, "jednak swietnie", updated.Comment)
	})

	t.Run("non-author cannot update", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)
		review, err := svc.CreateReview(ctx, offerID, 10, orgUser, 3, "")
		require.NoError(t, err)

		_, err = svc.UpdateReview(ctx, review.ID, otherOrgUser, 1, "")

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("author deletes its review", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)
		review, err := svc.CreateReview(ctx, offerID, 10, orgUser, 3, "")
		require.NoError(t, err)

		require.NoError(t, svc.DeleteReview(ctx, review.ID, orgUser))

		_, err = svc.UpdateReview(ctx, review.ID, orgUser, 4, "")
		assert.ErrorIs(t, err, ErrReviewNotFound)
	})

	t.Run("non-author cannot delete", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)
		review, err := svc.CreateReview(ctx, offerID, 10, orgUser, 3, "")
		require.NoError(t, err)

		err = svc.DeleteReview(ctx, review.ID, otherOrgUser)

		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestReviewService_IssueCertificate(t *testing.T) {
	ctx := context.Background()
	completedVolunteer := domain.User{ID: 10, Username: "ala", Role: domain.RoleVolunteer}
	appliedVolunteer := domain.User{ID: 11, Username: "jan", Role: domain.RoleVolunteer}

	t.Run("issues for a completed participation", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)

		cert, err := svc.IssueCertificate(ctx, offerID, completedVolunteer.ID, completedVolunteer)

		require.NoError(t, err)
		assert.NotEmpty(t, cert.Serial)
		assert.Equal(t, offerID, cert.OfferID)
		assert.Equal(t, "pomoc w magazynie", cert.OfferTitle)
		assert.Equal(t, "zbiorka darow", cert.ProjectName)
		assert.Equal(t, "ala", cert.VolunteerName)
		assert.NotNil(t, cert.CompletedAt)
	})

	t.Run("rejects before completion", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)

		_, err := svc.IssueCertificate(ctx, offerID, appliedVolunteer.ID, appliedVolunteer)

		assert.ErrorIs(t, err, ErrNotCompleted)
	})

	t.Run("self-service only", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)

		_, err := svc.IssueCertificate(ctx, offerID, completedVolunteer.ID, appliedVolunteer)

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("serials are unique", func(t *testing.T) {
		svc, offerID := newTestReviewService(t)

		first, err := svc.IssueCertificate(ctx, offerID, completedVolunteer.ID, completedVolunteer)
		require.NoError(t, err)
		second, err := svc.IssueCertificate(ctx, offerID, completedVolunteer.ID, completedVolunteer)
		require.NoError(t, err)

		assert.NotEqual(t, first.Serial, second.Serial)
	})
}

func TestReviewService_SummaryCertificate(t *testing.T) {
	ctx := context.Background()
	completedVolunteer := domain.User{ID: 10, Username: "ala", Role: domain.RoleVolunteer}
	appliedVolunteer := domain.User{ID: 11, Username: "jan", Role: domain.RoleVolunteer}

	t.Run("covers completed participations", func(t *testing.T) {
		svc, _ := newTestReviewService(t)

		cert, err := svc.SummaryCertificate(ctx, completedVolunteer)

		require.NoError(t, err)
		assert.NotEmpty(t, cert.Serial)
		require.Len(t, cert.CompletedOffers, 1)
		assert.Equal(t, "pomoc w magazynie", cert.CompletedOffers[0].OfferTitle)
	})

	t.Run("rejects when nothing is completed", func(t *testing.T) {
		svc, _ := newTestReviewService(t)

		_, err := svc.SummaryCertificate(ctx, appliedVolunteer)

		assert.ErrorIs(t, err, ErrNotCompleted)
	})

	t.Run("organization users cannot request one", func(t *testing.T) {
		svc, _ := newTestReviewService(t)
		orgID := testOrgID

		_, err := svc.SummaryCertificate(ctx, domain.User{ID: 30, Role: domain.RoleOrganization, OrganizationID: &orgID})

		assert.ErrorIs(t, err, ErrForbidden)
	})
}
