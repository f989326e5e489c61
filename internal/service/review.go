package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wolontariat-api/internal/domain"
	"wolontariat-api/internal/repository"
)

var (
	ErrReviewNotFound  = repository.ErrReviewNotFound
	ErrDuplicateReview = repository.ErrDuplicateReview
	ErrNotCompleted    = domain.ErrNotCompleted
	ErrInvalidRating   = errors.New("rating must be an integer between 1 and 5")
)

type ReviewRepository interface {
	Create(ctx context.Context, review domain.Review) (domain.Review, error)
	FindByID(ctx context.Context, id uint) (domain.Review, error)
	Exists(ctx context.Context, offerID, volunteerID uint) (bool, error)
	Find(ctx context.Context, volunteerID *uint) ([]domain.Review, error)
	Update(ctx context.Context, review domain.Review) (domain.Review, error)
	Delete(ctx context.Context, id uint) error
}

// ReviewService gates reviews and certificates on verified completion.
type ReviewService struct {
	repo        ReviewRepository
	offerRepo   OfferRepository
	userRepo    OfferUserRepository
	projectRepo OfferProjectRepository
}

func NewReviewService(repo ReviewRepository, offerRepo OfferRepository, userRepo OfferUserRepository, projectRepo OfferProjectRepository) *ReviewService {
	return &ReviewService{
		repo:        repo,
		offerRepo:   offerRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

// CreateReview lets the offer's owning organization review a volunteer whose
// participation is completed, at most once per (offer, volunteer) pair.
func (s *ReviewService) CreateReview(ctx context.Context, offerID, volunteerID uint, actor domain.User, rating int, comment string) (domain.Review, error) {
	if rating < 1 || rating > 5 {
		return domain.Review{}, ErrInvalidRating
	}

	offer, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return domain.Review{}, ErrOfferNotFound
		}

		return domain.Review{}, fmt.Errorf("s.offerRepo.FindByID -> %w", err)
	}

	if !domain.CanPerform(actor, domain.ActionCreateReview, offer) {
		return domain.Review{}, forbidden(actor, domain.ActionCreateReview)
	}

	participation, ok := offer.FindParticipation(volunteerID)
	if !ok {
		return domain.Review{}, ErrVolunteerNotFound
	}
	if participation.Status != domain.StatusCompleted {
		return domain.Review{}, ErrNotCompleted
	}

	exists, err := s.repo.Exists(ctx, offerID, volunteerID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("s.repo.Exists -> %w", err)
	}
	if exists {
		return domain.Review{}, ErrDuplicateReview
	}

	// The unique index still backstops the check above under concurrency.
	created, err := s.repo.Create(ctx, domain.Review{
		OfferID:        offerID,
		VolunteerID:    volunteerID,
		OrganizationID: offer.OrganizationID,
		Rating:         rating,
		Comment:        comment,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return domain.Review{}, ErrDuplicateReview
		}

		return domain.Review{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, volunteerID *uint) ([]domain.Review, error) {
	reviews, err := s.repo.Find(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return reviews, nil
}

// UpdateReview lets only the authoring organization change its review.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID uint, actor domain.User, rating int, comment string) (domain.Review, error) {
	if rating < 1 || rating > 5 {
		return domain.Review{}, ErrInvalidRating
	}

	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return domain.Review{}, ErrReviewNotFound
		}

		return domain.Review{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !s.ownsReview(actor, review) {
		return domain.Review{}, forbidden(actor, "update_review")
	}

	review.Rating = rating
	review.Comment = comment

	updated, err := s.repo.Update(ctx, review)
	if err != nil {
		return domain.Review{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, reviewID uint, actor domain.User) error {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !s.ownsReview(actor, review) {
		return forbidden(actor, "delete_review")
	}

	if err = s.repo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *ReviewService) ownsReview(actor domain.User, review domain.Review) bool {
	return actor.Role == domain.RoleOrganization &&
		actor.OrganizationID != nil &&
		*actor.OrganizationID == review.OrganizationID
}

// IssueCertificate returns a descriptor for one completed participation.
// Certificates are self-service: the requester must be the volunteer.
func (s *ReviewService) IssueCertificate(ctx context.Context, offerID, volunteerID uint, requester domain.User) (domain.CertificateDescriptor, error) {
	if requester.ID != volunteerID {
		return domain.CertificateDescriptor{}, forbidden(requester, "issue_certificate")
	}

	offer, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return domain.CertificateDescriptor{}, ErrOfferNotFound
		}

		return domain.CertificateDescriptor{}, fmt.Errorf("s.offerRepo.FindByID -> %w", err)
	}

	participation, ok := offer.FindParticipation(volunteerID)
	if !ok || participation.Status != domain.StatusCompleted {
		return domain.CertificateDescriptor{}, ErrNotCompleted
	}

	project, err := s.projectRepo.FindProjectByID(ctx, offer.ProjectID)
	if err != nil {
		return domain.CertificateDescriptor{}, fmt.Errorf("s.projectRepo.FindProjectByID -> %w", err)
	}

	return domain.CertificateDescriptor{
		Serial:        uuid.NewString(),
		OfferID:       offer.ID,
		VolunteerID:   volunteerID,
		OfferTitle:    offer.Title,
		ProjectName:   project.Name,
		VolunteerName: requester.Username,
		CompletedAt:   participation.CompletedAt,
		IssuedAt:      time.Now(),
	}, nil
}

// SummaryCertificate covers every completed participation of the requesting
// volunteer. Fails when there is nothing completed to certify.
func (s *ReviewService) SummaryCertificate(ctx context.Context, requester domain.User) (domain.CertificateDescriptor, error) {
	if requester.Role != domain.RoleVolunteer {
		return domain.CertificateDescriptor{}, forbidden(requester, "issue_certificate")
	}

	entries, err := s.offerRepo.FindCompletedOfferDetails(ctx, requester.ID)
	if err != nil {
		return domain.CertificateDescriptor{}, fmt.Errorf("s.offerRepo.FindCompletedOfferDetails -> %w", err)
	}
	if len(entries) == 0 {
		return domain.CertificateDescriptor{}, ErrNotCompleted
	}

	return domain.CertificateDescriptor{
		Serial:          uuid.NewString(),
		VolunteerID:     requester.ID,
		VolunteerName:   requester.Username,
		IssuedAt:        time.Now(),
		CompletedOffers: entries,
	}, nil
}
