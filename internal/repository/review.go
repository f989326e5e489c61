package repository

import (
	"context"
	"errors"
	"fmt"

	"wolontariat-api/internal/domain"
	"wolontariat-api/internal/repository/dao"
)

var (
	ErrReviewNotFound  = dao.ErrReviewNotFound
	ErrDuplicateReview = dao.ErrDuplicateReview
)

type ReviewDAO interface {
	Insert(ctx context.Context, review dao.Review) (dao.Review, error)
	FindByID(ctx context.Context, id uint) (dao.Review, error)
	FindByOfferAndVolunteer(ctx context.Context, offerID, volunteerID uint) (dao.Review, error)
	Find(ctx context.Context, volunteerID *uint) ([]dao.Review, error)
	Update(ctx context.Context, review dao.Review) (dao.Review, error)
	Delete(ctx context.Context, id uint) error
}

type ReviewRepository struct {
	dao ReviewDAO
}

func NewReviewRepository(dao ReviewDAO) *ReviewRepository {
	return &ReviewRepository{
		dao: dao,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review domain.Review) (domain.Review, error) {
	created, err := r.dao.Insert(ctx, dao.Review{
		OfferID:        review.OfferID,
		VolunteerID:    review.VolunteerID,
		OrganizationID: review.OrganizationID,
		Rating:         review.Rating,
		Comment:        review.Comment,
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (domain.Review, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Review{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ReviewRepository) Exists(ctx context.Context, offerID, volunteerID uint) (bool, error) {
	_, err := r.dao.FindByOfferAndVolunteer(ctx, offerID, volunteerID)
	if err != nil {
		if errors.Is(err, dao.ErrReviewNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("r.dao.FindByOfferAndVolunteer -> %w", err)
	}

	return true, nil
}

func (r *ReviewRepository) Find(ctx context.Context, volunteerID *uint) ([]domain.Review, error) {
	found, err := r.dao.Find(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	reviews := make([]domain.Review, len(found))
	for i, rev := range found {
		reviews[i] = r.daoToDomain(rev)
	}

	return reviews, nil
}

func (r *ReviewRepository) Update(ctx context.Context, review domain.Review) (domain.Review, error) {
	updated, err := r.dao.Update(ctx, dao.Review{
		ID:      review.ID,
		Rating:  review.Rating,
		Comment: review.Comment,
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ReviewRepository) daoToDomain(rev dao.Review) domain.Review {
	return domain.Review{
		ID:             rev.ID,
		OfferID:        rev.OfferID,
		VolunteerID:    rev.VolunteerID,
		OrganizationID: rev.OrganizationID,
		Rating:         rev.Rating,
		Comment:        rev.Comment,
		CreatedAt:      rev.CreatedAt,
	}
}
