package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("review already exists for this offer and volunteer")
)

type Review struct {
	ID uint `gorm:"primaryKey"`

	OfferID     uint  `gorm:"not null;uniqueIndex:idx_reviews_offer_volunteer"`
	Offer       Offer `gorm:"constraint:OnDelete:CASCADE"`
	VolunteerID uint  `gorm:"not null;uniqueIndex:idx_reviews_offer_volunteer"`
	Volunteer   User  `gorm:"foreignKey:VolunteerID;constraint:OnDelete:CASCADE"`

	OrganizationID uint         `gorm:"not null;index"`
	Organization   Organization `gorm:"constraint:OnDelete:CASCADE"`

	Rating  int `gorm:"not null"`
	Comment string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ReviewDAO struct {
	db *gorm.DB
}

func NewReviewDAO(db *gorm.DB) *ReviewDAO {
	return &ReviewDAO{
		db: db,
	}
}

func (d *ReviewDAO) Insert(ctx context.Context, review Review) (Review, error) {
	result := d.db.WithContext(ctx).Create(&review)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `"idx_reviews_offer_volunteer"`) {
			return Review{}, ErrDuplicateReview
		}

		return Review{}, result.Error
	}

	return review, nil
}

func (d *ReviewDAO) FindByID(ctx context.Context, id uint) (Review, error) {
	var review Review

	result := d.db.WithContext(ctx).First(&review, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Review{}, ErrReviewNotFound
		}

		return Review{}, result.Error
	}

	return review, nil
}

func (d *ReviewDAO) FindByOfferAndVolunteer(ctx context.Context, offerID, volunteerID uint) (Review, error) {
	var review Review

	result := d.db.WithContext(ctx).
		First(&review, "offer_id = ? AND volunteer_id = ?", offerID, volunteerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Review{}, ErrReviewNotFound
		}

		return Review{}, result.Error
	}

	return review, nil
}

func (d *ReviewDAO) Find(ctx context.Context, volunteerID *uint) ([]Review, error) {
	query := d.db.WithContext(ctx).Model(&Review{})

	if volunteerID != nil {
		query = query.Where("volunteer_id = ?", *volunteerID)
	}

	var reviews []Review
	result := query.Order("created_at DESC").Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

func (d *ReviewDAO) Update(ctx context.Context, review Review) (Review, error) {
	result := d.db.WithContext(ctx).Model(&Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]interface{}{
			"rating":  review.Rating,
			"comment": review.Comment,
		})
	if result.Error != nil {
		return Review{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Review{}, ErrReviewNotFound
	}

	return d.FindByID(ctx, review.ID)
}

func (d *ReviewDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}
