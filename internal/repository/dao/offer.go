package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOfferNotFound = errors.New("offer not found")

type Offer struct {
	ID uint `gorm:"primaryKey"`

	OrganizationID uint         `gorm:"not null;index"`
	Organization   Organization `gorm:"constraint:OnDelete:CASCADE"`
	ProjectID      uint         `gorm:"not null;index"`
	Project        Project      `gorm:"constraint:OnDelete:CASCADE"`

	Title        string `gorm:"not null"`
	Location     string
	Date         *time.Time
	PostedAt     time.Time `gorm:"not null"`
	Topic        string
	Duration     string
	Requirements string

	Capacity  int  `gorm:"not null;default:1"`
	Completed bool `gorm:"not null;default:false"`

	Participations []Participation `gorm:"foreignKey:OfferID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Participation struct {
	OfferID     uint  `gorm:"primaryKey;autoIncrement:false"`
	Offer       Offer `gorm:"constraint:OnDelete:CASCADE"`
	VolunteerID uint  `gorm:"primaryKey;autoIncrement:false"`
	Volunteer   User  `gorm:"foreignKey:VolunteerID;constraint:OnDelete:CASCADE"`

	Status      string    `gorm:"not null"`
	AppliedAt   time.Time `gorm:"not null"`
	ConfirmedAt *time.Time
	CompletedAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// OfferFilter narrows offer listings; zero values mean "no constraint".
type OfferFilter struct {
	ProjectID      *uint
	OrganizationID *uint
	Location       string
	Topic          string
	Duration       string
	Requirements   string
	Search         string
	Completed      *bool
	AvailableOnly  bool
}

type OfferDAO struct {
	db *gorm.DB
}

func NewOfferDAO(db *gorm.DB) *OfferDAO {
	return &OfferDAO{
		db: db,
	}
}

func (d *OfferDAO) Insert(ctx context.Context, offer Offer) (Offer, error) {
	result := d.db.WithContext(ctx).Create(&offer)
	if result.Error != nil {
		return Offer{}, result.Error
	}

	return offer, nil
}

// FindByID loads the full aggregate: the offer plus its participations in
// application order, each with its volunteer attached.
func (d *OfferDAO) FindByID(ctx context.Context, id uint) (Offer, error) {
	var offer Offer

	result := d.db.WithContext(ctx).
		Preload("Participations", func(db *gorm.DB) *gorm.DB {
			return db.Order("participations.applied_at, participations.volunteer_id")
		}).
		Preload("Participations.Volunteer").
		First(&offer, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Offer{}, ErrOfferNotFound
		}

		return Offer{}, result.Error
	}

	return offer, nil
}

func (d *OfferDAO) Find(ctx context.Context, filter OfferFilter) ([]Offer, error) {
	query := d.db.WithContext(ctx).Model(&Offer{})

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.OrganizationID != nil {
		query = query.Where("organization_id = ?", *filter.OrganizationID)
	}
	if filter.Location != "" {
		query = query.Where("location ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.Topic != "" {
		query = query.Where("topic ILIKE ?", "%"+filter.Topic+"%")
	}
	if filter.Duration != "" {
		query = query.Where("duration ILIKE ?", "%"+filter.Duration+"%")
	}
	if filter.Requirements != "" {
		query = query.Where("requirements ILIKE ?", "%"+filter.Requirements+"%")
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"title ILIKE ? OR location ILIKE ? OR topic ILIKE ? OR requirements ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.AvailableOnly {
		query = query.Where("completed = ?", false).
			Where("NOT EXISTS (SELECT 1 FROM participations p WHERE p.offer_id = offers.id AND p.status <> 'withdrawn')")
	}

	var offers []Offer
	result := query.Order("id").Find(&offers)
	if result.Error != nil {
		return nil, result.Error
	}

	return offers, nil
}

func (d *OfferDAO) FindByVolunteer(ctx context.Context, volunteerID uint) ([]Offer, error) {
	var offers []Offer

	result := d.db.WithContext(ctx).
		Joins("JOIN participations ON participations.offer_id = offers.id").
		Where("participations.volunteer_id = ?", volunteerID).
		Order("offers.id").
		Find(&offers)
	if result.Error != nil {
		return nil, result.Error
	}

	return offers, nil
}

// SaveTransition persists the outcome of one state-machine step: the changed
// participation row and the offer's derived completed flag, atomically.
func (d *OfferDAO) SaveTransition(ctx context.Context, offer Offer, participation Participation) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		participation.Offer = Offer{}
		participation.Volunteer = User{}

		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "offer_id"}, {Name: "volunteer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "applied_at", "confirmed_at", "completed_at", "updated_at",
			}),
		}).Create(&participation).Error
		if err != nil {
			return err
		}

		return tx.Model(&Offer{}).
			Where("id = ?", offer.ID).
			Update("completed", offer.Completed).Error
	})
}

// SaveCompleted updates only the offer-level flag (explicit close action).
func (d *OfferDAO) SaveCompleted(ctx context.Context, offerID uint, completed bool) error {
	result := d.db.WithContext(ctx).Model(&Offer{}).
		Where("id = ?", offerID).
		Update("completed", completed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferNotFound
	}

	return nil
}

func (d *OfferDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Offer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferNotFound
	}

	return nil
}

// FindCompletedParticipations returns a volunteer's completed participations
// with offer and project attached, for certificate generation.
func (d *OfferDAO) FindCompletedParticipations(ctx context.Context, volunteerID uint) ([]Participation, error) {
	var participations []Participation

	result := d.db.WithContext(ctx).
		Preload("Offer").
		Preload("Offer.Project").
		Where("volunteer_id = ? AND status = ?", volunteerID, "completed").
		Order("completed_at").
		Find(&participations)
	if result.Error != nil {
		return nil, result.Error
	}

	return participations, nil
}
