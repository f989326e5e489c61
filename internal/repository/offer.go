package repository

import (
	"context"
	"fmt"

	"wolontariat-api/internal/domain"
	"wolontariat-api/internal/repository/dao"
)

var ErrOfferNotFound = dao.ErrOfferNotFound

type OfferDAO interface {
	Insert(ctx context.Context, offer dao.Offer) (dao.Offer, error)
	FindByID(ctx context.Context, id uint) (dao.Offer, error)
	Find(ctx context.Context, filter dao.OfferFilter) ([]dao.Offer, error)
	FindByVolunteer(ctx context.Context, volunteerID uint) ([]dao.Offer, error)
	SaveTransition(ctx context.Context, offer dao.Offer, participation dao.Participation) error
	SaveCompleted(ctx context.Context, offerID uint, completed bool) error
	Delete(ctx context.Context, id uint) error
	FindCompletedParticipations(ctx context.Context, volunteerID uint) ([]dao.Participation, error)
}

// OfferFilter mirrors dao.OfferFilter at the domain boundary.
type OfferFilter = dao.OfferFilter

type OfferRepository struct {
	dao OfferDAO
}

func NewOfferRepository(dao OfferDAO) *OfferRepository {
	return &OfferRepository{
		dao: dao,
	}
}

func (r *OfferRepository) Create(ctx context.Context, offer domain.Offer) (domain.Offer, error) {
	capacity := offer.Capacity
	if capacity == 0 {
		capacity = 1
	}

	created, err := r.dao.Insert(ctx, dao.Offer{
		OrganizationID: offer.OrganizationID,
		ProjectID:      offer.ProjectID,
		Title:          offer.Title,
		Location:       offer.Location,
		Date:           offer.Date,
		PostedAt:       offer.PostedAt,
		Topic:          offer.Topic,
		Duration:       offer.Duration,
		Requirements:   offer.Requirements,
		Capacity:       capacity,
	})
	if err != nil {
		return domain.Offer{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id uint) (domain.Offer, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *OfferRepository) Find(ctx context.Context, filter OfferFilter) ([]domain.Offer, error) {
	found, err := r.dao.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *OfferRepository) FindByVolunteer(ctx context.Context, volunteerID uint) ([]domain.Offer, error) {
	found, err := r.dao.FindByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByVolunteer -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *OfferRepository) FindByOrganization(ctx context.Context, organizationID uint) ([]domain.Offer, error) {
	found, err := r.dao.Find(ctx, dao.OfferFilter{OrganizationID: &organizationID})
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	return r.daosToDomain(found), nil
}

// SaveTransition persists one state-machine step atomically: the changed
// participation plus the offer's derived completed flag.
func (r *OfferRepository) SaveTransition(ctx context.Context, offer domain.Offer, participation domain.Participation) error {
	err := r.dao.SaveTransition(ctx, r.domainToDao(offer), r.participationDomainToDao(participation))
	if err != nil {
		return fmt.Errorf("r.dao.SaveTransition -> %w", err)
	}

	return nil
}

func (r *OfferRepository) SaveCompleted(ctx context.Context, offerID uint, completed bool) error {
	if err := r.dao.SaveCompleted(ctx, offerID, completed); err != nil {
		return fmt.Errorf("r.dao.SaveCompleted -> %w", err)
	}

	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

// FindCompletedOfferDetails returns certificate entries (offer title, project
// name, completion time) for a volunteer's completed participations.
func (r *OfferRepository) FindCompletedOfferDetails(ctx context.Context, volunteerID uint) ([]domain.CertificateEntry, error) {
	found, err := r.dao.FindCompletedParticipations(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCompletedParticipations -> %w", err)
	}

	entries := make([]domain.CertificateEntry, len(found))
	for i, p := range found {
		entries[i] = domain.CertificateEntry{
			OfferID:     p.OfferID,
			OfferTitle:  p.Offer.Title,
			ProjectName: p.Offer.Project.Name,
			CompletedAt: p.CompletedAt,
		}
	}

	return entries, nil
}

func (r *OfferRepository) daoToDomain(o dao.Offer) domain.Offer {
	offer := domain.Offer{
		ID:             o.ID,
		OrganizationID: o.OrganizationID,
		ProjectID:      o.ProjectID,
		Title:          o.Title,
		Location:       o.Location,
		Date:           o.Date,
		PostedAt:       o.PostedAt,
		Topic:          o.Topic,
		Duration:       o.Duration,
		Requirements:   o.Requirements,
		Capacity:       o.Capacity,
		Completed:      o.Completed,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}

	for _, p := range o.Participations {
		offer.Participations = append(offer.Participations, r.participationDaoToDomain(p))
	}

	return offer
}

func (r *OfferRepository) daosToDomain(offers []dao.Offer) []domain.Offer {
	result := make([]domain.Offer, len(offers))
	for i, o := range offers {
		result[i] = r.daoToDomain(o)
	}

	return result
}

func (r *OfferRepository) domainToDao(o domain.Offer) dao.Offer {
	return dao.Offer{
		ID:             o.ID,
		OrganizationID: o.OrganizationID,
		ProjectID:      o.ProjectID,
		Title:          o.Title,
		Location:       o.Location,
		Date:           o.Date,
		PostedAt:       o.PostedAt,
		Topic:          o.Topic,
		Duration:       o.Duration,
		Requirements:   o.Requirements,
		Capacity:       o.Capacity,
		Completed:      o.Completed,
	}
}

func (r *OfferRepository) participationDaoToDomain(p dao.Participation) domain.Participation {
	participation := domain.Participation{
		OfferID:     p.OfferID,
		VolunteerID: p.VolunteerID,
		Status:      domain.ParticipationStatus(p.Status),
		AppliedAt:   p.AppliedAt,
		ConfirmedAt: p.ConfirmedAt,
		CompletedAt: p.CompletedAt,
	}

	if p.Volunteer.ID != 0 {
		volunteer := domain.User{
			ID:        p.Volunteer.ID,
			Username:  p.Volunteer.Username,
			Email:     p.Volunteer.Email,
			FirstName: p.Volunteer.FirstName,
			LastName:  p.Volunteer.LastName,
			Phone:     p.Volunteer.Phone,
			Age:       p.Volunteer.Age,
			Role:      p.Volunteer.Role,
		}
		participation.Volunteer = &volunteer
	}

	return participation
}

func (r *OfferRepository) participationDomainToDao(p domain.Participation) dao.Participation {
	return dao.Participation{
		OfferID:     p.OfferID,
		VolunteerID: p.VolunteerID,
		Status:      string(p.Status),
		AppliedAt:   p.AppliedAt,
		ConfirmedAt: p.ConfirmedAt,
		CompletedAt: p.CompletedAt,
	}
}
