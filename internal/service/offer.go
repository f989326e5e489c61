package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"wolontariat-api/internal/domain"
	"wolontariat-api/internal/repository"
)

var (
	ErrOfferNotFound         = repository.ErrOfferNotFound
	ErrVolunteerNotFound     = errors.New("volunteer not found")
	ErrProjectNotFound       = repository.ErrProjectNotFound
	ErrOfferClosed           = domain.ErrOfferClosed
	ErrAlreadyApplied        = domain.ErrAlreadyApplied
	ErrInvalidTransition     = domain.ErrInvalidTransition
	ErrCapacityExceeded      = domain.ErrCapacityExceeded
	ErrParticipationNotFound = domain.ErrParticipationNotFound
	ErrForbidden             = errors.New("forbidden")
)

// forbidden wraps ErrForbidden with the rejected action and the actor's role
// so callers can report exactly what was denied.
func forbidden(actor domain.User, action domain.Action) error {
	return fmt.Errorf("%w: user %v (role %v) may not perform %q", ErrForbidden, actor.ID, actor.Role, action)
}

type OfferRepository interface {
	Create(ctx context.Context, offer domain.Offer) (domain.Offer, error)
	FindByID(ctx context.Context, id uint) (domain.Offer, error)
	Find(ctx context.Context, filter repository.OfferFilter) ([]domain.Offer, error)
	FindByVolunteer(ctx context.Context, volunteerID uint) ([]domain.Offer, error)
	FindByOrganization(ctx context.Context, organizationID uint) ([]domain.Offer, error)
	SaveTransition(ctx context.Context, offer domain.Offer, participation domain.Participation) error
	SaveCompleted(ctx context.Context, offerID uint, completed bool) error
	Delete(ctx context.Context, id uint) error
	FindCompletedOfferDetails(ctx context.Context, volunteerID uint) ([]domain.CertificateEntry, error)
}

type OfferUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type OfferProjectRepository interface {
	FindProjectByID(ctx context.Context, id uint) (domain.Project, error)
}

// OfferService drives the participation workflow. Every mutation of one
// offer's state runs under that offer's lock, so concurrent transitions on
// the same participation serialize and the loser sees the advanced state.
type OfferService struct {
	repo        OfferRepository
	userRepo    OfferUserRepository
	projectRepo OfferProjectRepository

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewOfferService(repo OfferRepository, userRepo OfferUserRepository, projectRepo OfferProjectRepository) *OfferService {
	return &OfferService{
		repo:        repo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		locks:       make(map[uint]*sync.Mutex),
	}
}

func (s *OfferService) offerLock(offerID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[offerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[offerID] = l
	}

	return l
}

// transition runs one state-machine step under the offer lock: load the
// aggregate, authorize, apply the step, persist atomically. A failed step
// leaves the stored offer and participation untouched.
func (s *OfferService) transition(
	ctx context.Context,
	offerID uint,
	actor domain.User,
	action domain.Action,
	volunteerID uint,
	step func(offer *domain.Offer) (domain.Participation, error),
) (domain.Participation, error) {
	l := s.offerLock(offerID)
	l.Lock()
	defer l.Unlock()

	offer, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return domain.Participation{}, ErrOfferNotFound
		}

		return domain.Participation{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !domain.CanPerform(actor, action, offer) {
		return domain.Participation{}, forbidden(actor, action)
	}

	volunteer, err := s.userRepo.FindByID(ctx, volunteerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Participation{}, ErrVolunteerNotFound
		}

		return domain.Participation{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}
	if volunteer.Role != domain.RoleVolunteer {
		return domain.Participation{}, ErrVolunteerNotFound
	}

	participation, err := step(&offer)
	if err != nil {
		return domain.Participation{}, err
	}

	if err = s.repo.SaveTransition(ctx, offer, participation); err != nil {
		return domain.Participation{}, fmt.Errorf("s.repo.SaveTransition -> %w", err)
	}

	participation.Volunteer = &volunteer

	return participation, nil
}

// Apply records the acting volunteer's application to an offer.
func (s *OfferService) Apply(ctx context.Context, offerID uint, actor domain.User) (domain.Participation, error) {
	return s.transition(ctx, offerID, actor, domain.ActionApply, actor.ID,
		func(offer *domain.Offer) (domain.Participation, error) {
			return offer.Apply(actor.ID, time.Now())
		})
}

// Withdraw retracts the acting volunteer's own application.
func (s *OfferService) Withdraw(ctx context.Context, offerID uint, actor domain.User) (domain.Participation, error) {
	return s.transition(ctx, offerID, actor, domain.ActionWithdraw, actor.ID,
		func(offer *domain.Offer) (domain.Participation, error) {
			return offer.Withdraw(actor.ID)
		})
}

// Confirm accepts a volunteer's application on behalf of the offer's owner.
func (s *OfferService) Confirm(ctx context.Context, offerID, volunteerID uint, actor domain.User) (domain.Participation, error) {
	return s.transition(ctx, offerID, actor, domain.ActionConfirm, volunteerID,
		func(offer *domain.Offer) (domain.Participation, error) {
			return offer.Confirm(volunteerID, time.Now())
		})
}

// ApproveCompletion marks a confirmed volunteer's work as done.
func (s *OfferService) ApproveCompletion(ctx context.Context, offerID, volunteerID uint, actor domain.User) (domain.Participation, error) {
	return s.transition(ctx, offerID, actor, domain.ActionApproveCompletion, volunteerID,
		func(offer *domain.Offer) (domain.Participation, error) {
			return offer.ApproveCompletion(volunteerID, time.Now())
		})
}

// Assign places a known volunteer directly into the confirmed state.
func (s *OfferService) Assign(ctx context.Context, offerID, volunteerID uint, actor domain.User) (domain.Participation, error) {
	return s.transition(ctx, offerID, actor, domain.ActionAssign, volunteerID,
		func(offer *domain.Offer) (domain.Participation, error) {
			return offer.Assign(volunteerID, time.Now())
		})
}

// Close finishes an offer regardless of individual participation state.
// This is the only closing path for multi-slot offers.
func (s *OfferService) Close(ctx context.Context, offerID uint, actor domain.User) (domain.Offer, error) {
	l := s.offerLock(offerID)
	l.Lock()
	defer l.Unlock()

	offer, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return domain.Offer{}, ErrOfferNotFound
		}

		return domain.Offer{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !domain.CanPerform(actor, domain.ActionClose, offer) {
		return domain.Offer{}, forbidden(actor, domain.ActionClose)
	}

	offer.Close()

	if err = s.repo.SaveCompleted(ctx, offer.ID, offer.Completed); err != nil {
		return domain.Offer{}, fmt.Errorf("s.repo.SaveCompleted -> %w", err)
	}

	return offer, nil
}

// DeleteOffer removes an offer. Its participations and reviews cascade at
// the schema level.
func (s *OfferService) DeleteOffer(ctx context.Context, offerID uint, actor domain.User) error {
	l := s.offerLock(offerID)
	l.Lock()
	defer l.Unlock()

	offer, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return ErrOfferNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !domain.CanPerform(actor, domain.ActionDelete, offer) {
		return forbidden(actor, domain.ActionDelete)
	}

	if err = s.repo.Delete(ctx, offerID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// CreateOffer posts a new offer under a project. Organization users may only
// post under their own organization's projects.
func (s *OfferService) CreateOffer(ctx context.Context, offer domain.Offer, actor domain.User) (domain.Offer, error) {
	if actor.Role != domain.RoleOrganization && actor.Role != domain.RoleCoordinator {
		return domain.Offer{}, forbidden(actor, "create_offer")
	}

	project, err := s.projectRepo.FindProjectByID(ctx, offer.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return domain.Offer{}, ErrProjectNotFound
		}

		return domain.Offer{}, fmt.Errorf("s.projectRepo.FindProjectByID -> %w", err)
	}

	if actor.Role == domain.RoleOrganization {
		if actor.OrganizationID == nil || *actor.OrganizationID != project.OrganizationID {
			return domain.Offer{}, forbidden(actor, "create_offer")
		}
	}

	offer.OrganizationID = project.OrganizationID
	offer.PostedAt = time.Now()

	created, err := s.repo.Create(ctx, offer)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *OfferService) GetOffer(ctx context.Context, id uint) (domain.Offer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return domain.Offer{}, ErrOfferNotFound
		}

		return domain.Offer{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return offer, nil
}

func (s *OfferService) ListOffers(ctx context.Context, filter repository.OfferFilter) ([]domain.Offer, error) {
	offers, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return offers, nil
}

// ListParticipations is a lock-free read of an offer's participation set.
func (s *OfferService) ListParticipations(ctx context.Context, offerID uint) ([]domain.Participation, error) {
	offer, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, ErrOfferNotFound
		}

		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return offer.Participations, nil
}

// MyOffers lists offers relevant to the actor: applied-to offers for
// volunteers, the organization's offers for organization users and
// coordinators with an affiliation.
func (s *OfferService) MyOffers(ctx context.Context, actor domain.User) ([]domain.Offer, error) {
	switch actor.Role {
	case domain.RoleVolunteer:
		offers, err := s.repo.FindByVolunteer(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.FindByVolunteer -> %w", err)
		}

		return offers, nil

	case domain.RoleOrganization, domain.RoleCoordinator:
		if actor.OrganizationID == nil {
			return []domain.Offer{}, nil
		}

		offers, err := s.repo.FindByOrganization(ctx, *actor.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.FindByOrganization -> %w", err)
		}

		return offers, nil
	}

	return []domain.Offer{}, nil
}
