package domain

import (
	"errors"
	"time"
)

type ParticipationStatus string

const (
	StatusApplied   ParticipationStatus = "applied"
	StatusWithdrawn ParticipationStatus = "withdrawn"
	StatusConfirmed ParticipationStatus = "confirmed"
	StatusCompleted ParticipationStatus = "completed"
)

var (
	ErrOfferClosed           = errors.New("offer is closed for applications")
	ErrAlreadyApplied        = errors.New("volunteer already has an active participation on this offer")
	ErrInvalidTransition     = errors.New("invalid participation state transition")
	ErrCapacityExceeded      = errors.New("offer has no remaining volunteer slots")
	ErrParticipationNotFound = errors.New("volunteer has no participation on this offer")
	ErrNotCompleted          = errors.New("participation is not completed")
)

// Participation tracks one volunteer's lifecycle on one offer.
// The (OfferID, VolunteerID) pair is the identity; there is never more than
// one row per pair, and a re-application after withdrawal reuses the row.
type Participation struct {
	OfferID     uint                `json:"offer_id"`
	VolunteerID uint                `json:"volunteer_id"`
	Status      ParticipationStatus `json:"status"`
	AppliedAt   time.Time           `json:"applied_at"`
	ConfirmedAt *time.Time          `json:"confirmed_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`

	// Volunteer is attached on reads so callers can act on the minority flag.
	Volunteer *User `json:"volunteer,omitempty"`
}

type Offer struct {
	ID             uint       `json:"id"`
	OrganizationID uint       `json:"organization_id"`
	ProjectID      uint       `json:"project_id"`
	Title          string     `json:"title"`
	Location       string     `json:"location"`
	Date           *time.Time `json:"date,omitempty"`
	PostedAt       time.Time  `json:"posted_at"`
	Topic          string     `json:"topic"`
	Duration       string     `json:"duration"`
	Requirements   string     `json:"requirements"`
	Capacity       int        `json:"capacity"`
	Completed      bool       `json:"completed"`

	// Participations are ordered by application time.
	Participations []Participation `json:"participations,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Offer) participation(volunteerID uint) *Participation {
	for i := range o.Participations {
		if o.Participations[i].VolunteerID == volunteerID {
			return &o.Participations[i]
		}
	}

	return nil
}

// FindParticipation returns the volunteer's participation, if any.
func (o *Offer) FindParticipation(volunteerID uint) (Participation, bool) {
	if p := o.participation(volunteerID); p != nil {
		return *p, true
	}

	return Participation{}, false
}

func (o *Offer) confirmedCount() int {
	n := 0
	for i := range o.Participations {
		switch o.Participations[i].Status {
		case StatusConfirmed, StatusCompleted:
			n++
		}
	}

	return n
}

// Apply records a volunteer's application. A withdrawn participation is
// reset to a fresh applied state; any other existing participation rejects
// the call.
func (o *Offer) Apply(volunteerID uint, now time.Time) (Participation, error) {
	if o.Completed {
		return Participation{}, ErrOfferClosed
	}

	if p := o.participation(volunteerID); p != nil {
		if p.Status != StatusWithdrawn {
			return Participation{}, ErrAlreadyApplied
		}

		p.Status = StatusApplied
		p.AppliedAt = now
		p.ConfirmedAt = nil
		p.CompletedAt = nil

		return *p, nil
	}

	p := Participation{
		OfferID:     o.ID,
		VolunteerID: volunteerID,
		Status:      StatusApplied,
		AppliedAt:   now,
	}
	o.Participations = append(o.Participations, p)

	return p, nil
}

// Withdraw is only reachable from the applied state. Confirmed volunteers
// cannot self-withdraw.
func (o *Offer) Withdraw(volunteerID uint) (Participation, error) {
	p := o.participation(volunteerID)
	if p == nil {
		return Participation{}, ErrParticipationNotFound
	}

	if p.Status != StatusApplied {
		return Participation{}, ErrInvalidTransition
	}

	p.Status = StatusWithdrawn

	return *p, nil
}

// Confirm accepts an application, subject to the offer's capacity.
func (o *Offer) Confirm(volunteerID uint, now time.Time) (Participation, error) {
	p := o.participation(volunteerID)
	if p == nil {
		return Participation{}, ErrParticipationNotFound
	}

	if p.Status != StatusApplied {
		return Participation{}, ErrInvalidTransition
	}

	if o.Capacity > 0 && o.confirmedCount() >= o.Capacity {
		return Participation{}, ErrCapacityExceeded
	}

	p.Status = StatusConfirmed
	p.ConfirmedAt = &now

	return *p, nil
}

// ApproveCompletion attests that a confirmed volunteer finished the work.
// On single-slot offers this also closes the offer.
func (o *Offer) ApproveCompletion(volunteerID uint, now time.Time) (Participation, error) {
	p := o.participation(volunteerID)
	if p == nil {
		return Participation{}, ErrParticipationNotFound
	}

	if p.Status != StatusConfirmed {
		return Participation{}, ErrInvalidTransition
	}

	p.Status = StatusCompleted
	p.CompletedAt = &now

	o.recomputeCompleted()

	return *p, nil
}

// Assign puts a known volunteer directly into the confirmed state without
// waiting for a self-application. Assigning an already confirmed volunteer
// is a no-op; a completed participation never regresses.
func (o *Offer) Assign(volunteerID uint, now time.Time) (Participation, error) {
	p := o.participation(volunteerID)
	if p == nil {
		if o.Capacity > 0 && o.confirmedCount() >= o.Capacity {
			return Participation{}, ErrCapacityExceeded
		}

		np := Participation{
			OfferID:     o.ID,
			VolunteerID: volunteerID,
			Status:      StatusConfirmed,
			AppliedAt:   now,
			ConfirmedAt: &now,
		}
		o.Participations = append(o.Participations, np)

		return np, nil
	}

	switch p.Status {
	case StatusConfirmed:
		return *p, nil
	case StatusCompleted:
		return Participation{}, ErrInvalidTransition
	}

	if o.Capacity > 0 && o.confirmedCount() >= o.Capacity {
		return Participation{}, ErrCapacityExceeded
	}

	p.Status = StatusConfirmed
	p.ConfirmedAt = &now

	return *p, nil
}

// Close marks the offer finished regardless of individual participation
// state. Multi-slot offers never auto-close; this is their only closing path.
func (o *Offer) Close() {
	o.Completed = true
}

// recomputeCompleted derives the offer-level flag. Only capacity-1 offers
// close on participation completion.
func (o *Offer) recomputeCompleted() {
	if o.Completed {
		return
	}

	if o.Capacity != 1 {
		return
	}

	for i := range o.Participations {
		if o.Participations[i].Status == StatusCompleted {
			o.Completed = true
			return
		}
	}
}
