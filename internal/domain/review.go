package domain

import "time"

type Review struct {
	ID             uint      `json:"id"`
	OfferID        uint      `json:"offer_id"`
	VolunteerID    uint      `json:"volunteer_id"`
	OrganizationID uint      `json:"organization_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CertificateDescriptor identifies a completed participation for an external
// document renderer. It carries no layout, only the facts to be rendered.
type CertificateDescriptor struct {
	Serial        string     `json:"serial"`
	OfferID       uint       `json:"offer_id,omitempty"`
	VolunteerID   uint       `json:"volunteer_id"`
	OfferTitle    string     `json:"offer_title,omitempty"`
	ProjectName   string     `json:"project_name,omitempty"`
	VolunteerName string     `json:"volunteer_name"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	IssuedAt      time.Time  `json:"issued_at"`

	// CompletedOffers is set on summary certificates covering every
	// completed participation of the volunteer.
	CompletedOffers []CertificateEntry `json:"completed_offers,omitempty"`
}

type CertificateEntry struct {
	OfferID     uint       `json:"offer_id"`
	OfferTitle  string     `json:"offer_title"`
	ProjectName string     `json:"project_name"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
