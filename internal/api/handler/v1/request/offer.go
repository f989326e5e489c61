package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateOfferRequest struct {
	ProjectID    uint   `json:"project_id"`
	Title        string `json:"title"`
	Location     string `json:"location"`
	Date         string `json:"date,omitempty"`
	Topic        string `json:"topic"`
	Duration     string `json:"duration"`
	Requirements string `json:"requirements"`
	Capacity     int    `json:"capacity"`
}

func (req *CreateOfferRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&req.Location, validation.Required),
		validation.Field(&req.Capacity, validation.Min(0)),
	)
}

// VolunteerActionRequest names the volunteer an organization-side workflow
// action targets.
type VolunteerActionRequest struct {
	VolunteerID uint `json:"volunteer_id"`
}

func (req *VolunteerActionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.VolunteerID, validation.Required),
	)
}
