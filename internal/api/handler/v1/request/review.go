package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateReviewRequest struct {
	OfferID     uint   `json:"offer_id"`
	VolunteerID uint   `json:"volunteer_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment,omitempty"`
}

func (req *CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.OfferID, validation.Required),
		validation.Field(&req.VolunteerID, validation.Required),
		validation.Field(&req.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Comment, validation.Length(0, 1000)),
	)
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

func (req *UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Comment, validation.Length(0, 1000)),
	)
}
