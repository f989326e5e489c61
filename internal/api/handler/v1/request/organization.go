package request

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	phonePattern = regexp.MustCompile(`^\d{9}$`)
	taxIDPattern = regexp.MustCompile(`^\d{10}$`)
)

type CreateOrganizationRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	TaxID string `json:"tax_id,omitempty"`
}

func (req *CreateOrganizationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Phone, validation.Required, validation.Match(phonePattern)),
		validation.Field(&req.TaxID, validation.Match(taxIDPattern)),
	)
}

type CreateProjectRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	OrganizationID uint   `json:"organization_id,omitempty"`
}

func (req *CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
	)
}
