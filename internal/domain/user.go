package domain

import "time"

const (
	RoleVolunteer    = "wolontariusz"
	RoleCoordinator  = "koordynator"
	RoleOrganization = "organizacja"
)

type User struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone"`
	Age            *int      `json:"age,omitempty"`
	Role           string    `json:"role"`
	OrganizationID *uint     `json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Minor reports whether the user is under 18. The second return value is
// false when the age is unknown; the flag is never guessed.
func (u User) Minor() (bool, bool) {
	if u.Age == nil {
		return false, false
	}

	return *u.Age < 18, true
}

// MinorFlag is the JSON-facing form of Minor: nil when the age is unknown.
func (u User) MinorFlag() *bool {
	minor, known := u.Minor()
	if !known {
		return nil
	}

	return &minor
}
