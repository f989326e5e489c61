package response

import "wolontariat-api/internal/domain"

// UserResponse is a user plus the derived minority flag. The flag is nil
// when the age was never provided.
type UserResponse struct {
	domain.User

	Minor *bool `json:"minor,omitempty"`
}

func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{
		User:  user,
		Minor: user.MinorFlag(),
	}
}

func NewUsersResponse(users []domain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, NewUserResponse(u))
	}

	return result
}
