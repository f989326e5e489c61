package response

import "wolontariat-api/internal/domain"

// ParticipationResponse renders the embedded volunteer through UserResponse,
// so the derived minority flag travels with every participation payload.
type ParticipationResponse struct {
	domain.Participation

	Volunteer *UserResponse `json:"volunteer,omitempty"`
}

func NewParticipationResponse(p domain.Participation) ParticipationResponse {
	resp := ParticipationResponse{Participation: p}
	if p.Volunteer != nil {
		volunteer := NewUserResponse(*p.Volunteer)
		resp.Volunteer = &volunteer
	}

	return resp
}

func NewParticipationsResponse(participations []domain.Participation) []ParticipationResponse {
	result := make([]ParticipationResponse, 0, len(participations))
	for _, p := range participations {
		result = append(result, NewParticipationResponse(p))
	}

	return result
}

type OfferResponse struct {
	domain.Offer

	Participations []ParticipationResponse `json:"participations,omitempty"`
}

func NewOfferResponse(offer domain.Offer) OfferResponse {
	return OfferResponse{
		Offer:          offer,
		Participations: NewParticipationsResponse(offer.Participations),
	}
}

func NewOffersResponse(offers []domain.Offer) []OfferResponse {
	result := make([]OfferResponse, 0, len(offers))
	for _, o := range offers {
		result = append(result, NewOfferResponse(o))
	}

	return result
}
