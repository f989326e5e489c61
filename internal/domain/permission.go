package domain

type Action string

const (
	ActionApply             Action = "apply"
	ActionWithdraw          Action = "withdraw"
	ActionConfirm           Action = "confirm"
	ActionApproveCompletion Action = "approve_completion"
	ActionAssign            Action = "assign"
	ActionClose             Action = "close"
	ActionDelete            Action = "delete"
	ActionCreateReview      Action = "create_review"
)

// CanPerform is the role-to-action permission matrix. It is consulted before
// every participation transition and every review action.
//
// Organization users are scoped to offers their organization owns.
// Coordinators act across organizations; volunteers act on themselves only,
// which callers enforce by using the actor's own id as the volunteer id.
func CanPerform(actor User, action Action, offer Offer) bool {
	switch action {
	case ActionApply, ActionWithdraw:
		return actor.Role == RoleVolunteer

	case ActionConfirm, ActionApproveCompletion, ActionAssign, ActionClose, ActionDelete:
		switch actor.Role {
		case RoleCoordinator:
			return true
		case RoleOrganization:
			return actor.OrganizationID != nil && *actor.OrganizationID == offer.OrganizationID
		}

		return false

	case ActionCreateReview:
		if actor.Role != RoleOrganization {
			return false
		}

		return actor.OrganizationID != nil && *actor.OrganizationID == offer.OrganizationID
	}

	return false
}
