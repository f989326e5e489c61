package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanPerform(t *testing.T) {
	orgID := uint(1)
	otherOrgID := uint(2)

	volunteer := User{ID: 10, Role: RoleVolunteer}
	coordinator := User{ID: 20, Role: RoleCoordinator}
	orgUser := User{ID: 30, Role: RoleOrganization, OrganizationID: &orgID}
	otherOrgUser := User{ID: 31, Role: RoleOrganization, OrganizationID: &otherOrgID}
	unaffiliatedOrgUser := User{ID: 32, Role: RoleOrganization}

	offer := Offer{ID: 1, OrganizationID: orgID}

	tests := []struct {
		name   string
		actor  User
		action Action
		want   bool
	}{
		{"volunteer can apply", volunteer, ActionApply, true},
		{"volunteer can withdraw", volunteer, ActionWithdraw, true},
		{"volunteer cannot confirm", volunteer, ActionConfirm, false},
		{"volunteer cannot approve completion", volunteer, ActionApproveCompletion, false},
		{"volunteer cannot assign", volunteer, ActionAssign, false},
		{"volunteer cannot close", volunteer, ActionClose, false},
		{"volunteer cannot delete", volunteer, ActionDelete, false},
		{"volunteer cannot review", volunteer, ActionCreateReview, false},

		{"coordinator cannot apply", coordinator, ActionApply, false},
		{"coordinator can confirm cross-org", coordinator, ActionConfirm, true},
		{"coordinator can approve completion cross-org", coordinator, ActionApproveCompletion, true},
		{"coordinator can assign cross-org", coordinator, ActionAssign, true},
		{"coordinator can close cross-org", coordinator, ActionClose, true},
		{"coordinator can delete cross-org", coordinator, ActionDelete, true},
		{"coordinator cannot review", coordinator, ActionCreateReview, false},

		{"owning org can confirm", orgUser, ActionConfirm, true},
		{"owning org can approve completion", orgUser, ActionApproveCompletion, true},
		{"owning org can assign", orgUser, ActionAssign, true},
		{"owning org can close", orgUser, ActionClose, true},
		{"owning org can delete", orgUser, ActionDelete, true},
		{"owning org can review", orgUser, ActionCreateReview, true},
		{"owning org cannot apply", orgUser, ActionApply, false},

		{"other org cannot confirm", otherOrgUser, ActionConfirm, false},
		{"other org cannot close", otherOrgUser, ActionClose, false},
		{"other org cannot delete", otherOrgUser, ActionDelete, false},
		{"other org cannot review", otherOrgUser, ActionCreateReview, false},

		{"unaffiliated org user cannot confirm", unaffiliatedOrgUser, ActionConfirm, false},
		{"unaffiliated org user cannot review", unaffiliatedOrgUser, ActionCreateReview, false},

		{"unknown action is denied", coordinator, Action("publish"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.actor, tt.action, offer))
		})
	}
}
