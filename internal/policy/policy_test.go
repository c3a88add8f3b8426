package policy

import (
	"context"
	"testing"

	"github.com/bive/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	admin := &Principal{ID: "admin-1", Roles: []string{models.RoleAdmin}}
	gov := &Principal{ID: "gov-1", Roles: []string{models.RoleGovernment}}
	org := &Principal{ID: "org-1", Roles: []string{models.RoleOrganization}}
	donor := &Principal{ID: "donor-1", Roles: []string{models.RoleDonor}}
	beneficiary := &Principal{ID: "ben-1", Roles: []string{models.RoleBeneficiary}}

	consent := Resource{OwnerID: "donor-1", BeneficiaryID: "ben-1"}

	tests := []struct {
		name      string
		principal *Principal
		action    Action
		resource  Resource
		allowed   bool
	}{
		{"organization records donation", org, ActionRecordDonation, Resource{}, true},
		{"admin records donation", admin, ActionRecordDonation, Resource{}, true},
		{"donor cannot record donation", donor, ActionRecordDonation, Resource{}, false},
		{"anyone creates consent", beneficiary, ActionCreateConsent, Resource{}, true},
		{"owner decides", donor, ActionDecideConsent, consent, true},
		{"owner decides as self", donor, ActionDecideConsent, Resource{OwnerID: "donor-1", ActorID: "donor-1"}, true},
		{"owner cannot decide as someone else", donor, ActionDecideConsent, Resource{OwnerID: "donor-1", ActorID: "admin-1"}, false},
		{"beneficiary cannot decide", beneficiary, ActionDecideConsent, consent, false},
		{"admin decides for anyone", admin, ActionDecideConsent, Resource{OwnerID: "donor-1", ActorID: "donor-1"}, true},
		{"beneficiary reads consent", beneficiary, ActionReadConsent, consent, true},
		{"organization reads consent", org, ActionReadConsent, consent, true},
		{"stranger cannot read consent", &Principal{ID: "x", Roles: []string{models.RoleDonor}}, ActionReadConsent, consent, false},
		{"government applies emergency", gov, ActionApplyEmergency, Resource{}, true},
		{"organization cannot apply emergency", org, ActionApplyEmergency, Resource{}, false},
		{"organization proposes exchange", org, ActionProposeExchange, Resource{}, true},
		{"donor cannot propose exchange", donor, ActionProposeExchange, Resource{}, false},
		{"user reads own ledger", donor, ActionReadLedger, Resource{OwnerID: "donor-1"}, true},
		{"user cannot read another ledger", donor, ActionReadLedger, Resource{OwnerID: "ben-1"}, false},
		{"government reads any ledger", gov, ActionReadLedger, Resource{OwnerID: "ben-1"}, true},
		{"organization reads inventory", org, ActionReadInventory, Resource{}, true},
		{"beneficiary cannot read inventory", beneficiary, ActionReadInventory, Resource{}, false},
		{"unknown action", admin, Action("ledger.purge"), Resource{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Evaluate(tt.principal, tt.action, tt.resource)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, models.ErrForbidden)
		})
	}
}

func TestEvaluate_Unauthenticated(t *testing.T) {
	assert.ErrorIs(t, Evaluate(nil, ActionCreateConsent, Resource{}), models.ErrUnauthorized)
	assert.ErrorIs(t, Evaluate(&Principal{}, ActionCreateConsent, Resource{}), models.ErrUnauthorized)
}

func TestPrincipalContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	p := &Principal{ID: "donor-1", Roles: []string{models.RoleDonor}}
	ctx := WithPrincipal(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))
	assert.True(t, p.HasRole(models.RoleAdmin, models.RoleDonor))
	assert.False(t, p.HasRole(models.RoleAdmin))
}
