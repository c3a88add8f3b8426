// Package policy decides whether an authenticated principal may perform a ledger action.
// Handlers call Evaluate once, before invoking the core.
package policy

import (
	"context"

	"github.com/bive/backend/internal/models"
)

type Action string

const (
	ActionRecordDonation  Action = "donation.record"
	ActionCreateConsent   Action = "consent.create"
	ActionDecideConsent   Action = "consent.decide"
	ActionReadConsent     Action = "consent.read"
	ActionApplyEmergency  Action = "emergency.apply"
	ActionReadEmergency   Action = "emergency.read"
	ActionProposeExchange Action = "exchange.propose"
	ActionReadExchange    Action = "exchange.read"
	ActionReadLedger      Action = "ledger.read"
	ActionReadInventory   Action = "inventory.read"
)

// Principal is the caller identity produced by the authentication provider.
type Principal struct {
	ID    string
	Roles []string
}

func (p *Principal) HasRole(roles ...string) bool {
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Resource describes the entity an action touches. OwnerID is the credit owner of a
// consent request or the subject of a ledger read; ActorID is the actor named in a
// decision payload.
type Resource struct {
	OwnerID       string
	BeneficiaryID string
	ActorID       string
}

// Evaluate returns nil when p may perform action on res, an UNAUTHORIZED error when there
// is no principal and a FORBIDDEN error otherwise.
func Evaluate(p *Principal, action Action, res Resource) error {
	if p == nil || p.ID == "" {
		return models.NewUnauthorizedError("")
	}
	if allowed(p, action, res) {
		return nil
	}
	return models.NewForbiddenError("Not allowed to " + describe(action))
}

func allowed(p *Principal, action Action, res Resource) bool {
	admin := p.HasRole(models.RoleAdmin)

	switch action {
	case ActionRecordDonation, ActionProposeExchange, ActionReadExchange:
		return admin || p.HasRole(models.RoleOrganization)
	case ActionCreateConsent:
		return true
	case ActionDecideConsent:
		if admin {
			return true
		}
		return p.ID == res.OwnerID && (res.ActorID == "" || res.ActorID == p.ID)
	case ActionReadConsent:
		return admin || p.HasRole(models.RoleOrganization) || p.ID == res.OwnerID || p.ID == res.BeneficiaryID
	case ActionApplyEmergency, ActionReadEmergency:
		return p.HasRole(models.RoleAdmin, models.RoleGovernment)
	case ActionReadLedger:
		return p.ID == res.OwnerID || p.HasRole(models.RoleAdmin, models.RoleGovernment)
	case ActionReadInventory:
		return p.HasRole(models.RoleOrganization, models.RoleAdmin, models.RoleGovernment)
	}
	return false
}

func describe(action Action) string {
	switch action {
	case ActionRecordDonation:
		return "record donations"
	case ActionCreateConsent:
		return "create consent requests"
	case ActionDecideConsent:
		return "decide this consent request"
	case ActionReadConsent:
		return "view this consent request"
	case ActionApplyEmergency:
		return "apply emergency overrides"
	case ActionReadEmergency:
		return "view emergency cases"
	case ActionProposeExchange:
		return "propose exchanges"
	case ActionReadExchange:
		return "view exchanges"
	case ActionReadLedger:
		return "view this ledger"
	case ActionReadInventory:
		return "view inventory"
	}
	return string(action)
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal, or nil.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(contextKey{}).(*Principal)
	return p
}
