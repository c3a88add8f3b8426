package models

import "time"

// Roles carried by users and authenticated principals.
const (
	RoleDonor        = "donor"
	RoleBeneficiary  = "beneficiary"
	RoleOrganization = "organization"
	RoleAdmin        = "admin"
	RoleGovernment   = "government"
)

// User is a ledger participant. Credits is only ever changed through a CreditChange
// applied inside an atomic unit of work.
type User struct {
	UserID    string    `json:"userId" db:"user_id" bson:"userId"`
	Name      string    `json:"name,omitempty" db:"name" bson:"name,omitempty"`
	Roles     []string  `json:"roles" db:"roles" bson:"roles"`
	BloodType BloodType `json:"bloodType,omitempty" db:"blood_type" bson:"bloodType,omitempty"`
	Credits   Credits   `json:"credits" db:"-" bson:"credits"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// Credits is the credit sub-record of a user.
type Credits struct {
	Balance       int64            `json:"balance" db:"balance" bson:"balance"`
	TotalEarned   int64            `json:"totalEarned" db:"total_earned" bson:"totalEarned"`
	TotalRedeemed int64            `json:"totalRedeemed" db:"total_redeemed" bson:"totalRedeemed"`
	Emergency     *EmergencyStatus `json:"emergency,omitempty" db:"emergency" bson:"emergency,omitempty"`
	Events        []CreditEvent    `json:"events,omitempty" db:"-" bson:"events,omitempty"`
}

// EmergencyStatus is set on a user while an emergency override is active.
type EmergencyStatus struct {
	Active         bool       `json:"active" bson:"active"`
	OverrideID     string     `json:"overrideId" bson:"overrideId"`
	Credits        int64      `json:"credits" bson:"credits"`
	InitiatedAt    time.Time  `json:"initiatedAt" bson:"initiatedAt"`
	OrganizationID string     `json:"organizationId" bson:"organizationId"`
	Justification  string     `json:"justification" bson:"justification"`
	RepaymentPlan  *string    `json:"repaymentPlan,omitempty" bson:"repaymentPlan,omitempty"`
	RepaymentDueAt *time.Time `json:"repaymentDueAt,omitempty" bson:"repaymentDueAt,omitempty"`
}

// CreditEvent is one entry of the append-only per-user event log.
type CreditEvent struct {
	Type           TransactionType `json:"type" db:"type" bson:"type"`
	Credits        int64           `json:"credits" db:"credits" bson:"credits"`
	OrganizationID string          `json:"organizationId" db:"organization_id" bson:"organizationId"`
	TransactionID  string          `json:"transactionId" db:"transaction_id" bson:"transactionId"`
	BeneficiaryID  string          `json:"beneficiaryId,omitempty" db:"beneficiary_id" bson:"beneficiaryId,omitempty"`
	At             time.Time       `json:"at" db:"at" bson:"at"`
}

// CreditChange is the changeset applied to a user's credits. Deltas are added, a non-nil
// Emergency replaces the emergency sub-record and Event is appended to the log.
type CreditChange struct {
	BalanceDelta  int64
	EarnedDelta   int64
	RedeemedDelta int64
	Emergency     *EmergencyStatus
	Event         CreditEvent
}

// ApplyCreditChange merges change into the user.
func (u *User) ApplyCreditChange(change CreditChange) {
	u.Credits.Balance += change.BalanceDelta
	u.Credits.TotalEarned += change.EarnedDelta
	u.Credits.TotalRedeemed += change.RedeemedDelta
	if change.Emergency != nil {
		emergency := *change.Emergency
		u.Credits.Emergency = &emergency
	}
	u.Credits.Events = append(u.Credits.Events, change.Event)
	u.UpdatedAt = change.Event.At
}

// HasRole reports whether the user carries role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	c.Credits.Events = append([]CreditEvent(nil), u.Credits.Events...)
	if u.Credits.Emergency != nil {
		emergency := *u.Credits.Emergency
		c.Credits.Emergency = &emergency
	}
	return &c
}
