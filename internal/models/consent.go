package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ConsentStatus is the state of a consent request. APPROVED and DECLINED are terminal.
type ConsentStatus string

const (
	ConsentPending  ConsentStatus = "PENDING"
	ConsentApproved ConsentStatus = "APPROVED"
	ConsentDeclined ConsentStatus = "DECLINED"
)

// Consent decisions submitted by the credit owner or an administrator.
const (
	DecisionApprove = "approve"
	DecisionDecline = "decline"
)

// ConsentRequest asks a credit owner to spend credits on behalf of a beneficiary.
type ConsentRequest struct {
	ID             string          `json:"id" db:"id" bson:"_id"`
	Status         ConsentStatus   `json:"status" db:"status" bson:"status"`
	CreditOwnerID  string          `json:"creditOwnerId" db:"credit_owner_id" bson:"creditOwnerId"`
	BeneficiaryID  string          `json:"beneficiaryId" db:"beneficiary_id" bson:"beneficiaryId"`
	OrganizationID string          `json:"organizationId" db:"organization_id" bson:"organizationId"`
	Credits        int64           `json:"credits" db:"credits" bson:"credits"`
	ExpiresAt      *time.Time      `json:"expiresAt,omitempty" db:"expires_at" bson:"expiresAt,omitempty"`
	Context        *ConsentContext `json:"context,omitempty" db:"context" bson:"context,omitempty"`
	RequestedAt    time.Time       `json:"requestedAt" db:"requested_at" bson:"requestedAt"`
	DecidedBy      string          `json:"decidedBy,omitempty" db:"decided_by" bson:"decidedBy,omitempty"`
	DecidedAt      *time.Time      `json:"decidedAt,omitempty" db:"decided_at" bson:"decidedAt,omitempty"`
	DecisionNote   *string         `json:"decisionNote,omitempty" db:"decision_note" bson:"decisionNote,omitempty"`
}

// ConsentContext carries optional clinical context. Absent fields stay absent.
type ConsentContext struct {
	RequestedBloodType *BloodType `json:"requestedBloodType,omitempty" bson:"requestedBloodType,omitempty"`
	Reason             *string    `json:"reason,omitempty" bson:"reason,omitempty"`
	ClinicalNotes      *string    `json:"clinicalNotes,omitempty" bson:"clinicalNotes,omitempty"`
}

// IsEmpty reports whether no context field is set.
func (c *ConsentContext) IsEmpty() bool {
	return c == nil || (c.RequestedBloodType == nil && c.Reason == nil && c.ClinicalNotes == nil)
}

// Value implements driver.Valuer for ConsentContext
func (c *ConsentContext) Value() (driver.Value, error) {
	if c.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for ConsentContext
func (c *ConsentContext) Scan(value any) error {
	if value == nil {
		*c = ConsentContext{}
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, c)
}

// ConsentResolution is the changeset that moves a pending request to a terminal state.
type ConsentResolution struct {
	Status       ConsentStatus
	DecidedBy    string
	DecidedAt    time.Time
	DecisionNote *string
}

// Resolve merges res into the request.
func (r *ConsentRequest) Resolve(res ConsentResolution) {
	decidedAt := res.DecidedAt
	r.Status = res.Status
	r.DecidedBy = res.DecidedBy
	r.DecidedAt = &decidedAt
	r.DecisionNote = res.DecisionNote
}

// IsPending reports whether the request is still awaiting a decision.
func (r *ConsentRequest) IsPending() bool {
	return r.Status == ConsentPending
}

// Expired reports whether the request carries an expiry that is before now.
func (r *ConsentRequest) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// RequestedBloodType returns the blood type named in the context, if any.
func (r *ConsentRequest) RequestedBloodType() (BloodType, bool) {
	if r.Context == nil || r.Context.RequestedBloodType == nil {
		return "", false
	}
	return *r.Context.RequestedBloodType, true
}

// Clone returns a deep copy of the request.
func (r *ConsentRequest) Clone() *ConsentRequest {
	c := *r
	if r.Context != nil {
		ctx := *r.Context
		c.Context = &ctx
	}
	return &c
}
