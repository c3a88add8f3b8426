package models

import "time"

// Exchange proposal status values
const (
	ExchangePending   = "PENDING"
	ExchangeCompleted = "COMPLETED"
)

// ExchangeLeg is one side of a proposed swap.
type ExchangeLeg struct {
	BloodType BloodType `json:"bloodType" bson:"bloodType" validate:"required,bloodtype"`
	Credits   int64     `json:"credits" bson:"credits" validate:"required,gt=0"`
}

// ExchangeProposal logs the intent of two organizations to swap credits of different
// blood types. Recording it does not move credits.
type ExchangeProposal struct {
	ID              string      `json:"id" db:"id" bson:"_id"`
	RequestingOrgID string      `json:"requestingOrgId" db:"requesting_org_id" bson:"requestingOrgId"`
	OfferingOrgID   string      `json:"offeringOrgId" db:"offering_org_id" bson:"offeringOrgId"`
	Requested       ExchangeLeg `json:"requested" bson:"requested"`
	Offered         ExchangeLeg `json:"offered" bson:"offered"`
	Status          string      `json:"status" db:"status" bson:"status"`
	Notes           *string     `json:"notes,omitempty" db:"notes" bson:"notes,omitempty"`
	ProposedAt      time.Time   `json:"proposedAt" db:"proposed_at" bson:"proposedAt"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}
