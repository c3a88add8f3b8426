package models

import "time"

// Emergency case status values
const (
	EmergencyOutstanding = "OUTSTANDING"
	EmergencyResolved    = "RESOLVED"
)

// EmergencyCase tracks the debt opened by an emergency override. Its ID is the id of the
// override transaction.
type EmergencyCase struct {
	ID             string     `json:"id" db:"id" bson:"_id"`
	BeneficiaryID  string     `json:"beneficiaryId" db:"beneficiary_id" bson:"beneficiaryId"`
	OrganizationID string     `json:"organizationId" db:"organization_id" bson:"organizationId"`
	InitiatedBy    string     `json:"initiatedBy" db:"initiated_by" bson:"initiatedBy"`
	Credits        int64      `json:"credits" db:"credits" bson:"credits"`
	Status         string     `json:"status" db:"status" bson:"status"`
	Justification  string     `json:"justification" db:"justification" bson:"justification"`
	RepaymentPlan  *string    `json:"repaymentPlan,omitempty" db:"repayment_plan" bson:"repaymentPlan,omitempty"`
	RepaymentDueAt *time.Time `json:"repaymentDueAt,omitempty" db:"repayment_due_at" bson:"repaymentDueAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}
