package models

import "time"

// TransactionType is the variant of an immutable ledger transaction.
type TransactionType string

const (
	TransactionDonation          TransactionType = "DONATION"
	TransactionRedemption        TransactionType = "REDEMPTION"
	TransactionEmergencyOverride TransactionType = "EMERGENCY_OVERRIDE"
)

// Transaction records one ledger event. Which reference fields are set depends on Type:
// donations carry DonorID and the donation details, redemptions carry CreditOwnerID,
// BeneficiaryID and ConsentRequestID, emergency overrides carry BeneficiaryID, InitiatedBy
// and the repayment terms.
type Transaction struct {
	ID             string          `json:"id" db:"id" bson:"_id"`
	Type           TransactionType `json:"type" db:"type" bson:"type"`
	Credits        int64           `json:"credits" db:"credits" bson:"credits"`
	OrganizationID string          `json:"organizationId" db:"organization_id" bson:"organizationId"`
	RecordedAt     time.Time       `json:"recordedAt" db:"recorded_at" bson:"recordedAt"`

	DonorID     string         `json:"donorId,omitempty" db:"donor_id" bson:"donorId,omitempty"`
	BloodType   BloodType      `json:"bloodType,omitempty" db:"blood_type" bson:"bloodType,omitempty"`
	Component   BloodComponent `json:"component,omitempty" db:"component" bson:"component,omitempty"`
	VolumeML    int64          `json:"volumeMl,omitempty" db:"volume_ml" bson:"volumeMl,omitempty"`
	CollectedAt *time.Time     `json:"collectedAt,omitempty" db:"collected_at" bson:"collectedAt,omitempty"`
	Notes       *string        `json:"notes,omitempty" db:"notes" bson:"notes,omitempty"`

	CreditOwnerID    string `json:"creditOwnerId,omitempty" db:"credit_owner_id" bson:"creditOwnerId,omitempty"`
	BeneficiaryID    string `json:"beneficiaryId,omitempty" db:"beneficiary_id" bson:"beneficiaryId,omitempty"`
	ConsentRequestID string `json:"consentRequestId,omitempty" db:"consent_request_id" bson:"consentRequestId,omitempty"`

	InitiatedBy    string     `json:"initiatedBy,omitempty" db:"initiated_by" bson:"initiatedBy,omitempty"`
	Justification  string     `json:"justification,omitempty" db:"justification" bson:"justification,omitempty"`
	RepaymentPlan  *string    `json:"repaymentPlan,omitempty" db:"repayment_plan" bson:"repaymentPlan,omitempty"`
	RepaymentDueAt *time.Time `json:"repaymentDueAt,omitempty" db:"repayment_due_at" bson:"repaymentDueAt,omitempty"`
}

// Involves reports whether userID appears as donor, credit owner or beneficiary.
func (t *Transaction) Involves(userID string) bool {
	return t.DonorID == userID || t.CreditOwnerID == userID || t.BeneficiaryID == userID
}
