package models

import "time"

// Inventory movement types
const (
	MovementDonation    = "DONATION"
	MovementFulfillment = "FULFILLMENT"
)

// InventoryRecord is the running credit total of one organization for one blood type.
type InventoryRecord struct {
	OrganizationID      string              `json:"organizationId" db:"organization_id" bson:"organizationId"`
	BloodType           BloodType           `json:"bloodType" db:"blood_type" bson:"bloodType"`
	AvailableCredits    int64               `json:"availableCredits" db:"available_credits" bson:"availableCredits"`
	TotalDonatedCredits int64               `json:"totalDonatedCredits" db:"total_donated_credits" bson:"totalDonatedCredits"`
	Movements           []InventoryMovement `json:"movements,omitempty" db:"-" bson:"movements,omitempty"`
	CreatedAt           time.Time           `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// InventoryMovement is an append-only credit delta on an inventory record.
type InventoryMovement struct {
	Type             string    `json:"type" db:"type" bson:"type"`
	Credits          int64     `json:"credits" db:"credits" bson:"credits"`
	TransactionID    string    `json:"transactionId,omitempty" db:"transaction_id" bson:"transactionId,omitempty"`
	ConsentRequestID string    `json:"consentRequestId,omitempty" db:"consent_request_id" bson:"consentRequestId,omitempty"`
	At               time.Time `json:"at" db:"at" bson:"at"`
}

// InventoryChange is the changeset applied to an inventory record. When the record does
// not exist it is created only if CreateIfMissing is set.
type InventoryChange struct {
	OrganizationID  string
	BloodType       BloodType
	AvailableDelta  int64
	DonatedDelta    int64
	Movement        InventoryMovement
	CreateIfMissing bool
	At              time.Time
}

// NewInventoryRecord returns the empty record an upsert starts from.
func NewInventoryRecord(change InventoryChange) *InventoryRecord {
	return &InventoryRecord{
		OrganizationID: change.OrganizationID,
		BloodType:      change.BloodType,
		CreatedAt:      change.At,
		UpdatedAt:      change.At,
	}
}

// ApplyInventoryChange merges change into the record.
func (r *InventoryRecord) ApplyInventoryChange(change InventoryChange) {
	r.AvailableCredits += change.AvailableDelta
	r.TotalDonatedCredits += change.DonatedDelta
	r.Movements = append(r.Movements, change.Movement)
	r.UpdatedAt = change.At
}

// Clone returns a deep copy of the record.
func (r *InventoryRecord) Clone() *InventoryRecord {
	c := *r
	c.Movements = append([]InventoryMovement(nil), r.Movements...)
	return &c
}

// InventoryKey identifies an inventory record.
type InventoryKey struct {
	OrganizationID string
	BloodType      BloodType
}
