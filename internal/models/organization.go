package models

import (
	"errors"
	"time"
)

// BloodType is an ABO/Rh blood group.
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// BloodTypes lists every accepted blood type.
var BloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg,
}

// Valid reports whether b is one of BloodTypes.
func (b BloodType) Valid() bool {
	for _, t := range BloodTypes {
		if t == b {
			return true
		}
	}
	return false
}

// BloodComponent is the collected product of a donation.
type BloodComponent string

const (
	ComponentWholeBlood      BloodComponent = "whole_blood"
	ComponentPackedRBC       BloodComponent = "packed_rbc"
	ComponentPlasma          BloodComponent = "plasma"
	ComponentPlatelets       BloodComponent = "platelets"
	ComponentCryoprecipitate BloodComponent = "cryoprecipitate"
)

// BloodComponents lists every accepted component.
var BloodComponents = []BloodComponent{
	ComponentWholeBlood, ComponentPackedRBC, ComponentPlasma, ComponentPlatelets, ComponentCryoprecipitate,
}

// Valid reports whether c is one of BloodComponents.
func (c BloodComponent) Valid() bool {
	for _, v := range BloodComponents {
		if v == c {
			return true
		}
	}
	return false
}

// Organization status values
const (
	OrganizationStatusPending = "pending"
	OrganizationStatusActive  = "active"
)

// Organization is onboarded outside the ledger core.
type Organization struct {
	ID        string    `json:"id" db:"id" bson:"_id"`
	Name      string    `json:"name" db:"name" bson:"name"`
	Status    string    `json:"status" db:"status" bson:"status"`
	City      string    `json:"city,omitempty" db:"city" bson:"city,omitempty"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// ErrOrganizationNotPending is returned when activating an organization that is not pending.
var ErrOrganizationNotPending = errors.New("organization is not pending")

// Activate moves a pending organization to active.
func (o *Organization) Activate(at time.Time) error {
	if o.Status != OrganizationStatusPending {
		return ErrOrganizationNotPending
	}
	o.Status = OrganizationStatusActive
	o.UpdatedAt = at
	return nil
}
