package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
	"github.com/lib/pq"
)

const (
	userColumns        = `user_id, name, roles, blood_type, balance, total_earned, total_redeemed, emergency, created_at, updated_at`
	transactionColumns = `id, type, credits, organization_id, recorded_at, donor_id, blood_type, component, volume_ml, collected_at, notes, credit_owner_id, beneficiary_id, consent_request_id, initiated_by, justification, repayment_plan, repayment_due_at`
	inventoryColumns   = `organization_id, blood_type, available_credits, total_donated_credits, created_at, updated_at`
	consentColumns     = `id, status, credit_owner_id, beneficiary_id, organization_id, credits, expires_at, context, requested_at, decided_by, decided_at, decision_note`
	emergencyColumns   = `id, beneficiary_id, organization_id, initiated_by, credits, status, justification, repayment_plan, repayment_due_at, created_at, updated_at`
	exchangeColumns    = `id, requesting_org_id, offering_org_id, requested_blood_type, requested_credits, offered_blood_type, offered_credits, status, notes, proposed_at, updated_at`
)

type scanner interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	var emergency []byte
	err := row.Scan(&u.UserID, &u.Name, pq.Array(&u.Roles), &u.BloodType,
		&u.Credits.Balance, &u.Credits.TotalEarned, &u.Credits.TotalRedeemed,
		&emergency, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if len(emergency) > 0 {
		var status models.EmergencyStatus
		if err := json.Unmarshal(emergency, &status); err != nil {
			return nil, fmt.Errorf("decode emergency status: %w", err)
		}
		u.Credits.Emergency = &status
	}
	return &u, nil
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	var t models.Transaction
	var donorID, bloodType, component, ownerID, beneficiaryID, consentID, initiatedBy, justification sql.NullString
	var volume sql.NullInt64
	var collectedAt, repaymentDueAt sql.NullTime
	var notes, repaymentPlan sql.NullString

	err := row.Scan(&t.ID, &t.Type, &t.Credits, &t.OrganizationID, &t.RecordedAt,
		&donorID, &bloodType, &component, &volume, &collectedAt, &notes,
		&ownerID, &beneficiaryID, &consentID,
		&initiatedBy, &justification, &repaymentPlan, &repaymentDueAt)
	if err != nil {
		return nil, notFound(err)
	}

	t.DonorID = donorID.String
	t.BloodType = models.BloodType(bloodType.String)
	t.Component = models.BloodComponent(component.String)
	t.VolumeML = volume.Int64
	t.CollectedAt = timePtr(collectedAt)
	t.Notes = stringPtr(notes)
	t.CreditOwnerID = ownerID.String
	t.BeneficiaryID = beneficiaryID.String
	t.ConsentRequestID = consentID.String
	t.InitiatedBy = initiatedBy.String
	t.Justification = justification.String
	t.RepaymentPlan = stringPtr(repaymentPlan)
	t.RepaymentDueAt = timePtr(repaymentDueAt)
	return &t, nil
}

func scanInventory(row scanner) (*models.InventoryRecord, error) {
	var rec models.InventoryRecord
	err := row.Scan(&rec.OrganizationID, &rec.BloodType, &rec.AvailableCredits,
		&rec.TotalDonatedCredits, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

func scanConsentRequest(row scanner) (*models.ConsentRequest, error) {
	var r models.ConsentRequest
	var expiresAt, decidedAt sql.NullTime
	var decidedBy, note sql.NullString
	var consentCtx models.ConsentContext

	err := row.Scan(&r.ID, &r.Status, &r.CreditOwnerID, &r.BeneficiaryID, &r.OrganizationID,
		&r.Credits, &expiresAt, &consentCtx, &r.RequestedAt, &decidedBy, &decidedAt, &note)
	if err != nil {
		return nil, notFound(err)
	}

	r.ExpiresAt = timePtr(expiresAt)
	r.DecidedBy = decidedBy.String
	r.DecidedAt = timePtr(decidedAt)
	r.DecisionNote = stringPtr(note)
	if !consentCtx.IsEmpty() {
		r.Context = &consentCtx
	}
	return &r, nil
}

func scanEmergencyCase(row scanner) (*models.EmergencyCase, error) {
	var c models.EmergencyCase
	var plan sql.NullString
	var due sql.NullTime

	err := row.Scan(&c.ID, &c.BeneficiaryID, &c.OrganizationID, &c.InitiatedBy, &c.Credits,
		&c.Status, &c.Justification, &plan, &due, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	c.RepaymentPlan = stringPtr(plan)
	c.RepaymentDueAt = timePtr(due)
	return &c, nil
}

func scanExchange(row scanner) (*models.ExchangeProposal, error) {
	var p models.ExchangeProposal
	var notes sql.NullString

	err := row.Scan(&p.ID, &p.RequestingOrgID, &p.OfferingOrgID,
		&p.Requested.BloodType, &p.Requested.Credits, &p.Offered.BloodType, &p.Offered.Credits,
		&p.Status, &notes, &p.ProposedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	p.Notes = stringPtr(notes)
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
