package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
)

// pgTx runs every statement of a unit on the same *sql.Tx.
type pgTx struct {
	q querier
}

func (t *pgTx) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return getUser(ctx, t.q, userID, true)
}

func (t *pgTx) ApplyCreditChange(ctx context.Context, userID string, change models.CreditChange) error {
	var emergency any
	if change.Emergency != nil {
		b, err := json.Marshal(change.Emergency)
		if err != nil {
			return fmt.Errorf("encode emergency status: %w", err)
		}
		emergency = string(b)
	}

	res, err := t.q.ExecContext(ctx, `
		UPDATE users
		SET balance = balance + $1,
			total_earned = total_earned + $2,
			total_redeemed = total_redeemed + $3,
			emergency = COALESCE($4::jsonb, emergency),
			updated_at = $5
		WHERE user_id = $6`,
		change.BalanceDelta, change.EarnedDelta, change.RedeemedDelta, emergency, change.Event.At, userID)
	if err != nil {
		return fmt.Errorf("update user credits: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}

	ev := change.Event
	_, err = t.q.ExecContext(ctx, `
		INSERT INTO credit_events (user_id, type, credits, organization_id, transaction_id, beneficiary_id, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, ev.Type, ev.Credits, ev.OrganizationID, ev.TransactionID, nullString(ev.BeneficiaryID), ev.At)
	if err != nil {
		return fmt.Errorf("insert credit event: %w", err)
	}
	return nil
}

func (t *pgTx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		txn.ID, txn.Type, txn.Credits, txn.OrganizationID, txn.RecordedAt,
		nullString(txn.DonorID), nullString(string(txn.BloodType)), nullString(string(txn.Component)),
		txn.VolumeML, nullTime(txn.CollectedAt), nullStringPtr(txn.Notes),
		nullString(txn.CreditOwnerID), nullString(txn.BeneficiaryID), nullString(txn.ConsentRequestID),
		nullString(txn.InitiatedBy), nullString(txn.Justification), nullStringPtr(txn.RepaymentPlan), nullTime(txn.RepaymentDueAt))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (t *pgTx) ApplyInventoryChange(ctx context.Context, change models.InventoryChange) (bool, error) {
	if change.CreateIfMissing {
		_, err := t.q.ExecContext(ctx, `
			INSERT INTO inventory (organization_id, blood_type, available_credits, total_donated_credits, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (organization_id, blood_type) DO UPDATE
			SET available_credits = inventory.available_credits + EXCLUDED.available_credits,
				total_donated_credits = inventory.total_donated_credits + EXCLUDED.total_donated_credits,
				updated_at = EXCLUDED.updated_at`,
			change.OrganizationID, change.BloodType, change.AvailableDelta, change.DonatedDelta, change.At)
		if err != nil {
			return false, fmt.Errorf("upsert inventory: %w", err)
		}
	} else {
		res, err := t.q.ExecContext(ctx, `
			UPDATE inventory
			SET available_credits = available_credits + $1,
				total_donated_credits = total_donated_credits + $2,
				updated_at = $3
			WHERE organization_id = $4 AND blood_type = $5`,
			change.AvailableDelta, change.DonatedDelta, change.At, change.OrganizationID, change.BloodType)
		if err != nil {
			return false, fmt.Errorf("update inventory: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return false, err
		}
	}

	m := change.Movement
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO inventory_movements (organization_id, blood_type, type, credits, transaction_id, consent_request_id, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		change.OrganizationID, change.BloodType, m.Type, m.Credits,
		nullString(m.TransactionID), nullString(m.ConsentRequestID), m.At)
	if err != nil {
		return false, fmt.Errorf("insert inventory movement: %w", err)
	}
	return true, nil
}

func (t *pgTx) InsertConsentRequest(ctx context.Context, req *models.ConsentRequest) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO consent_requests (`+consentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		req.ID, req.Status, req.CreditOwnerID, req.BeneficiaryID, req.OrganizationID, req.Credits,
		nullTime(req.ExpiresAt), req.Context, req.RequestedAt,
		nullString(req.DecidedBy), nullTime(req.DecidedAt), nullStringPtr(req.DecisionNote))
	if err != nil {
		return fmt.Errorf("insert consent request: %w", err)
	}
	return nil
}

func (t *pgTx) GetConsentRequest(ctx context.Context, id string) (*models.ConsentRequest, error) {
	return getConsentRequest(ctx, t.q, id, true)
}

func (t *pgTx) ResolveConsentRequest(ctx context.Context, id string, res models.ConsentResolution) (*models.ConsentRequest, error) {
	row := t.q.QueryRowContext(ctx, `
		UPDATE consent_requests
		SET status = $1, decided_by = $2, decided_at = $3, decision_note = $4
		WHERE id = $5 AND status = $6
		RETURNING `+consentColumns,
		res.Status, res.DecidedBy, res.DecidedAt, nullStringPtr(res.DecisionNote), id, models.ConsentPending)
	r, err := scanConsentRequest(row)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrNotPending
	}
	return r, err
}

func (t *pgTx) InsertEmergencyCase(ctx context.Context, c *models.EmergencyCase) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO emergency_cases (`+emergencyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.BeneficiaryID, c.OrganizationID, c.InitiatedBy, c.Credits, c.Status, c.Justification,
		nullStringPtr(c.RepaymentPlan), nullTime(c.RepaymentDueAt), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert emergency case: %w", err)
	}
	return nil
}

func (t *pgTx) InsertExchangeProposal(ctx context.Context, p *models.ExchangeProposal) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO exchanges (`+exchangeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.RequestingOrgID, p.OfferingOrgID,
		p.Requested.BloodType, p.Requested.Credits, p.Offered.BloodType, p.Offered.Credits,
		p.Status, nullStringPtr(p.Notes), p.ProposedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert exchange proposal: %w", err)
	}
	return nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
