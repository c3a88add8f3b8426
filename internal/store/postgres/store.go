// Package postgres implements the ledger store on PostgreSQL. Units of work run in one
// database transaction; users and consent requests are locked with SELECT ... FOR UPDATE
// and balances move through increment updates.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Postgres error codes that mean the unit could not be applied atomically.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) RunAtomic(ctx context.Context, work store.Work) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := work(ctx, &pgTx{q: tx}); err != nil {
		return classify(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Warn("[STORE] commit failed", zap.Error(err))
		return classify(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// classify turns Postgres concurrency failures into *store.TransactionError and leaves
// everything else untouched.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return &store.TransactionError{Err: err}
		}
	}
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	u, err := getUser(ctx, s.db, userID, false)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT type, credits, organization_id, transaction_id, beneficiary_id, at FROM (
			SELECT id, type, credits, organization_id, transaction_id, beneficiary_id, at
			FROM credit_events WHERE user_id = $1 ORDER BY id DESC LIMIT $2
		) recent ORDER BY id`, userID, store.RecentCreditEvents)
	if err != nil {
		return nil, fmt.Errorf("query credit events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev models.CreditEvent
		var beneficiary sql.NullString
		if err := rows.Scan(&ev.Type, &ev.Credits, &ev.OrganizationID, &ev.TransactionID, &beneficiary, &ev.At); err != nil {
			return nil, fmt.Errorf("scan credit event: %w", err)
		}
		ev.BeneficiaryID = beneficiary.String
		u.Credits.Events = append(u.Credits.Events, ev)
	}
	return u, rows.Err()
}

func (s *Store) ListUserTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = store.DefaultTransactionLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE donor_id = $1 OR credit_owner_id = $1 OR beneficiary_id = $1
		ORDER BY recorded_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	result := make([]models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

func (s *Store) ListInventory(ctx context.Context, organizationID string) ([]models.InventoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+inventoryColumns+` FROM inventory
		WHERE organization_id = $1 ORDER BY blood_type`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	result := make([]models.InventoryRecord, 0)
	for rows.Next() {
		rec, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

func (s *Store) GetInventoryRecord(ctx context.Context, organizationID string, bloodType models.BloodType) (*models.InventoryRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+inventoryColumns+` FROM inventory
		WHERE organization_id = $1 AND blood_type = $2`, organizationID, bloodType)
	rec, err := scanInventory(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT type, credits, transaction_id, consent_request_id, at FROM inventory_movements
		WHERE organization_id = $1 AND blood_type = $2 ORDER BY id`, organizationID, bloodType)
	if err != nil {
		return nil, fmt.Errorf("query inventory movements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.InventoryMovement
		var txID, consentID sql.NullString
		if err := rows.Scan(&m.Type, &m.Credits, &txID, &consentID, &m.At); err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		m.TransactionID = txID.String
		m.ConsentRequestID = consentID.String
		rec.Movements = append(rec.Movements, m)
	}
	return rec, rows.Err()
}

func (s *Store) GetConsentRequest(ctx context.Context, id string) (*models.ConsentRequest, error) {
	return getConsentRequest(ctx, s.db, id, false)
}

func (s *Store) GetEmergencyCase(ctx context.Context, id string) (*models.EmergencyCase, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+emergencyColumns+` FROM emergency_cases WHERE id = $1`, id)
	return scanEmergencyCase(row)
}

func (s *Store) GetExchangeProposal(ctx context.Context, id string) (*models.ExchangeProposal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+exchangeColumns+` FROM exchanges WHERE id = $1`, id)
	return scanExchange(row)
}

func getUser(ctx context.Context, q querier, userID string, lock bool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	return scanUser(q.QueryRowContext(ctx, query, userID))
}

func getConsentRequest(ctx context.Context, q querier, id string, lock bool) (*models.ConsentRequest, error) {
	query := `SELECT ` + consentColumns + ` FROM consent_requests WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	return scanConsentRequest(q.QueryRowContext(ctx, query, id))
}
