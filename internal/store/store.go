// Package store defines the ledger store contract shared by the memory, Postgres and
// MongoDB backends.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bive/backend/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotPending is returned by ResolveConsentRequest when the request is no longer
// PENDING, or is being resolved by a concurrent unit.
var ErrNotPending = errors.New("consent request is not pending")

// TransactionError reports that the backend could not guarantee atomicity for a unit of
// work (commit conflict, serialization failure, deadlock). Nothing from the unit is visible.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("atomic unit aborted: %v", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// IsTransactionError reports whether err is or wraps a *TransactionError.
func IsTransactionError(err error) bool {
	var te *TransactionError
	return errors.As(err, &te)
}

// Work is one atomic unit. Returning an error rolls back every write made through tx.
type Work func(ctx context.Context, tx Tx) error

// Reader serves reads outside of atomic units. GetUser returns at most the latest
// RecentCreditEvents entries of the event log, oldest first.
type Reader interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUserTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListInventory(ctx context.Context, organizationID string) ([]models.InventoryRecord, error)
	GetInventoryRecord(ctx context.Context, organizationID string, bloodType models.BloodType) (*models.InventoryRecord, error)
	GetConsentRequest(ctx context.Context, id string) (*models.ConsentRequest, error)
	GetEmergencyCase(ctx context.Context, id string) (*models.EmergencyCase, error)
	GetExchangeProposal(ctx context.Context, id string) (*models.ExchangeProposal, error)
}

// Tx is the write surface of one atomic unit. Reads through Tx observe the unit's own
// writes, and GetUser / GetConsentRequest hold the entity for the rest of the unit.
type Tx interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ApplyCreditChange(ctx context.Context, userID string, change models.CreditChange) error
	InsertTransaction(ctx context.Context, t *models.Transaction) error
	// ApplyInventoryChange reports whether a record was updated or created.
	ApplyInventoryChange(ctx context.Context, change models.InventoryChange) (bool, error)
	InsertConsentRequest(ctx context.Context, req *models.ConsentRequest) error
	GetConsentRequest(ctx context.Context, id string) (*models.ConsentRequest, error)
	// ResolveConsentRequest only moves a PENDING request; otherwise it returns ErrNotPending.
	ResolveConsentRequest(ctx context.Context, id string, res models.ConsentResolution) (*models.ConsentRequest, error)
	InsertEmergencyCase(ctx context.Context, c *models.EmergencyCase) error
	InsertExchangeProposal(ctx context.Context, p *models.ExchangeProposal) error
}

// Store is the ledger store. RunAtomic commits every write of work or none of them.
type Store interface {
	Reader
	RunAtomic(ctx context.Context, work Work) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

const (
	// Default limit for ListUserTransactions
	DefaultTransactionLimit = 50
	RecentCreditEvents      = 50
)
