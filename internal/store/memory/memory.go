// Package memory is an in-process ledger store. Units of work are serialized by a single
// lock and run against copies of the touched entities, which replace the live state only
// when the unit succeeds.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
)

// ErrDuplicateKey is returned when inserting an entity whose id already exists.
var ErrDuplicateKey = errors.New("duplicate key")

type state struct {
	users        map[string]*models.User
	transactions map[string]*models.Transaction
	txOrder      []string
	inventory    map[models.InventoryKey]*models.InventoryRecord
	consents     map[string]*models.ConsentRequest
	emergencies  map[string]*models.EmergencyCase
	exchanges    map[string]*models.ExchangeProposal
}

// Store keeps every collection in maps guarded by mu.
type Store struct {
	mu    sync.RWMutex
	state state
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{state: state{
		users:        make(map[string]*models.User),
		transactions: make(map[string]*models.Transaction),
		inventory:    make(map[models.InventoryKey]*models.InventoryRecord),
		consents:     make(map[string]*models.ConsentRequest),
		emergencies:  make(map[string]*models.EmergencyCase),
		exchanges:    make(map[string]*models.ExchangeProposal),
	}}
}

// PutUser registers or replaces a user. Users are onboarded outside the ledger core.
func (s *Store) PutUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.users[u.UserID] = u.Clone()
}

// RunAtomic runs work with exclusive access and commits its writes only if it returns nil
// and ctx is still live.
func (s *Store) RunAtomic(ctx context.Context, work store.Work) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTx(&s.state)
	if err := work(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	tx.commit()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.state.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := u.Clone()
	if n := len(c.Credits.Events); n > store.RecentCreditEvents {
		c.Credits.Events = c.Credits.Events[n-store.RecentCreditEvents:]
	}
	return c, nil
}

func (s *Store) ListUserTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = store.DefaultTransactionLimit
	}

	result := make([]models.Transaction, 0)
	for i := len(s.state.txOrder) - 1; i >= 0; i-- {
		t := s.state.transactions[s.state.txOrder[i]]
		if t.Involves(userID) {
			result = append(result, *t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RecordedAt.After(result[j].RecordedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.state.transactions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (s *Store) ListInventory(ctx context.Context, organizationID string) ([]models.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.InventoryRecord, 0)
	for key, rec := range s.state.inventory {
		if key.OrganizationID == organizationID {
			result = append(result, *rec.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].BloodType < result[j].BloodType
	})
	return result, nil
}

func (s *Store) GetInventoryRecord(ctx context.Context, organizationID string, bloodType models.BloodType) (*models.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.state.inventory[models.InventoryKey{OrganizationID: organizationID, BloodType: bloodType}]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *Store) GetConsentRequest(ctx context.Context, id string) (*models.ConsentRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.state.consents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return req.Clone(), nil
}

func (s *Store) GetEmergencyCase(ctx context.Context, id string) (*models.EmergencyCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.state.emergencies[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) GetExchangeProposal(ctx context.Context, id string) (*models.ExchangeProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.exchanges[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}
