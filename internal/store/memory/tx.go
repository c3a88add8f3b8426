package memory

import (
	"context"
	"fmt"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
)

// tx buffers the writes of one unit. Entities are copied from base on first touch.
type tx struct {
	base *state

	users        map[string]*models.User
	transactions []*models.Transaction
	inventory    map[models.InventoryKey]*models.InventoryRecord
	consents     map[string]*models.ConsentRequest
	emergencies  []*models.EmergencyCase
	exchanges    []*models.ExchangeProposal
}

func newTx(base *state) *tx {
	return &tx{
		base:      base,
		users:     make(map[string]*models.User),
		inventory: make(map[models.InventoryKey]*models.InventoryRecord),
		consents:  make(map[string]*models.ConsentRequest),
	}
}

func (t *tx) user(userID string) (*models.User, bool) {
	if u, ok := t.users[userID]; ok {
		return u, true
	}
	u, ok := t.base.users[userID]
	if !ok {
		return nil, false
	}
	c := u.Clone()
	t.users[userID] = c
	return c, true
}

func (t *tx) consent(id string) (*models.ConsentRequest, bool) {
	if r, ok := t.consents[id]; ok {
		return r, true
	}
	r, ok := t.base.consents[id]
	if !ok {
		return nil, false
	}
	c := r.Clone()
	t.consents[id] = c
	return c, true
}

func (t *tx) GetUser(ctx context.Context, userID string) (*models.User, error) {
	u, ok := t.user(userID)
	if !ok {
		return nil, store.ErrNotFound
	}
	return u.Clone(), nil
}

func (t *tx) ApplyCreditChange(ctx context.Context, userID string, change models.CreditChange) error {
	u, ok := t.user(userID)
	if !ok {
		return store.ErrNotFound
	}
	u.ApplyCreditChange(change)
	return nil
}

func (t *tx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	if _, exists := t.base.transactions[txn.ID]; exists {
		return fmt.Errorf("transaction %s: %w", txn.ID, ErrDuplicateKey)
	}
	for _, pending := range t.transactions {
		if pending.ID == txn.ID {
			return fmt.Errorf("transaction %s: %w", txn.ID, ErrDuplicateKey)
		}
	}
	c := *txn
	t.transactions = append(t.transactions, &c)
	return nil
}

func (t *tx) ApplyInventoryChange(ctx context.Context, change models.InventoryChange) (bool, error) {
	key := models.InventoryKey{OrganizationID: change.OrganizationID, BloodType: change.BloodType}

	rec, ok := t.inventory[key]
	if !ok {
		if base, exists := t.base.inventory[key]; exists {
			rec = base.Clone()
		} else if change.CreateIfMissing {
			rec = models.NewInventoryRecord(change)
		} else {
			return false, nil
		}
		t.inventory[key] = rec
	}
	rec.ApplyInventoryChange(change)
	return true, nil
}

func (t *tx) InsertConsentRequest(ctx context.Context, req *models.ConsentRequest) error {
	if _, exists := t.consent(req.ID); exists {
		return fmt.Errorf("consent request %s: %w", req.ID, ErrDuplicateKey)
	}
	t.consents[req.ID] = req.Clone()
	return nil
}

func (t *tx) GetConsentRequest(ctx context.Context, id string) (*models.ConsentRequest, error) {
	r, ok := t.consent(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return r.Clone(), nil
}

func (t *tx) ResolveConsentRequest(ctx context.Context, id string, res models.ConsentResolution) (*models.ConsentRequest, error) {
	r, ok := t.consent(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	if !r.IsPending() {
		return nil, store.ErrNotPending
	}
	r.Resolve(res)
	return r.Clone(), nil
}

func (t *tx) InsertEmergencyCase(ctx context.Context, c *models.EmergencyCase) error {
	if _, exists := t.base.emergencies[c.ID]; exists {
		return fmt.Errorf("emergency case %s: %w", c.ID, ErrDuplicateKey)
	}
	cp := *c
	t.emergencies = append(t.emergencies, &cp)
	return nil
}

func (t *tx) InsertExchangeProposal(ctx context.Context, p *models.ExchangeProposal) error {
	if _, exists := t.base.exchanges[p.ID]; exists {
		return fmt.Errorf("exchange proposal %s: %w", p.ID, ErrDuplicateKey)
	}
	cp := *p
	t.exchanges = append(t.exchanges, &cp)
	return nil
}

func (t *tx) commit() {
	for id, u := range t.users {
		t.base.users[id] = u
	}
	for _, txn := range t.transactions {
		t.base.transactions[txn.ID] = txn
		t.base.txOrder = append(t.base.txOrder, txn.ID)
	}
	for key, rec := range t.inventory {
		t.base.inventory[key] = rec
	}
	for id, r := range t.consents {
		t.base.consents[id] = r
	}
	for _, c := range t.emergencies {
		t.base.emergencies[c.ID] = c
	}
	for _, p := range t.exchanges {
		t.base.exchanges[p.ID] = p
	}
}
