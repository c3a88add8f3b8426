package services

import (
	"sync"
	"testing"
	"time"

	"github.com/bive/backend/internal/audit"
	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store/memory"
	"go.uber.org/zap/zaptest"
)

type testEnv struct {
	store     *memory.Store
	donations *DonationService
	consents  *ConsentService
	emergency *EmergencyService
	exchanges *ExchangeService
	ledger    *LedgerService
	qr        *QRService

	mu    sync.Mutex
	clock time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zaptest.NewLogger(t)
	st := memory.New()
	coordinator := NewCoordinator(st, logger)
	validator := NewValidationHelper()
	auditLogger := audit.NewLogger(logger)

	env := &testEnv{
		store:     st,
		donations: NewDonationService(coordinator, validator, auditLogger, logger),
		consents:  NewConsentService(coordinator, validator, auditLogger, logger),
		emergency: NewEmergencyService(coordinator, validator, auditLogger, logger),
		exchanges: NewExchangeService(coordinator, validator, auditLogger, logger),
		ledger:    NewLedgerService(st, logger),
		clock:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	env.qr = NewQRService(env.consents)

	env.donations.now = env.tick
	env.consents.now = env.tick
	env.emergency.now = env.tick
	env.exchanges.now = env.tick
	return env
}

// tick advances the clock one second per call so records get distinct timestamps.
func (e *testEnv) tick() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock = e.clock.Add(time.Second)
	return e.clock
}

func (e *testEnv) putUser(userID string, balance int64, roles ...string) {
	e.store.PutUser(&models.User{
		UserID:  userID,
		Roles:   roles,
		Credits: models.Credits{Balance: balance, TotalEarned: max(balance, 0)},
	})
}

func ptr[T any](v T) *T {
	return &v
}
