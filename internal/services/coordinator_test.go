package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCoordinator_RunAtomic(t *testing.T) {
	ctx := context.Background()
	noop := func(ctx context.Context, tx store.Tx) error { return nil }

	t.Run("commit", func(t *testing.T) {
		mockStore := new(MockStore)
		core, logs := observer.New(zap.DebugLevel)
		c := NewCoordinator(mockStore, zap.New(core))

		mockStore.On("RunAtomic", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, c.RunAtomic(ctx, "record_donation", noop))
		assert.Equal(t, 1, logs.FilterMessage("[LEDGER] atomic unit committed").Len())
		mockStore.AssertExpectations(t)
	})

	t.Run("domain rejection is returned unchanged", func(t *testing.T) {
		mockStore := new(MockStore)
		core, logs := observer.New(zap.DebugLevel)
		c := NewCoordinator(mockStore, zap.New(core))

		rejection := models.NewInsufficientCreditsError("Insufficient credits for approval")
		mockStore.On("RunAtomic", mock.Anything, mock.Anything).Return(rejection)

		err := c.RunAtomic(ctx, "respond_to_consent_request", noop)
		assert.Same(t, rejection, err)

		entries := logs.FilterMessage("[LEDGER] atomic unit rejected").All()
		require.Len(t, entries, 1)
		assert.Equal(t, models.CodeInsufficientCredits, entries[0].ContextMap()["code"])
	})

	t.Run("transaction error is flagged and passed through", func(t *testing.T) {
		mockStore := new(MockStore)
		core, logs := observer.New(zap.DebugLevel)
		c := NewCoordinator(mockStore, zap.New(core))

		txErr := &store.TransactionError{Err: errors.New("write conflict")}
		mockStore.On("RunAtomic", mock.Anything, mock.Anything).Return(txErr)

		err := c.RunAtomic(ctx, "respond_to_consent_request", noop)
		assert.True(t, store.IsTransactionError(err))
		_, isDomain := models.AsDomainError(err)
		assert.False(t, isDomain)

		entries := logs.FilterMessage("[LEDGER] atomic unit failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, true, entries[0].ContextMap()["transaction_error"])
	})

	t.Run("storage error is not retried", func(t *testing.T) {
		mockStore := new(MockStore)
		c := NewCoordinator(mockStore, zap.NewNop())

		mockStore.On("RunAtomic", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

		err := c.RunAtomic(ctx, "record_donation", noop)
		assert.EqualError(t, err, "connection reset")
		mockStore.AssertNumberOfCalls(t, "RunAtomic", 1)
	})

	t.Run("timeout sets a deadline on the unit", func(t *testing.T) {
		mockStore := new(MockStore)
		c := NewCoordinator(mockStore, zap.NewNop()).WithTimeout(5 * time.Second)

		hasDeadline := mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		})
		mockStore.On("RunAtomic", hasDeadline, mock.Anything).Return(nil)

		require.NoError(t, c.RunAtomic(ctx, "record_donation", noop))
		mockStore.AssertExpectations(t)
	})
}

func TestCoordinator_Reader(t *testing.T) {
	mockStore := new(MockStore)
	c := NewCoordinator(mockStore, zap.NewNop())
	assert.Equal(t, store.Reader(mockStore), c.Reader())
}
