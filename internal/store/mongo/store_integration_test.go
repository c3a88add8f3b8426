//go:build integration

package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap/zaptest"
)

const testDatabase = "ledger_integration"

// setupMongo starts a single-node replica set, since multi-document transactions need
// one, and returns a store with its indexes in place.
func setupMongo(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()

	container, err := tcmongo.Run(ctx,
		"mongo:7",
		tcmongo.WithReplicaSet("rs0"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Waiting for connections").
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri).SetDirect(true))
	require.NoError(t, err)

	s := New(client, testDatabase, zaptest.NewLogger(t))
	t.Cleanup(func() { _ = s.Close(ctx) })

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func TestIntegration_Mongo_RunAtomic(t *testing.T) {
	s := setupMongo(t)
	ctx := context.Background()

	_, err := s.db.Collection(collUsers).InsertOne(ctx, &models.User{UserID: "donor-1", Roles: []string{models.RoleDonor}})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("commit is visible to readers", func(t *testing.T) {
		err := s.RunAtomic(ctx, func(ctx context.Context, tx store.Tx) error {
			if err := tx.ApplyCreditChange(ctx, "donor-1", models.CreditChange{
				BalanceDelta: 3, EarnedDelta: 3,
				Event: models.CreditEvent{Type: models.TransactionDonation, Credits: 3, OrganizationID: "org-1", TransactionID: "tx-1", At: now},
			}); err != nil {
				return err
			}
			_, err := tx.ApplyInventoryChange(ctx, models.InventoryChange{
				OrganizationID: "org-1", BloodType: models.BloodTypeOPos, AvailableDelta: 3, DonatedDelta: 3,
				CreateIfMissing: true, At: now,
				Movement: models.InventoryMovement{Type: models.MovementDonation, Credits: 3, TransactionID: "tx-1", At: now},
			})
			return err
		})
		require.NoError(t, err)

		u, err := s.GetUser(ctx, "donor-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), u.Credits.Balance)
		assert.Len(t, u.Credits.Events, 1)

		inv, err := s.ListInventory(ctx, "org-1")
		require.NoError(t, err)
		require.Len(t, inv, 1)
		assert.Equal(t, int64(3), inv[0].AvailableCredits)
		assert.Empty(t, inv[0].Movements)
	})

	t.Run("aborted unit leaves nothing behind", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.RunAtomic(ctx, func(ctx context.Context, tx store.Tx) error {
			if err := tx.ApplyCreditChange(ctx, "donor-1", models.CreditChange{
				BalanceDelta: 10, EarnedDelta: 10,
				Event: models.CreditEvent{Type: models.TransactionDonation, Credits: 10, OrganizationID: "org-1", TransactionID: "tx-2", At: now},
			}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		u, err := s.GetUser(ctx, "donor-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), u.Credits.Balance)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := s.RunAtomic(ctx, func(ctx context.Context, tx store.Tx) error {
			return tx.ApplyCreditChange(ctx, "ghost", models.CreditChange{BalanceDelta: 1})
		})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
	t.Run("consent request resolves once", func(t *testing.T) {
		expires := now.Add(time.Hour)
		req := &models.ConsentRequest{
			ID: "req-1", CreditOwnerID: "donor-1", BeneficiaryID: "ben-1", OrganizationID: "org-1",
			Credits: 1, Status: models.ConsentPending, RequestedAt: now, ExpiresAt: &expires,
		}
		require.NoError(t, s.RunAtomic(ctx, func(ctx context.Context, tx store.Tx) error {
			return tx.InsertConsentRequest(ctx, req)
		}))

		resolve := func(status models.ConsentStatus) error {
			return s.RunAtomic(ctx, func(ctx context.Context, tx store.Tx) error {
				_, err := tx.ResolveConsentRequest(ctx, "req-1", models.ConsentResolution{
					Status: status, DecidedBy: "donor-1", DecidedAt: time.Now().UTC(),
				})
				return err
			})
		}
		require.NoError(t, resolve(models.ConsentDeclined))
		assert.ErrorIs(t, resolve(models.ConsentApproved), store.ErrNotPending)

		got, err := s.GetConsentRequest(ctx, "req-1")
		require.NoError(t, err)
		assert.Equal(t, models.ConsentDeclined, got.Status)
	})
}
