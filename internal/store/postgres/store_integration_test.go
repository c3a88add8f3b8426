//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

// setupPostgres starts a disposable PostgreSQL container, applies the migrations and
// returns an open handle. The container is terminated on test cleanup.
func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(ctx, db, zaptest.NewLogger(t)))
	return db
}

func TestIntegration_Postgres_MigrateIsIdempotent(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db, zaptest.NewLogger(t)))

	var applied int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestIntegration_Postgres_RunAtomic(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	s := New(db, zaptest.NewLogger(t))

	_, err := db.ExecContext(ctx, `INSERT INTO users (user_id, roles) VALUES ('donor-1', '{donor}')`)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("commit is visible to readers", func(t *testing.T) {
		err := s.RunAtomic(ctx, func(ctx context.Context, tx store.Tx) error {
			if err := tx.ApplyCreditChange(ctx, "donor-1", models.CreditChange{
				BalanceDelta: 2, EarnedDelta: 2,
				Event: models.CreditEvent{Type: models.TransactionDonation, Credits: 2, OrganizationID: "org-1", TransactionID: "tx-1", At: now},
			}); err != nil {
				return err
			}
			if err := tx.InsertTransaction(ctx, &models.Transaction{
				ID: "tx-1", Type: models.TransactionDonation, Credits: 2, OrganizationID: "org-1", RecordedAt: now,
				DonorID: "donor-1", BloodType: models.BloodTypeAPos, Component: models.ComponentWholeBlood, VolumeML: 200,
			}); err != nil {
				return err
			}
			_, err := tx.ApplyInventoryChange(ctx, models.InventoryChange{
				OrganizationID: "org-1", BloodType: models.BloodTypeAPos, AvailableDelta: 2, DonatedDelta: 2,
				CreateIfMissing: true, At: now,
				Movement: models.InventoryMovement{Type: models.MovementDonation, Credits: 2, TransactionID: "tx-1", At: now},
			})
			return err
		})
		require.NoError(t, err)

		u, err := s.GetUser(ctx, "donor-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), u.Credits.Balance)
		assert.Equal(t, []string{models.RoleDonor}, u.Roles)
		require.Len(t, u.Credits.Events, 1)

		rec, err := s.GetInventoryRecord(ctx, "org-1", models.BloodTypeAPos)
		require.NoError(t, err)
		assert.Equal(t, int64(2), rec.AvailableCredits)
		assert.Len(t, rec.Movements, 1)
	})

	t.Run("failed unit leaves nothing behind", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.RunAtomic(ctx, func(ctx context.Context, tx store.Tx) error {
			if err := tx.ApplyCreditChange(ctx, "donor-1", models.CreditChange{
				BalanceDelta: 5, EarnedDelta: 5,
				Event: models.CreditEvent{Type: models.TransactionDonation, Credits: 5, OrganizationID: "org-1", TransactionID: "tx-2", At: now},
			}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		u, err := s.GetUser(ctx, "donor-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), u.Credits.Balance)
		assert.Len(t, u.Credits.Events, 1)
	})

	t.Run("fulfilment without a record creates nothing", func(t *testing.T) {
		var applied bool
		err := s.RunAtomic(ctx, func(ctx context.Context, tx store.Tx) error {
			var err error
			applied, err = tx.ApplyInventoryChange(ctx, models.InventoryChange{
				OrganizationID: "org-1", BloodType: models.BloodTypeABNeg, AvailableDelta: -1, At: now,
				Movement: models.InventoryMovement{Type: models.MovementFulfillment, Credits: 1, ConsentRequestID: "req-1", At: now},
			})
			return err
		})
		require.NoError(t, err)
		assert.False(t, applied)

		_, err = s.GetInventoryRecord(ctx, "org-1", models.BloodTypeABNeg)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
