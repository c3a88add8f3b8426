package services

import (
	"context"
	"testing"
	"time"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonationService_RecordDonation(t *testing.T) {
	ctx := context.Background()

	t.Run("credits donor and creates inventory", func(t *testing.T) {
		env := newTestEnv(t)
		env.putUser("donor-1", 0, models.RoleDonor)

		result, err := env.donations.RecordDonation(ctx, DonationInput{
			DonorID:        "donor-1",
			OrganizationID: "org-1",
			BloodType:      models.BloodTypeBPos,
			Component:      models.ComponentWholeBlood,
			Credits:        4,
		})
		require.NoError(t, err)
		require.NotEmpty(t, result.TransactionID)

		donor, err := env.store.GetUser(ctx, "donor-1")
		require.NoError(t, err)
		assert.Equal(t, int64(4), donor.Credits.Balance)
		assert.Equal(t, int64(4), donor.Credits.TotalEarned)
		require.Len(t, donor.Credits.Events, 1)
		assert.Equal(t, models.TransactionDonation, donor.Credits.Events[0].Type)
		assert.Equal(t, result.TransactionID, donor.Credits.Events[0].TransactionID)

		txn, err := env.store.GetTransaction(ctx, result.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, int64(400), txn.VolumeML)
		require.NotNil(t, txn.CollectedAt)
		assert.True(t, txn.CollectedAt.Equal(txn.RecordedAt))

		rec, err := env.store.GetInventoryRecord(ctx, "org-1", models.BloodTypeBPos)
		require.NoError(t, err)
		assert.Equal(t, int64(4), rec.AvailableCredits)
		assert.Equal(t, int64(4), rec.TotalDonatedCredits)
		require.Len(t, rec.Movements, 1)
		assert.Equal(t, models.MovementDonation, rec.Movements[0].Type)
	})

	t.Run("adds to an existing inventory record", func(t *testing.T) {
		env := newTestEnv(t)
		env.putUser("donor-1", 0, models.RoleDonor)
		env.putUser("donor-2", 0, models.RoleDonor)

		collected := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
		_, err := env.donations.RecordDonation(ctx, DonationInput{
			DonorID: "donor-1", OrganizationID: "org-1", BloodType: models.BloodTypeONeg,
			Component: models.ComponentPlasma, Credits: 2, VolumeML: ptr(int64(450)), CollectedAt: &collected,
		})
		require.NoError(t, err)
		res, err := env.donations.RecordDonation(ctx, DonationInput{
			DonorID: "donor-2", OrganizationID: "org-1", BloodType: models.BloodTypeONeg,
			Component: models.ComponentPlatelets, Credits: 3,
		})
		require.NoError(t, err)

		rec, err := env.store.GetInventoryRecord(ctx, "org-1", models.BloodTypeONeg)
		require.NoError(t, err)
		assert.Equal(t, int64(5), rec.AvailableCredits)
		assert.Equal(t, int64(5), rec.TotalDonatedCredits)
		assert.Len(t, rec.Movements, 2)

		txn, err := env.store.GetTransaction(ctx, res.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, int64(300), txn.VolumeML)
	})

	t.Run("unknown donor writes nothing", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.donations.RecordDonation(ctx, DonationInput{
			DonorID: "ghost", OrganizationID: "org-1", BloodType: models.BloodTypeAPos,
			Component: models.ComponentWholeBlood, Credits: 1,
		})
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.EqualError(t, err, "Donor profile not found")

		_, err = env.store.GetInventoryRecord(ctx, "org-1", models.BloodTypeAPos)
		assert.ErrorIs(t, err, store.ErrNotFound)
		txs, err := env.store.ListUserTransactions(ctx, "ghost", 0)
		require.NoError(t, err)
		assert.Empty(t, txs)
	})

	t.Run("invalid input", func(t *testing.T) {
		env := newTestEnv(t)
		env.putUser("donor-1", 0, models.RoleDonor)

		_, err := env.donations.RecordDonation(ctx, DonationInput{
			DonorID: "donor-1", OrganizationID: "org-1", BloodType: "C+",
			Component: "serum", Credits: 0,
		})
		require.ErrorIs(t, err, models.ErrValidation)

		de, ok := models.AsDomainError(err)
		require.True(t, ok)
		assert.Contains(t, de.Details, "bloodType")
		assert.Contains(t, de.Details, "component")
		assert.Contains(t, de.Details, "credits")

		donor, _ := env.store.GetUser(ctx, "donor-1")
		assert.Equal(t, int64(0), donor.Credits.Balance)
	})
}
