package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bive/backend/internal/audit"
	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// millilitres recorded per credit when a donation does not state its volume
const mlPerCredit = 100

type DonationInput struct {
	DonorID        string                `json:"donorId" validate:"required"`
	OrganizationID string                `json:"organizationId" validate:"required"`
	BloodType      models.BloodType      `json:"bloodType" validate:"required,bloodtype"`
	Component      models.BloodComponent `json:"component" validate:"required,component"`
	Credits        int64                 `json:"credits" validate:"required,gt=0"`
	VolumeML       *int64                `json:"volumeMl,omitempty" validate:"omitempty,gt=0"`
	CollectedAt    *time.Time            `json:"collectedAt,omitempty"`
	Notes          *string               `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type DonationResult struct {
	TransactionID string `json:"transactionId"`
}

type DonationService struct {
	coordinator *Coordinator
	validator   *ValidationHelper
	audit       *audit.Logger
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

func NewDonationService(coordinator *Coordinator, validator *ValidationHelper, auditLogger *audit.Logger, logger *zap.Logger) *DonationService {
	return &DonationService{
		coordinator: coordinator,
		validator:   validator,
		audit:       auditLogger,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// RecordDonation credits the donor, stores the DONATION transaction and adds the credits
// to the organization's inventory for the blood type, creating the record if needed.
func (s *DonationService) RecordDonation(ctx context.Context, in DonationInput) (*DonationResult, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	transactionID := s.newID()
	recordedAt := s.now().UTC()

	volume := in.Credits * mlPerCredit
	if in.VolumeML != nil {
		volume = *in.VolumeML
	}
	collectedAt := recordedAt
	if in.CollectedAt != nil {
		collectedAt = in.CollectedAt.UTC()
	}

	txn := &models.Transaction{
		ID:             transactionID,
		Type:           models.TransactionDonation,
		Credits:        in.Credits,
		OrganizationID: in.OrganizationID,
		RecordedAt:     recordedAt,
		DonorID:        in.DonorID,
		BloodType:      in.BloodType,
		Component:      in.Component,
		VolumeML:       volume,
		CollectedAt:    &collectedAt,
		Notes:          in.Notes,
	}

	err := s.coordinator.RunAtomic(ctx, "record_donation", func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.GetUser(ctx, in.DonorID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return models.NewNotFoundError("Donor profile not found")
			}
			return fmt.Errorf("load donor: %w", err)
		}

		err := tx.ApplyCreditChange(ctx, in.DonorID, models.CreditChange{
			BalanceDelta: in.Credits,
			EarnedDelta:  in.Credits,
			Event: models.CreditEvent{
				Type:           models.TransactionDonation,
				Credits:        in.Credits,
				OrganizationID: in.OrganizationID,
				TransactionID:  transactionID,
				At:             recordedAt,
			},
		})
		if err != nil {
			return fmt.Errorf("credit donor: %w", err)
		}

		if err := tx.InsertTransaction(ctx, txn); err != nil {
			return err
		}

		_, err = tx.ApplyInventoryChange(ctx, models.InventoryChange{
			OrganizationID:  in.OrganizationID,
			BloodType:       in.BloodType,
			AvailableDelta:  in.Credits,
			DonatedDelta:    in.Credits,
			CreateIfMissing: true,
			At:              recordedAt,
			Movement: models.InventoryMovement{
				Type:          models.MovementDonation,
				Credits:       in.Credits,
				TransactionID: transactionID,
				At:            recordedAt,
			},
		})
		return err
	})
	if err != nil {
		s.logger.Warn("[DONATION] record failed",
			zap.String("donor_id", in.DonorID), zap.String("organization_id", in.OrganizationID), zap.Error(err))
		s.audit.LogError(string(models.TransactionDonation), transactionID, in.DonorID, err)
		return nil, err
	}

	s.logger.Info("[DONATION] recorded",
		zap.String("transaction_id", transactionID), zap.String("donor_id", in.DonorID), zap.Int64("credits", in.Credits))
	s.audit.LogLedgerEvent(string(models.TransactionDonation), transactionID, in.DonorID, in.Credits, map[string]string{
		"organization_id": in.OrganizationID,
		"blood_type":      string(in.BloodType),
		"volume_ml":       strconv.FormatInt(volume, 10),
	})

	return &DonationResult{TransactionID: transactionID}, nil
}
