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

type EmergencyOverrideInput struct {
	BeneficiaryID      string     `json:"beneficiaryId" validate:"required"`
	OrganizationID     string     `json:"organizationId" validate:"required"`
	InitiatedBy        string     `json:"initiatedBy" validate:"required"`
	Credits            int64      `json:"credits" validate:"required,gt=0"`
	Justification      string     `json:"justification" validate:"required,max=2000"`
	DebtCeilingCredits int64      `json:"debtCeilingCredits" validate:"required,gt=0"`
	RepaymentPlan      *string    `json:"repaymentPlan,omitempty" validate:"omitempty,max=2000"`
	RepaymentDueAt     *time.Time `json:"repaymentDueAt,omitempty"`
}

type EmergencyOverrideResult struct {
	TransactionID string `json:"transactionId"`
}

type EmergencyService struct {
	coordinator *Coordinator
	validator   *ValidationHelper
	audit       *audit.Logger
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

func NewEmergencyService(coordinator *Coordinator, validator *ValidationHelper, auditLogger *audit.Logger, logger *zap.Logger) *EmergencyService {
	return &EmergencyService{
		coordinator: coordinator,
		validator:   validator,
		audit:       auditLogger,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// ApplyEmergencyOverride lets a beneficiary go into debt up to the debt ceiling. A
// beneficiary who is already in debt cannot receive a second override.
func (s *EmergencyService) ApplyEmergencyOverride(ctx context.Context, in EmergencyOverrideInput) (*EmergencyOverrideResult, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	transactionID := s.newID()
	initiatedAt := s.now().UTC()
	var dueAt *time.Time
	if in.RepaymentDueAt != nil {
		t := in.RepaymentDueAt.UTC()
		dueAt = &t
	}

	err := s.coordinator.RunAtomic(ctx, "apply_emergency_override", func(ctx context.Context, tx store.Tx) error {
		user, err := tx.GetUser(ctx, in.BeneficiaryID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return models.NewNotFoundError("Beneficiary not found")
			}
			return fmt.Errorf("load beneficiary: %w", err)
		}

		balance := user.Credits.Balance
		if balance < 0 {
			return models.NewConflictError("Beneficiary already has an outstanding emergency debt")
		}
		if projected := balance - in.Credits; abs(projected) > in.DebtCeilingCredits {
			return models.NewConflictError("Emergency request exceeds configured debt ceiling")
		}

		err = tx.ApplyCreditChange(ctx, in.BeneficiaryID, models.CreditChange{
			BalanceDelta:  -in.Credits,
			RedeemedDelta: in.Credits,
			Emergency: &models.EmergencyStatus{
				Active:         true,
				OverrideID:     transactionID,
				Credits:        in.Credits,
				InitiatedAt:    initiatedAt,
				OrganizationID: in.OrganizationID,
				Justification:  in.Justification,
				RepaymentPlan:  in.RepaymentPlan,
				RepaymentDueAt: dueAt,
			},
			Event: models.CreditEvent{
				Type:           models.TransactionEmergencyOverride,
				Credits:        in.Credits,
				OrganizationID: in.OrganizationID,
				TransactionID:  transactionID,
				At:             initiatedAt,
			},
		})
		if err != nil {
			return fmt.Errorf("debit beneficiary: %w", err)
		}

		err = tx.InsertTransaction(ctx, &models.Transaction{
			ID:             transactionID,
			Type:           models.TransactionEmergencyOverride,
			Credits:        in.Credits,
			OrganizationID: in.OrganizationID,
			RecordedAt:     initiatedAt,
			BeneficiaryID:  in.BeneficiaryID,
			InitiatedBy:    in.InitiatedBy,
			Justification:  in.Justification,
			RepaymentPlan:  in.RepaymentPlan,
			RepaymentDueAt: dueAt,
		})
		if err != nil {
			return err
		}

		return tx.InsertEmergencyCase(ctx, &models.EmergencyCase{
			ID:             transactionID,
			BeneficiaryID:  in.BeneficiaryID,
			OrganizationID: in.OrganizationID,
			InitiatedBy:    in.InitiatedBy,
			Credits:        in.Credits,
			Status:         models.EmergencyOutstanding,
			Justification:  in.Justification,
			RepaymentPlan:  in.RepaymentPlan,
			RepaymentDueAt: dueAt,
			CreatedAt:      initiatedAt,
			UpdatedAt:      initiatedAt,
		})
	})
	if err != nil {
		s.logger.Warn("[EMERGENCY] override failed", zap.String("beneficiary_id", in.BeneficiaryID), zap.Error(err))
		s.audit.LogError(string(models.TransactionEmergencyOverride), transactionID, in.BeneficiaryID, err)
		return nil, err
	}

	s.logger.Info("[EMERGENCY] override applied",
		zap.String("transaction_id", transactionID), zap.String("beneficiary_id", in.BeneficiaryID), zap.Int64("credits", in.Credits))
	s.audit.LogLedgerEvent(string(models.TransactionEmergencyOverride), transactionID, in.BeneficiaryID, in.Credits, map[string]string{
		"organization_id": in.OrganizationID,
		"initiated_by":    in.InitiatedBy,
		"debt_ceiling":    strconv.FormatInt(in.DebtCeilingCredits, 10),
	})

	return &EmergencyOverrideResult{TransactionID: transactionID}, nil
}

func (s *EmergencyService) GetEmergencyCase(ctx context.Context, caseID string) (*models.EmergencyCase, error) {
	c, err := s.coordinator.Reader().GetEmergencyCase(ctx, caseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewNotFoundError("Emergency case not found")
		}
		return nil, fmt.Errorf("get emergency case: %w", err)
	}
	return c, nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
