package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bive/backend/internal/audit"
	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConsentContextInput struct {
	RequestedBloodType *models.BloodType `json:"requestedBloodType,omitempty" validate:"omitempty,bloodtype"`
	Reason             *string           `json:"reason,omitempty" validate:"omitempty,max=2000"`
	ClinicalNotes      *string           `json:"clinicalNotes,omitempty" validate:"omitempty,max=2000"`
}

type ConsentRequestInput struct {
	CreditOwnerID  string               `json:"creditOwnerId" validate:"required"`
	BeneficiaryID  string               `json:"beneficiaryId" validate:"required"`
	OrganizationID string               `json:"organizationId" validate:"required"`
	Credits        int64                `json:"credits" validate:"required,gt=0"`
	ExpiresAt      *time.Time           `json:"expiresAt,omitempty"`
	Context        *ConsentContextInput `json:"context,omitempty"`
}

type ConsentCreated struct {
	RequestID   string               `json:"requestId"`
	Status      models.ConsentStatus `json:"status"`
	RequestedAt time.Time            `json:"requestedAt"`
}

type ConsentDecisionInput struct {
	ActorID  string  `json:"actorId" validate:"required"`
	Decision string  `json:"decision" validate:"required,oneof=approve decline"`
	Note     *string `json:"note,omitempty" validate:"omitempty,max=2000"`
}

type ConsentDecisionResult struct {
	Request *models.ConsentRequest `json:"request"`
}

type ConsentService struct {
	coordinator *Coordinator
	validator   *ValidationHelper
	audit       *audit.Logger
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

func NewConsentService(coordinator *Coordinator, validator *ValidationHelper, auditLogger *audit.Logger, logger *zap.Logger) *ConsentService {
	return &ConsentService{
		coordinator: coordinator,
		validator:   validator,
		audit:       auditLogger,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// CreateConsentRequest stores a PENDING request. Balances are untouched until the credit
// owner approves.
func (s *ConsentService) CreateConsentRequest(ctx context.Context, in ConsentRequestInput) (*ConsentCreated, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	requestedAt := s.now().UTC()
	req := &models.ConsentRequest{
		ID:             s.newID(),
		Status:         models.ConsentPending,
		CreditOwnerID:  in.CreditOwnerID,
		BeneficiaryID:  in.BeneficiaryID,
		OrganizationID: in.OrganizationID,
		Credits:        in.Credits,
		Context:        consentContext(in.Context),
		RequestedAt:    requestedAt,
	}
	if in.ExpiresAt != nil {
		expiresAt := in.ExpiresAt.UTC()
		req.ExpiresAt = &expiresAt
	}

	err := s.coordinator.RunAtomic(ctx, "create_consent_request", func(ctx context.Context, tx store.Tx) error {
		return tx.InsertConsentRequest(ctx, req)
	})
	if err != nil {
		s.logger.Warn("[CONSENT] create failed", zap.String("credit_owner_id", in.CreditOwnerID), zap.Error(err))
		s.audit.LogError("CONSENT_REQUESTED", req.ID, in.CreditOwnerID, err)
		return nil, err
	}

	s.logger.Info("[CONSENT] requested",
		zap.String("request_id", req.ID), zap.String("beneficiary_id", in.BeneficiaryID), zap.Int64("credits", in.Credits))
	s.audit.LogOperation("CONSENT_REQUESTED", req.ID, in.CreditOwnerID, fmt.Sprintf("beneficiary=%s credits=%d", in.BeneficiaryID, in.Credits))

	return &ConsentCreated{RequestID: req.ID, Status: req.Status, RequestedAt: requestedAt}, nil
}

// consentContext drops the context entirely when no field was supplied.
func consentContext(in *ConsentContextInput) *models.ConsentContext {
	if in == nil {
		return nil
	}
	c := &models.ConsentContext{
		RequestedBloodType: in.RequestedBloodType,
		Reason:             in.Reason,
		ClinicalNotes:      in.ClinicalNotes,
	}
	if c.IsEmpty() {
		return nil
	}
	return c
}

// RespondToConsentRequest resolves a PENDING request. Approval debits the credit owner,
// writes the REDEMPTION transaction and, when the request names a blood type, draws the
// credits from that inventory record if it exists. Everything happens in one unit.
func (s *ConsentService) RespondToConsentRequest(ctx context.Context, requestID string, in ConsentDecisionInput) (*ConsentDecisionResult, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	decidedAt := s.now().UTC()
	transactionID := s.newID()
	approve := in.Decision == models.DecisionApprove

	var resolved *models.ConsentRequest
	err := s.coordinator.RunAtomic(ctx, "respond_to_consent_request", func(ctx context.Context, tx store.Tx) error {
		req, err := tx.GetConsentRequest(ctx, requestID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return models.NewNotFoundError("Consent request not found")
			}
			return fmt.Errorf("load consent request: %w", err)
		}
		if !req.IsPending() {
			return models.NewConflictError("Consent request already resolved")
		}

		status := models.ConsentDeclined
		if approve {
			if req.Expired(decidedAt) {
				return models.NewConflictError("Consent request expired")
			}
			status = models.ConsentApproved
		}

		// The status-guarded resolution is the unit's first write, so a concurrent
		// decision on the same request loses here before any balance moves.
		resolved, err = tx.ResolveConsentRequest(ctx, requestID, models.ConsentResolution{
			Status:       status,
			DecidedBy:    in.ActorID,
			DecidedAt:    decidedAt,
			DecisionNote: in.Note,
		})
		if err != nil {
			if errors.Is(err, store.ErrNotPending) {
				return models.NewConflictError("Consent request already resolved")
			}
			return fmt.Errorf("resolve consent request: %w", err)
		}
		if approve {
			return s.redeem(ctx, tx, req, transactionID, decidedAt)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("[CONSENT] decision failed",
			zap.String("request_id", requestID), zap.String("decision", in.Decision), zap.Error(err))
		s.audit.LogError("CONSENT_DECISION", requestID, in.ActorID, err)
		return nil, err
	}

	s.logger.Info("[CONSENT] resolved", zap.String("request_id", requestID), zap.String("status", string(resolved.Status)))
	if approve {
		s.audit.LogLedgerEvent(string(models.TransactionRedemption), transactionID, resolved.CreditOwnerID, resolved.Credits, map[string]string{
			"consent_request_id": requestID,
			"beneficiary_id":     resolved.BeneficiaryID,
			"organization_id":    resolved.OrganizationID,
		})
	} else {
		s.audit.LogOperation("CONSENT_DECLINED", requestID, in.ActorID, "")
	}

	return &ConsentDecisionResult{Request: resolved}, nil
}

func (s *ConsentService) redeem(ctx context.Context, tx store.Tx, req *models.ConsentRequest, transactionID string, at time.Time) error {
	owner, err := tx.GetUser(ctx, req.CreditOwnerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.NewNotFoundError("Credit owner not found")
		}
		return fmt.Errorf("load credit owner: %w", err)
	}
	if owner.Credits.Balance < req.Credits {
		return models.NewInsufficientCreditsError("Insufficient credits for approval")
	}

	err = tx.ApplyCreditChange(ctx, req.CreditOwnerID, models.CreditChange{
		BalanceDelta:  -req.Credits,
		RedeemedDelta: req.Credits,
		Event: models.CreditEvent{
			Type:           models.TransactionRedemption,
			Credits:        req.Credits,
			OrganizationID: req.OrganizationID,
			TransactionID:  transactionID,
			BeneficiaryID:  req.BeneficiaryID,
			At:             at,
		},
	})
	if err != nil {
		return fmt.Errorf("debit credit owner: %w", err)
	}

	err = tx.InsertTransaction(ctx, &models.Transaction{
		ID:               transactionID,
		Type:             models.TransactionRedemption,
		Credits:          req.Credits,
		OrganizationID:   req.OrganizationID,
		RecordedAt:       at,
		CreditOwnerID:    req.CreditOwnerID,
		BeneficiaryID:    req.BeneficiaryID,
		ConsentRequestID: req.ID,
	})
	if err != nil {
		return err
	}

	// Fulfilment only adjusts an existing record; donations are the only path that creates one.
	bloodType, ok := req.RequestedBloodType()
	if !ok {
		return nil
	}
	applied, err := tx.ApplyInventoryChange(ctx, models.InventoryChange{
		OrganizationID: req.OrganizationID,
		BloodType:      bloodType,
		AvailableDelta: -req.Credits,
		At:             at,
		Movement: models.InventoryMovement{
			Type:             models.MovementFulfillment,
			Credits:          req.Credits,
			ConsentRequestID: req.ID,
			At:               at,
		},
	})
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Info("[CONSENT] no inventory record to fulfil from",
			zap.String("request_id", req.ID), zap.String("organization_id", req.OrganizationID), zap.String("blood_type", string(bloodType)))
	}
	return nil
}

func (s *ConsentService) GetConsentRequest(ctx context.Context, requestID string) (*models.ConsentRequest, error) {
	req, err := s.coordinator.Reader().GetConsentRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewNotFoundError("Consent request not found")
		}
		return nil, fmt.Errorf("get consent request: %w", err)
	}
	return req, nil
}
