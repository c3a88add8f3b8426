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

type ExchangeProposalInput struct {
	RequestingOrgID string             `json:"requestingOrgId" validate:"required"`
	OfferingOrgID   string             `json:"offeringOrgId" validate:"required,nefield=RequestingOrgID"`
	Requested       models.ExchangeLeg `json:"requested"`
	Offered         models.ExchangeLeg `json:"offered"`
	Notes           *string            `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ExchangeCreated struct {
	ExchangeID string    `json:"exchangeId"`
	Status     string    `json:"status"`
	ProposedAt time.Time `json:"proposedAt"`
}

type ExchangeService struct {
	coordinator *Coordinator
	validator   *ValidationHelper
	audit       *audit.Logger
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

func NewExchangeService(coordinator *Coordinator, validator *ValidationHelper, auditLogger *audit.Logger, logger *zap.Logger) *ExchangeService {
	return &ExchangeService{
		coordinator: coordinator,
		validator:   validator,
		audit:       auditLogger,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// CreateExchangeProposal records a PENDING proposal. Neither side's inventory moves.
func (s *ExchangeService) CreateExchangeProposal(ctx context.Context, in ExchangeProposalInput) (*ExchangeCreated, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	proposedAt := s.now().UTC()
	proposal := &models.ExchangeProposal{
		ID:              s.newID(),
		RequestingOrgID: in.RequestingOrgID,
		OfferingOrgID:   in.OfferingOrgID,
		Requested:       in.Requested,
		Offered:         in.Offered,
		Status:          models.ExchangePending,
		Notes:           in.Notes,
		ProposedAt:      proposedAt,
		UpdatedAt:       proposedAt,
	}

	err := s.coordinator.RunAtomic(ctx, "create_exchange_proposal", func(ctx context.Context, tx store.Tx) error {
		return tx.InsertExchangeProposal(ctx, proposal)
	})
	if err != nil {
		s.logger.Warn("[EXCHANGE] proposal failed", zap.String("requesting_org_id", in.RequestingOrgID), zap.Error(err))
		s.audit.LogError("EXCHANGE_PROPOSED", proposal.ID, in.RequestingOrgID, err)
		return nil, err
	}

	s.logger.Info("[EXCHANGE] proposed",
		zap.String("exchange_id", proposal.ID),
		zap.String("requesting_org_id", in.RequestingOrgID),
		zap.String("offering_org_id", in.OfferingOrgID))
	s.audit.LogOperation("EXCHANGE_PROPOSED", proposal.ID, in.RequestingOrgID,
		fmt.Sprintf("requested=%s:%d offered=%s:%d", in.Requested.BloodType, in.Requested.Credits, in.Offered.BloodType, in.Offered.Credits))

	return &ExchangeCreated{ExchangeID: proposal.ID, Status: proposal.Status, ProposedAt: proposedAt}, nil
}

func (s *ExchangeService) GetExchangeProposal(ctx context.Context, exchangeID string) (*models.ExchangeProposal, error) {
	p, err := s.coordinator.Reader().GetExchangeProposal(ctx, exchangeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewNotFoundError("Exchange proposal not found")
		}
		return nil, fmt.Errorf("get exchange proposal: %w", err)
	}
	return p, nil
}
