package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
	"go.uber.org/zap"
)

// LedgerUser is the user projection returned by the ledger summary; the event log is left out.
type LedgerUser struct {
	UserID    string           `json:"userId"`
	Name      string           `json:"name,omitempty"`
	BloodType models.BloodType `json:"bloodType,omitempty"`
	Credits   LedgerCredits    `json:"credits"`
}

type LedgerCredits struct {
	Balance       int64                   `json:"balance"`
	TotalEarned   int64                   `json:"totalEarned"`
	TotalRedeemed int64                   `json:"totalRedeemed"`
	Emergency     *models.EmergencyStatus `json:"emergency,omitempty"`
}

type LedgerSummary struct {
	User               LedgerUser           `json:"user"`
	RecentTransactions []models.Transaction `json:"recentTransactions"`
}

type InventoryItem struct {
	OrganizationID   string           `json:"organizationId"`
	BloodType        models.BloodType `json:"bloodType"`
	AvailableCredits int64            `json:"availableCredits"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type InventorySummary struct {
	OrganizationID string          `json:"organizationId"`
	Inventory      []InventoryItem `json:"inventory"`
}

// LedgerService serves the read side of the ledger.
type LedgerService struct {
	reader store.Reader
	logger *zap.Logger
}

func NewLedgerService(reader store.Reader, logger *zap.Logger) *LedgerService {
	return &LedgerService{reader: reader, logger: logger}
}

func (s *LedgerService) GetLedgerSummary(ctx context.Context, userID string) (*LedgerSummary, error) {
	user, err := s.reader.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewNotFoundError("User not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	txs, err := s.reader.ListUserTransactions(ctx, userID, store.DefaultTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	s.logger.Debug("[LEDGER] summary", zap.String("user_id", userID), zap.Int("transactions", len(txs)))

	return &LedgerSummary{
		User: LedgerUser{
			UserID:    user.UserID,
			Name:      user.Name,
			BloodType: user.BloodType,
			Credits: LedgerCredits{
				Balance:       user.Credits.Balance,
				TotalEarned:   user.Credits.TotalEarned,
				TotalRedeemed: user.Credits.TotalRedeemed,
				Emergency:     user.Credits.Emergency,
			},
		},
		RecentTransactions: txs,
	}, nil
}

func (s *LedgerService) GetInventory(ctx context.Context, organizationID string) (*InventorySummary, error) {
	records, err := s.reader.ListInventory(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}

	items := make([]InventoryItem, 0, len(records))
	for _, rec := range records {
		items = append(items, InventoryItem{
			OrganizationID:   rec.OrganizationID,
			BloodType:        rec.BloodType,
			AvailableCredits: rec.AvailableCredits,
			UpdatedAt:        rec.UpdatedAt,
		})
	}

	return &InventorySummary{OrganizationID: organizationID, Inventory: items}, nil
}
