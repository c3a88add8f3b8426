package handlers

import (
	"net/http"

	"github.com/bive/backend/internal/policy"
	"github.com/bive/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LedgerHandler struct {
	service *services.LedgerService
	logger  *zap.Logger
}

func NewLedgerHandler(service *services.LedgerService, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{service: service, logger: logger}
}

// GetLedgerSummary returns a user's credits and latest transactions
// @Summary Ledger summary
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} services.LedgerSummary
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /ledger/{userId} [get]
func (h *LedgerHandler) GetLedgerSummary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if _, ok := authorize(w, r, policy.ActionReadLedger, policy.Resource{OwnerID: userID}); !ok {
		return
	}

	summary, err := h.service.GetLedgerSummary(r.Context(), userID)
	if err != nil {
		fail(w, h.logger, "get_ledger_summary", err)
		return
	}
	respond(w, http.StatusOK, summary)
}

// GetInventory lists an organization's available credits per blood type
// @Summary Organization inventory
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Param organizationId path string true "Organization ID"
// @Success 200 {object} services.InventorySummary
// @Failure 403 {object} services.ErrorResponse
// @Router /inventory/{organizationId} [get]
func (h *LedgerHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, policy.ActionReadInventory, policy.Resource{}); !ok {
		return
	}

	inventory, err := h.service.GetInventory(r.Context(), chi.URLParam(r, "organizationId"))
	if err != nil {
		fail(w, h.logger, "get_inventory", err)
		return
	}
	respond(w, http.StatusOK, inventory)
}
