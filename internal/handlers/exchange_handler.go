package handlers

import (
	"net/http"

	"github.com/bive/backend/internal/policy"
	"github.com/bive/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ExchangeHandler struct {
	service *services.ExchangeService
	logger  *zap.Logger
}

func NewExchangeHandler(service *services.ExchangeService, logger *zap.Logger) *ExchangeHandler {
	return &ExchangeHandler{service: service, logger: logger}
}

// CreateExchangeProposal
// @Summary Propose inventory exchange
// @Description Records the proposal only; no credits move
// @Tags Exchanges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body services.ExchangeProposalInput true "Proposal"
// @Success 201 {object} services.ExchangeCreated
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Router /exchanges [post]
func (h *ExchangeHandler) CreateExchangeProposal(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, policy.ActionProposeExchange, policy.Resource{}); !ok {
		return
	}

	var req services.ExchangeProposalInput
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.service.CreateExchangeProposal(r.Context(), req)
	if err != nil {
		fail(w, h.logger, "create_exchange_proposal", err)
		return
	}
	respond(w, http.StatusCreated, created)
}

// GetExchangeProposal
// @Summary Get exchange proposal
// @Tags Exchanges
// @Produce json
// @Security BearerAuth
// @Param exchangeId path string true "Exchange ID"
// @Success 200 {object} models.ExchangeProposal
// @Failure 404 {object} services.ErrorResponse
// @Router /exchanges/{exchangeId} [get]
func (h *ExchangeHandler) GetExchangeProposal(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, policy.ActionReadExchange, policy.Resource{}); !ok {
		return
	}

	p, err := h.service.GetExchangeProposal(r.Context(), chi.URLParam(r, "exchangeId"))
	if err != nil {
		fail(w, h.logger, "get_exchange_proposal", err)
		return
	}
	respond(w, http.StatusOK, p)
}
