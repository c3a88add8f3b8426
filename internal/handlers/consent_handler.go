package handlers

import (
	"net/http"

	"github.com/bive/backend/internal/policy"
	"github.com/bive/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ConsentHandler struct {
	service *services.ConsentService
	logger  *zap.Logger
}

func NewConsentHandler(service *services.ConsentService, logger *zap.Logger) *ConsentHandler {
	return &ConsentHandler{service: service, logger: logger}
}

// CreateConsentRequest asks a credit owner to spend credits for a beneficiary
// @Summary Create consent request
// @Tags Consents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body services.ConsentRequestInput true "Consent request"
// @Success 201 {object} services.ConsentCreated
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Router /consents [post]
func (h *ConsentHandler) CreateConsentRequest(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, policy.ActionCreateConsent, policy.Resource{}); !ok {
		return
	}

	var req services.ConsentRequestInput
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.service.CreateConsentRequest(r.Context(), req)
	if err != nil {
		fail(w, h.logger, "create_consent_request", err)
		return
	}
	respond(w, http.StatusCreated, created)
}

// GetConsentRequest returns one consent request
// @Summary Get consent request
// @Tags Consents
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Consent request ID"
// @Success 200 {object} models.ConsentRequest
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /consents/{requestId} [get]
func (h *ConsentHandler) GetConsentRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.service.GetConsentRequest(r.Context(), chi.URLParam(r, "requestId"))
	if err != nil {
		fail(w, h.logger, "get_consent_request", err)
		return
	}

	if _, ok := authorize(w, r, policy.ActionReadConsent, policy.Resource{
		OwnerID:       req.CreditOwnerID,
		BeneficiaryID: req.BeneficiaryID,
	}); !ok {
		return
	}
	respond(w, http.StatusOK, req)
}

// RespondToConsentRequest approves or declines a pending request
// @Summary Decide consent request
// @Description Approval debits the credit owner and fulfils inventory in one atomic unit
// @Tags Consents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Consent request ID"
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body services.ConsentDecisionInput true "Decision"
// @Success 200 {object} services.ConsentDecisionResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /consents/{requestId}/decision [post]
func (h *ConsentHandler) RespondToConsentRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestId")

	var decision services.ConsentDecisionInput
	if !decodeJSON(w, r, &decision) {
		return
	}

	req, err := h.service.GetConsentRequest(r.Context(), requestID)
	if err != nil {
		fail(w, h.logger, "respond_to_consent_request", err)
		return
	}

	principal, ok := authorize(w, r, policy.ActionDecideConsent, policy.Resource{
		OwnerID:       req.CreditOwnerID,
		BeneficiaryID: req.BeneficiaryID,
		ActorID:       decision.ActorID,
	})
	if !ok {
		return
	}
	if decision.ActorID == "" {
		decision.ActorID = principal.ID
	}

	result, err := h.service.RespondToConsentRequest(r.Context(), requestID, decision)
	if err != nil {
		fail(w, h.logger, "respond_to_consent_request", err)
		return
	}
	respond(w, http.StatusOK, result)
}
