package handlers

import (
	"net/http"

	"github.com/bive/backend/internal/policy"
	"github.com/bive/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EmergencyHandler struct {
	service *services.EmergencyService
	logger  *zap.Logger
}

func NewEmergencyHandler(service *services.EmergencyService, logger *zap.Logger) *EmergencyHandler {
	return &EmergencyHandler{service: service, logger: logger}
}

// ApplyEmergencyOverride lets a beneficiary go into bounded debt
// @Summary Apply emergency override
// @Tags Emergency
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body services.EmergencyOverrideInput true "Override"
// @Success 201 {object} services.EmergencyOverrideResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /emergency-overrides [post]
func (h *EmergencyHandler) ApplyEmergencyOverride(w http.ResponseWriter, r *http.Request) {
	principal, ok := authorize(w, r, policy.ActionApplyEmergency, policy.Resource{})
	if !ok {
		return
	}

	var req services.EmergencyOverrideInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.InitiatedBy == "" {
		req.InitiatedBy = principal.ID
	}

	result, err := h.service.ApplyEmergencyOverride(r.Context(), req)
	if err != nil {
		fail(w, h.logger, "apply_emergency_override", err)
		return
	}
	respond(w, http.StatusCreated, result)
}

// GetEmergencyCase
// @Summary Get emergency case
// @Tags Emergency
// @Produce json
// @Security BearerAuth
// @Param caseId path string true "Emergency case ID"
// @Success 200 {object} models.EmergencyCase
// @Failure 404 {object} services.ErrorResponse
// @Router /emergency-overrides/{caseId} [get]
func (h *EmergencyHandler) GetEmergencyCase(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, policy.ActionReadEmergency, policy.Resource{}); !ok {
		return
	}

	c, err := h.service.GetEmergencyCase(r.Context(), chi.URLParam(r, "caseId"))
	if err != nil {
		fail(w, h.logger, "get_emergency_case", err)
		return
	}
	respond(w, http.StatusOK, c)
}
