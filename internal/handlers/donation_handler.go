package handlers

import (
	"net/http"

	"github.com/bive/backend/internal/policy"
	"github.com/bive/backend/internal/services"
	"go.uber.org/zap"
)

type DonationHandler struct {
	service *services.DonationService
	logger  *zap.Logger
}

func NewDonationHandler(service *services.DonationService, logger *zap.Logger) *DonationHandler {
	return &DonationHandler{service: service, logger: logger}
}

// RecordDonation records a completed donation
// @Summary Record donation
// @Description Credit the donor and add the donated credits to the organization inventory
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body services.DonationInput true "Donation"
// @Success 201 {object} services.DonationResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /donations [post]
func (h *DonationHandler) RecordDonation(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, policy.ActionRecordDonation, policy.Resource{}); !ok {
		return
	}

	var req services.DonationInput
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.RecordDonation(r.Context(), req)
	if err != nil {
		fail(w, h.logger, "record_donation", err)
		return
	}
	respond(w, http.StatusCreated, result)
}
