package handlers

import (
	"net/http"

	"github.com/bive/backend/internal/policy"
	"github.com/bive/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type QRHandler struct {
	service   *services.QRService
	consents  *services.ConsentService
	publicURL string
	logger    *zap.Logger
}

func NewQRHandler(service *services.QRService, consents *services.ConsentService, publicURL string, logger *zap.Logger) *QRHandler {
	return &QRHandler{
		service:   service,
		consents:  consents,
		publicURL: publicURL,
		logger:    logger,
	}
}

// ConsentQR renders the decision link of a pending request as a QR code
// @Summary Consent QR Code
// @Description Generate a QR code the credit owner scans to reach the decision endpoint
// @Tags Consents
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Consent request ID"
// @Success 200 {object} services.ConsentQR
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /consents/{requestId}/qr [get]
func (h *QRHandler) ConsentQR(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestId")

	req, err := h.consents.GetConsentRequest(r.Context(), requestID)
	if err != nil {
		fail(w, h.logger, "consent_qr", err)
		return
	}
	if _, ok := authorize(w, r, policy.ActionReadConsent, policy.Resource{
		OwnerID:       req.CreditOwnerID,
		BeneficiaryID: req.BeneficiaryID,
	}); !ok {
		return
	}

	qr, err := h.service.ConsentQR(r.Context(), requestID, h.publicURL)
	if err != nil {
		fail(w, h.logger, "consent_qr", err)
		return
	}
	respond(w, http.StatusOK, qr)
}
