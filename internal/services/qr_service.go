package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/url"
	"strings"

	"github.com/bive/backend/internal/models"
	"github.com/skip2/go-qrcode"
)

const qrImageSize = 256

type ConsentQR struct {
	RequestID   string `json:"requestId"`
	DecisionURL string `json:"decisionUrl"`
	Image       string `json:"image"` // base64 PNG
}

// QRService renders QR codes that point a credit owner at the decision endpoint of a
// pending consent request.
type QRService struct {
	consents *ConsentService
}

func NewQRService(consents *ConsentService) *QRService {
	return &QRService{consents: consents}
}

func (s *QRService) ConsentQR(ctx context.Context, requestID, baseURL string) (*ConsentQR, error) {
	req, err := s.consents.GetConsentRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, models.NewConflictError("Consent request already resolved")
	}

	decisionURL := fmt.Sprintf("%s/api/v1/consents/%s/decision",
		strings.TrimRight(baseURL, "/"), url.PathEscape(requestID))

	qr, err := qrcode.New(decisionURL, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(qrImageSize)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return &ConsentQR{
		RequestID:   requestID,
		DecisionURL: decisionURL,
		Image:       base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}
