package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bive/backend/internal/audit"
	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/services"
	"github.com/bive/backend/internal/store/memory"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

var testSecret = []byte("handler-secret")

type apiEnv struct {
	store   *memory.Store
	handler http.Handler
}

func newAPIEnv(t *testing.T, redisClient redis.Cmdable) *apiEnv {
	t.Helper()

	logger := zaptest.NewLogger(t)
	st := memory.New()
	coordinator := services.NewCoordinator(st, logger)
	validator := services.NewValidationHelper()
	auditLogger := audit.NewLogger(logger)

	consents := services.NewConsentService(coordinator, validator, auditLogger, logger)
	router := &Router{
		Donations: NewDonationHandler(services.NewDonationService(coordinator, validator, auditLogger, logger), logger),
		Consents:  NewConsentHandler(consents, logger),
		QR:        NewQRHandler(services.NewQRService(consents), consents, "https://ledger.example.org", logger),
		Emergency: NewEmergencyHandler(services.NewEmergencyService(coordinator, validator, auditLogger, logger), logger),
		Exchanges: NewExchangeHandler(services.NewExchangeService(coordinator, validator, auditLogger, logger), logger),
		Ledger:    NewLedgerHandler(services.NewLedgerService(st, logger), logger),
		Health:    NewHealthHandler(st, redisClient, logger),
		JWTSecret: testSecret,
		Logger:    logger,
	}

	st.PutUser(&models.User{UserID: "donor-1", Roles: []string{models.RoleDonor}})
	st.PutUser(&models.User{UserID: "ben-1", Roles: []string{models.RoleBeneficiary}})
	return &apiEnv{store: st, handler: router.Handler()}
}

func token(t *testing.T, subject string, roles ...string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func (e *apiEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) services.ErrorResponse {
	t.Helper()
	var resp services.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func donation(credits int64) map[string]any {
	return map[string]any{
		"donorId":        "donor-1",
		"organizationId": "org-1",
		"bloodType":      "O-",
		"component":      "whole_blood",
		"credits":        credits,
	}
}

func TestHealth(t *testing.T) {
	t.Run("redis disabled", func(t *testing.T) {
		env := newAPIEnv(t, nil)
		rec := env.do(t, http.MethodGet, "/health", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, map[string]string{"status": "healthy", "store": "up", "redis": "disabled"}, body)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	})

	t.Run("redis down", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetErr(errors.New("connection refused"))

		env := newAPIEnv(t, client)
		rec := env.do(t, http.MethodGet, "/health", "", nil)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unhealthy", body["status"])
		assert.Equal(t, "down", body["redis"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAPIRequiresAuthentication(t *testing.T) {
	env := newAPIEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/ledger/donor-1", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, models.CodeUnauthorized, decodeError(t, rec).Code)
}

func TestRecordDonation(t *testing.T) {
	org := token(t, "org-user", models.RoleOrganization)

	t.Run("created and visible in the ledger", func(t *testing.T) {
		env := newAPIEnv(t, nil)

		rec := env.do(t, http.MethodPost, "/api/v1/donations", org, donation(3))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var result services.DonationResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.NotEmpty(t, result.TransactionID)

		rec = env.do(t, http.MethodGet, "/api/v1/ledger/donor-1", token(t, "donor-1", models.RoleDonor), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary services.LedgerSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, int64(3), summary.User.Credits.Balance)
		require.Len(t, summary.RecentTransactions, 1)
		assert.Equal(t, result.TransactionID, summary.RecentTransactions[0].ID)

		rec = env.do(t, http.MethodGet, "/api/v1/inventory/org-1", org, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var inventory []services.InventoryItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inventory))
		require.Len(t, inventory, 1)
		assert.Equal(t, int64(3), inventory[0].AvailableCredits)
	})

	t.Run("donor role is forbidden", func(t *testing.T) {
		env := newAPIEnv(t, nil)
		rec := env.do(t, http.MethodPost, "/api/v1/donations", token(t, "donor-1", models.RoleDonor), donation(3))

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, models.CodeForbidden, decodeError(t, rec).Code)
	})

	t.Run("validation error", func(t *testing.T) {
		env := newAPIEnv(t, nil)
		rec := env.do(t, http.MethodPost, "/api/v1/donations", org, donation(0))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, models.CodeValidationError, resp.Code)
		assert.Contains(t, resp.Details, "credits")
	})

	t.Run("unknown field", func(t *testing.T) {
		env := newAPIEnv(t, nil)
		body := donation(1)
		body["bonus"] = 10
		rec := env.do(t, http.MethodPost, "/api/v1/donations", org, body)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decodeError(t, rec).Error)
	})

	t.Run("trailing data", func(t *testing.T) {
		env := newAPIEnv(t, nil)
		rec := env.do(t, http.MethodPost, "/api/v1/donations", org, `{"donorId":"donor-1"} {}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		env := newAPIEnv(t, nil)
		huge := `{"notes":"` + strings.Repeat("x", maxBodyBytes) + `"}`
		rec := env.do(t, http.MethodPost, "/api/v1/donations", org, huge)
		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("unknown donor", func(t *testing.T) {
		env := newAPIEnv(t, nil)
		body := donation(1)
		body["donorId"] = "ghost"
		rec := env.do(t, http.MethodPost, "/api/v1/donations", org, body)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, models.CodeNotFound, decodeError(t, rec).Code)
	})
}

func TestConsentFlow(t *testing.T) {
	org := token(t, "org-user", models.RoleOrganization)
	owner := token(t, "donor-1", models.RoleDonor)
	beneficiary := token(t, "ben-1", models.RoleBeneficiary)

	setup := func(t *testing.T, donated, requested int64) (*apiEnv, string) {
		env := newAPIEnv(t, nil)
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/donations", org, donation(donated)).Code)

		rec := env.do(t, http.MethodPost, "/api/v1/consents", beneficiary, map[string]any{
			"creditOwnerId":  "donor-1",
			"beneficiaryId":  "ben-1",
			"organizationId": "org-1",
			"credits":        requested,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created services.ConsentCreated
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, models.ConsentPending, created.Status)
		return env, created.RequestID
	}

	approve := map[string]any{"decision": "approve"}

	t.Run("owner approves once", func(t *testing.T) {
		env, id := setup(t, 5, 2)

		rec := env.do(t, http.MethodPost, "/api/v1/consents/"+id+"/decision", owner, approve)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result services.ConsentDecisionResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, models.ConsentApproved, result.Request.Status)
		assert.Equal(t, "donor-1", result.Request.DecidedBy)

		rec = env.do(t, http.MethodPost, "/api/v1/consents/"+id+"/decision", owner, approve)
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, models.CodeConflict, decodeError(t, rec).Code)

		rec = env.do(t, http.MethodGet, "/api/v1/consents/"+id, beneficiary, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("only the owner decides", func(t *testing.T) {
		env, id := setup(t, 5, 2)

		rec := env.do(t, http.MethodPost, "/api/v1/consents/"+id+"/decision", beneficiary, approve)
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = env.do(t, http.MethodPost, "/api/v1/consents/"+id+"/decision", owner, map[string]any{
			"decision": "approve",
			"actorId":  "someone-else",
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("insufficient credits", func(t *testing.T) {
		env, id := setup(t, 1, 4)

		rec := env.do(t, http.MethodPost, "/api/v1/consents/"+id+"/decision", owner, approve)
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, models.CodeInsufficientCredits, decodeError(t, rec).Code)
	})

	t.Run("unknown request", func(t *testing.T) {
		env := newAPIEnv(t, nil)

		rec := env.do(t, http.MethodPost, "/api/v1/consents/missing/decision", owner, approve)
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/v1/consents/missing", owner, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("qr for a pending request", func(t *testing.T) {
		env, id := setup(t, 5, 2)

		rec := env.do(t, http.MethodGet, "/api/v1/consents/"+id+"/qr", owner, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "https://ledger.example.org/api/v1/consents/"+id+"/decision")
	})

	t.Run("strangers cannot read", func(t *testing.T) {
		env, id := setup(t, 5, 2)

		rec := env.do(t, http.MethodGet, "/api/v1/consents/"+id, token(t, "stranger", models.RoleDonor), nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestEmergencyOverride(t *testing.T) {
	admin := token(t, "admin-1", models.RoleAdmin)
	body := map[string]any{
		"beneficiaryId":      "ben-1",
		"organizationId":     "org-1",
		"credits":            3,
		"justification":      "Massive haemorrhage",
		"debtCeilingCredits": 5,
	}

	t.Run("admin applies and reads the case", func(t *testing.T) {
		env := newAPIEnv(t, nil)

		rec := env.do(t, http.MethodPost, "/api/v1/emergency-overrides", admin, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var result services.EmergencyOverrideResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

		rec = env.do(t, http.MethodGet, "/api/v1/ledger/ben-1", admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var summary services.LedgerSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, int64(-3), summary.User.Credits.Balance)
	})

	t.Run("organizations cannot override", func(t *testing.T) {
		env := newAPIEnv(t, nil)
		rec := env.do(t, http.MethodPost, "/api/v1/emergency-overrides", token(t, "org-user", models.RoleOrganization), body)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestExchangeProposal(t *testing.T) {
	org := token(t, "org-user", models.RoleOrganization)
	env := newAPIEnv(t, nil)

	leg := map[string]any{"bloodType": "A+", "credits": 2}
	rec := env.do(t, http.MethodPost, "/api/v1/exchanges", org, map[string]any{
		"requestingOrgId": "org-1",
		"offeringOrgId":   "org-2",
		"requested":       leg,
		"offered":         leg,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created services.ExchangeCreated
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, string(models.ExchangePending), created.Status)

	rec = env.do(t, http.MethodGet, "/api/v1/exchanges/"+created.ExchangeID, org, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLedgerSummaryIsPrivate(t *testing.T) {
	env := newAPIEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/ledger/donor-1", token(t, "ben-1", models.RoleBeneficiary), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/ledger/donor-1", token(t, "gov-1", models.RoleGovernment), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestFailHidesStorageErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	fail(rec, zap.NewNop(), "record_donation", errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeError(t, rec).Error)
}
