package middleware

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/policy"
	"github.com/bive/backend/internal/services"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotentReplayedHeader  = "Idempotent-Replayed"
	CodeIdempotencyInProgress = "IDEMPOTENCY_IN_PROGRESS"
	CodeIdempotencyKeyReused  = "IDEMPOTENCY_KEY_REUSED"

	maxIdempotentBody = 1 << 20
)

const (
	statePending = "pending"
	stateDone    = "done"
)

type idempotencyRecord struct {
	State       string `json:"state"`
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency replays the stored response of a mutating request whose Idempotency-Key
// was already used by the same principal.
type Idempotency struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewIdempotency returns the middleware. A nil client, or a nil *Idempotency, turns it
// into a pass-through.
func NewIdempotency(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Idempotency {
	return &Idempotency{client: client, ttl: ttl, logger: logger}
}

func (m *Idempotency) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(IdempotencyKeyHeader)
		if m == nil || m.client == nil || key == "" || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotentBody+1))
		if err != nil {
			services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		ctx := r.Context()
		redisKey := idempotencyKey(policy.FromContext(ctx), key)
		fingerprint := requestFingerprint(r.Method, r.URL.Path, body)

		pending, _ := json.Marshal(idempotencyRecord{State: statePending, Fingerprint: fingerprint})
		claimed, err := m.client.SetNX(ctx, redisKey, pending, m.ttl).Result()
		if err != nil {
			// fail open
			m.logger.Warn("[IDEMPOTENCY] claim failed, continuing without key", zap.String("key", redisKey), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if !claimed {
			m.replay(w, r, redisKey, fingerprint)
			return
		}

		capture := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
		func() {
			defer func() {
				if p := recover(); p != nil {
					m.release(r, redisKey)
					panic(p)
				}
			}()
			next.ServeHTTP(capture, r)
		}()

		if capture.statusCode >= http.StatusInternalServerError {
			m.release(r, redisKey)
			return
		}

		done, _ := json.Marshal(idempotencyRecord{
			State:       stateDone,
			Fingerprint: fingerprint,
			Status:      capture.statusCode,
			ContentType: capture.Header().Get("Content-Type"),
			Body:        capture.body.Bytes(),
		})
		if err := m.client.Set(ctx, redisKey, done, m.ttl).Err(); err != nil {
			m.logger.Warn("[IDEMPOTENCY] store response failed", zap.String("key", redisKey), zap.Error(err))
		}
	})
}

// release drops the pending claim so the key can be retried.
func (m *Idempotency) release(r *http.Request, redisKey string) {
	if err := m.client.Del(r.Context(), redisKey).Err(); err != nil {
		m.logger.Warn("[IDEMPOTENCY] release failed", zap.String("key", redisKey), zap.Error(err))
	}
}

func (m *Idempotency) replay(w http.ResponseWriter, r *http.Request, redisKey, fingerprint string) {
	raw, err := m.client.Get(r.Context(), redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// claim expired between SETNX and GET
			services.SendDomainError(w, inProgressError())
			return
		}
		m.logger.Error("[IDEMPOTENCY] lookup failed", zap.String("key", redisKey), zap.Error(err))
		services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	var rec idempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		m.logger.Error("[IDEMPOTENCY] corrupt record", zap.String("key", redisKey), zap.Error(err))
		services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	switch {
	case rec.Fingerprint != fingerprint:
		services.SendDomainError(w, &models.DomainError{
			Code:    CodeIdempotencyKeyReused,
			Status:  http.StatusUnprocessableEntity,
			Message: "Idempotency key was used with a different request",
		})
	case rec.State != stateDone:
		services.SendDomainError(w, inProgressError())
	default:
		m.logger.Info("[IDEMPOTENCY] replayed", zap.String("key", redisKey), zap.Int("status", rec.Status))
		if rec.ContentType != "" {
			w.Header().Set("Content-Type", rec.ContentType)
		}
		w.Header().Set(IdempotentReplayedHeader, "true")
		w.WriteHeader(rec.Status)
		_, _ = w.Write(rec.Body)
	}
}

func inProgressError() *models.DomainError {
	return &models.DomainError{
		Code:    CodeIdempotencyInProgress,
		Status:  http.StatusConflict,
		Message: "A request with this idempotency key is still in progress",
	}
}

func idempotencyKey(p *policy.Principal, key string) string {
	subject := "anonymous"
	if p != nil && p.ID != "" {
		subject = p.ID
	}
	return "idem:" + subject + ":" + key
}

// requestFingerprint hashes method, path and body with blake2b-256.
func requestFingerprint(method, path string, body []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

type responseCapture struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	body        bytes.Buffer
}

func (rc *responseCapture) WriteHeader(code int) {
	if !rc.wroteHeader {
		rc.statusCode = code
		rc.wroteHeader = true
	}
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.wroteHeader = true
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}
