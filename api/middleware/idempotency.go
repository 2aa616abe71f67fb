package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/storeops-app/admin-backend/api/responses"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
	"github.com/storeops-app/admin-backend/pkg/logger"
	"github.com/storeops-app/admin-backend/pkg/redis"
)

const (
	idempotencyHeader  = "Idempotency-Key"
	idempotencyTTL     = 24 * time.Hour
	maxIdempotencyBody = 1 << 20
)

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"contentType"`
	RequestHash string `json:"requestHash"`
}

// Idempotency replays the stored response when a request repeats the same
// Idempotency-Key with an identical body, and rejects reuse of a key with a
// different body. Requests without the header pass through untouched.
func Idempotency(store redis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := r.Header.Get(idempotencyHeader)
			if key == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotencyBody))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sum := sha256.Sum256(body)
			requestHash := hex.EncodeToString(sum[:])

			scope := UserIDFromContext(ctx)
			if scope == "" {
				scope = "anonymous"
			}
			redisKey := store.IdempotencyKey(scope, key)

			stored, err := store.Get(ctx, redisKey)
			switch {
			case err == nil:
				var record idempotencyRecord
				if unmarshalErr := json.Unmarshal([]byte(stored), &record); unmarshalErr == nil {
					if record.RequestHash != requestHash {
						responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, "idempotency key reused with a different request body"))
						return
					}
					replay(w, record)
					return
				}
				// Unreadable record: fall through and process fresh.
			case !redis.IsNil(err):
				if logg != nil {
					logg.Warn(ctx, "idempotency lookup failed, processing without replay")
				}
			}

			capture := &responseCapture{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(capture, r)

			record := idempotencyRecord{
				Status:      capture.status,
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				ContentType: capture.Header().Get("Content-Type"),
				RequestHash: requestHash,
			}
			payload, marshalErr := json.Marshal(record)
			if marshalErr != nil {
				return
			}
			if _, setErr := store.SetNX(ctx, redisKey, string(payload), idempotencyTTL); setErr != nil && logg != nil {
				logg.Warn(ctx, "failed to persist idempotency record")
			}
		})
	}
}

func replay(w http.ResponseWriter, record idempotencyRecord) {
	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

type responseCapture struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *responseCapture) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(p []byte) (int, error) {
	c.body.Write(p)
	return c.ResponseWriter.Write(p)
}
