package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/pkg/auth"
	"github.com/storeops-app/admin-backend/pkg/config"
	"github.com/storeops-app/admin-backend/pkg/logger"
	"github.com/storeops-app/admin-backend/pkg/types"
)

var testJWT = config.JWTConfig{Secret: "test-secret"}

func authedHandler(t *testing.T, cfg config.JWTConfig) (http.Handler, *string) {
	t.Helper()

	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	logg := logger.New(logger.Options{ServiceName: "test"})
	return Auth(cfg, logg)(next), &seenUserID
}

func decodeErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	return envelope
}

func TestAuthMissingBearer(t *testing.T) {
	handler, seen := authedHandler(t, testJWT)

	req := httptest.NewRequest(http.MethodPost, "/provision", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	envelope := decodeErrorEnvelope(t, rec)
	if envelope.OK || envelope.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("envelope = %+v, want ok=false UNAUTHORIZED", envelope)
	}
	if *seen != "" {
		t.Fatal("handler must not run without credentials")
	}
}

func TestAuthMalformedHeader(t *testing.T) {
	for _, header := range []string{"Bearer", "Basic abc", "Bearer "} {
		handler, _ := authedHandler(t, testJWT)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestAuthExpiredToken(t *testing.T) {
	userID := uuid.New()
	token, err := auth.MintAccessToken(testJWT, time.Now().Add(-2*time.Hour), userID, "x@example.com", time.Hour)
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	handler, _ := authedHandler(t, testJWT)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for expired token", rec.Code)
	}
}

func TestAuthValidTokenInjectsUserID(t *testing.T) {
	userID := uuid.New()
	token, err := auth.MintAccessToken(testJWT, time.Now(), userID, "x@example.com", time.Hour)
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	handler, seen := authedHandler(t, testJWT)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *seen != userID.String() {
		t.Fatalf("context user id = %q, want %s", *seen, userID)
	}
}
