package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.IdentityConfig{
		BaseURL:        server.URL,
		ServiceRoleKey: "service-role-key",
		Timeout:        5 * time.Second,
		SearchPageSize: 2,
		SearchMaxPages: 5,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestFindOrCreateAccountCreatesNewAccount(t *testing.T) {
	accountID := uuid.New()
	var sawAuth, sawAPIKey string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/users" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		sawAuth = r.Header.Get("Authorization")
		sawAPIKey = r.Header.Get("apikey")

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email_confirm"] != true {
			t.Fatal("create must set email_confirm")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Account{ID: accountID, Email: body["email"].(string)})
	}))

	id, created, err := client.FindOrCreateAccount(context.Background(), "new@example.com", "Secret-Pass-123")
	if err != nil {
		t.Fatalf("FindOrCreateAccount: %v", err)
	}
	if !created || id != accountID {
		t.Fatalf("id=%s created=%v, want %s and true", id, created, accountID)
	}
	if sawAuth != "Bearer service-role-key" || sawAPIKey != "service-role-key" {
		t.Fatalf("auth headers = %q / %q, want the service role key on both", sawAuth, sawAPIKey)
	}
}

func TestFindOrCreateAccountRecoversExistingOnConflict(t *testing.T) {
	existingID := uuid.New()
	users := []Account{
		{ID: uuid.New(), Email: "first@example.com"},
		{ID: uuid.New(), Email: "second@example.com"},
		{ID: existingID, Email: "taken@example.com"},
	}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"msg":"A user with this email address has already been registered"}`))
		case r.Method == http.MethodGet:
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
			start := (page - 1) * perPage
			end := start + perPage
			if start > len(users) {
				start = len(users)
			}
			if end > len(users) {
				end = len(users)
			}
			_ = json.NewEncoder(w).Encode(listUsersResponse{Users: users[start:end]})
		}
	}))

	id, created, err := client.FindOrCreateAccount(context.Background(), "Taken@Example.com", "Secret-Pass-123")
	if err != nil {
		t.Fatalf("FindOrCreateAccount: %v", err)
	}
	if created {
		t.Fatal("created = true, want false for an existing account")
	}
	if id != existingID {
		t.Fatalf("id = %s, want the existing account %s", id, existingID)
	}
}

func TestFindOrCreateAccountConflictNotFoundInScan(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"msg":"already registered"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(listUsersResponse{})
	}))

	_, _, err := client.FindOrCreateAccount(context.Background(), "ghost@example.com", "Secret-Pass-123")
	if err == nil {
		t.Fatal("expected an error when the scan cannot find the conflicting account")
	}
}

func TestFindOrCreateAccountSurfacesUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"msg":"database error"}`))
	}))

	_, _, err := client.FindOrCreateAccount(context.Background(), "x@example.com", "Secret-Pass-123")
	upstream, ok := err.(*UpstreamError)
	if !ok {
		t.Fatalf("error = %T, want *UpstreamError", err)
	}
	if upstream.Status != http.StatusInternalServerError || upstream.Message != "database error" {
		t.Fatalf("upstream = %+v, want 500 with platform message", upstream)
	}
}

func TestSendInviteAndReset(t *testing.T) {
	var paths []string
	var redirects []string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		redirects = append(redirects, r.URL.Query().Get("redirect_to"))
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.SendInvite(context.Background(), "a@example.com", "https://console.example.com/welcome"); err != nil {
		t.Fatalf("SendInvite: %v", err)
	}
	if err := client.SendPasswordReset(context.Background(), "a@example.com", ""); err != nil {
		t.Fatalf("SendPasswordReset: %v", err)
	}

	if paths[0] != "/invite" || paths[1] != "/recover" {
		t.Fatalf("paths = %v, want /invite then /recover", paths)
	}
	if redirects[0] != "https://console.example.com/welcome" || redirects[1] != "" {
		t.Fatalf("redirects = %v", redirects)
	}
}

func TestIsEmailConflict(t *testing.T) {
	cases := []struct {
		err  *UpstreamError
		want bool
	}{
		{&UpstreamError{Status: 409, Message: "duplicate"}, true},
		{&UpstreamError{Status: 422, Message: "A user with this email address has already been registered"}, true},
		{&UpstreamError{Status: 400, Message: "email already registered"}, true},
		{&UpstreamError{Status: 422, Message: "password too weak"}, false},
		{&UpstreamError{Status: 500, Message: "already registered"}, false},
	}

	for _, tc := range cases {
		if got := isEmailConflict(tc.err); got != tc.want {
			t.Errorf("isEmailConflict(%d, %q) = %v, want %v", tc.err.Status, tc.err.Message, got, tc.want)
		}
	}
}
