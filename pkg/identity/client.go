// Package identity wraps the hosted identity platform's privileged admin
// API. Only the provisioning service talks to it; the service role key it
// holds must never be exposed outside this process.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/pkg/config"
)

// Directory is the capability surface the provisioning service depends on.
// Tests substitute a fake; a platform with a native upsert-by-email could
// swap the pagination-scan fallback without touching callers.
type Directory interface {
	FindOrCreateAccount(ctx context.Context, email, password string) (id uuid.UUID, created bool, err error)
	SendInvite(ctx context.Context, email, redirectTo string) error
	SendPasswordReset(ctx context.Context, email, redirectTo string) error
}

// Client implements Directory against the platform's HTTP admin API.
type Client struct {
	baseURL        string
	serviceRoleKey string
	searchPageSize int
	searchMaxPages int
	httpClient     *http.Client
}

// NewClient builds an identity client from configuration.
func NewClient(cfg config.IdentityConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("identity base url is required")
	}
	if strings.TrimSpace(cfg.ServiceRoleKey) == "" {
		return nil, fmt.Errorf("identity service role key is required")
	}

	pageSize := cfg.SearchPageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	maxPages := cfg.SearchMaxPages
	if maxPages <= 0 {
		maxPages = 20
	}

	return &Client{
		baseURL:        base,
		serviceRoleKey: cfg.ServiceRoleKey,
		searchPageSize: pageSize,
		searchMaxPages: maxPages,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// FindOrCreateAccount creates a platform account for the email, falling back
// to a paginated scan when the email is already registered. The second return
// reports whether a new account was created.
func (c *Client) FindOrCreateAccount(ctx context.Context, email, password string) (uuid.UUID, bool, error) {
	id, err := c.createUser(ctx, email, password)
	if err == nil {
		return id, true, nil
	}
	if err != ErrEmailExists {
		return uuid.Nil, false, err
	}

	existing, err := c.findAccountByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, false, err
	}
	return existing.ID, false, nil
}

// SendInvite asks the platform to email an invite/recovery link.
func (c *Client) SendInvite(ctx context.Context, email, redirectTo string) error {
	return c.sendEmailAction(ctx, "/invite", email, redirectTo)
}

// SendPasswordReset triggers the platform's password reset email. The
// platform intentionally does not reveal whether the account exists, so a
// 2xx here never implies the email is registered.
func (c *Client) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	return c.sendEmailAction(ctx, "/recover", email, redirectTo)
}

func (c *Client) createUser(ctx context.Context, email, password string) (uuid.UUID, error) {
	body := createUserRequest{Email: email, Password: password, EmailConfirm: true}

	var account Account
	err := c.do(ctx, http.MethodPost, "/admin/users", nil, body, &account)
	if err != nil {
		var upstream *UpstreamError
		if asUpstream(err, &upstream) && isEmailConflict(upstream) {
			return uuid.Nil, ErrEmailExists
		}
		return uuid.Nil, err
	}
	if account.ID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("identity platform returned no account id")
	}
	return account.ID, nil
}

// findAccountByEmail pages through the platform's user listing until it finds
// the email or exhausts the page budget. The admin list API has no
// lookup-by-email filter, so this scan is the manual idempotency workaround.
func (c *Client) findAccountByEmail(ctx context.Context, email string) (*Account, error) {
	target := strings.ToLower(strings.TrimSpace(email))

	for page := 1; page <= c.searchMaxPages; page++ {
		query := url.Values{
			"page":     []string{strconv.Itoa(page)},
			"per_page": []string{strconv.Itoa(c.searchPageSize)},
		}

		var resp listUsersResponse
		if err := c.do(ctx, http.MethodGet, "/admin/users", query, nil, &resp); err != nil {
			return nil, err
		}

		for i := range resp.Users {
			if strings.EqualFold(resp.Users[i].Email, target) {
				return &resp.Users[i], nil
			}
		}

		if len(resp.Users) < c.searchPageSize {
			break
		}
	}

	return nil, fmt.Errorf("account %q not found in identity platform", email)
}

func (c *Client) sendEmailAction(ctx context.Context, path, email, redirectTo string) error {
	var query url.Values
	if redirectTo != "" {
		query = url.Values{"redirect_to": []string{redirectTo}}
	}
	return c.do(ctx, http.MethodPost, path, query, emailActionRequest{Email: email}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding identity request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceRoleKey)
	req.Header.Set("apikey", c.serviceRoleKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling identity platform: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading identity response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Status: resp.StatusCode, Message: upstreamMessage(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding identity response: %w", err)
		}
	}
	return nil
}

func upstreamMessage(raw []byte) string {
	var payload struct {
		Msg       string `json:"msg"`
		Message   string `json:"message"`
		ErrorDesc string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, candidate := range []string{payload.Msg, payload.Message, payload.ErrorDesc} {
			if candidate != "" {
				return candidate
			}
		}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = "no response body"
	}
	return msg
}

func asUpstream(err error, target **UpstreamError) bool {
	upstream, ok := err.(*UpstreamError)
	if !ok {
		return false
	}
	*target = upstream
	return true
}

func isEmailConflict(err *UpstreamError) bool {
	if err.Status == http.StatusConflict {
		return true
	}
	if err.Status != http.StatusUnprocessableEntity && err.Status != http.StatusBadRequest {
		return false
	}
	msg := strings.ToLower(err.Message)
	return strings.Contains(msg, "already") && strings.Contains(msg, "regist")
}
