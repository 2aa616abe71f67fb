package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrEmailExists signals the platform already holds an account for the
// requested email. Callers treat this as a soft failure and recover the
// existing subject id instead of surfacing an error.
var ErrEmailExists = errors.New("email already registered")

// Account is the subset of the platform's user record the console needs.
type Account struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// UpstreamError carries the platform's own failure message so the endpoint
// can embed it in the error envelope.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("identity platform returned %d: %s", e.Status, e.Message)
}

type createUserRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	EmailConfirm bool   `json:"email_confirm"`
}

type listUsersResponse struct {
	Users []Account `json:"users"`
}

type emailActionRequest struct {
	Email string `json:"email"`
}
