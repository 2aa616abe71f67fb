package provisioning

import "github.com/google/uuid"

const (
	ModeCreate = "create"
	ModeReset  = "reset"
)

// ProvisioningRequest is the POST /provision payload. Mode defaults to
// create. The field names mirror what the console already sends, which is
// why full_name is snake_case while tempPassword is camelCase.
type ProvisioningRequest struct {
	Mode              string  `json:"mode" validate:"omitempty,oneof=create reset"`
	Email             string  `json:"email" validate:"required,email"`
	FullName          string  `json:"full_name" validate:"omitempty,min=1,max=200"`
	Role              string  `json:"role" validate:"omitempty,oneof=admin manager lead employee"`
	Status            string  `json:"status" validate:"omitempty,oneof=active inactive"`
	HomeStoreID       *string `json:"home_store_id" validate:"omitempty,uuid"`
	MustResetPassword *bool   `json:"must_reset_password"`
	Invite            bool    `json:"invite"`
	TempPassword      string  `json:"tempPassword" validate:"omitempty,min=12,max=72"`
	RedirectTo        string  `json:"redirectTo" validate:"omitempty,url"`
}

// NormalizedMode returns the effective mode for the request.
func (r ProvisioningRequest) NormalizedMode() string {
	if r.Mode == ModeReset {
		return ModeReset
	}
	return ModeCreate
}

// ProvisioningResponse is the success payload. TempPassword is present only
// when no invite email was delivered and the caller needs to hand the secret
// over out of band.
type ProvisioningResponse struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	Mode         string     `json:"mode"`
	InviteSent   bool       `json:"inviteSent"`
	TempPassword string     `json:"tempPassword,omitempty"`
}
