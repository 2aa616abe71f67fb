package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/pkg/db/models"
)

// UpdateProfileRequest carries the editable profile fields. Pointers
// distinguish "leave unchanged" from an explicit value.
type UpdateProfileRequest struct {
	FullName    *string `json:"fullName,omitempty" validate:"omitempty,min=1,max=200"`
	Role        *string `json:"role,omitempty" validate:"omitempty,oneof=admin manager lead employee"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	HomeStoreID *string `json:"homeStoreId,omitempty" validate:"omitempty,uuid"`
}

// ProfileResponse is the wire shape for one profile.
type ProfileResponse struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	FullName          string     `json:"fullName"`
	Role              string     `json:"role"`
	Status            string     `json:"status"`
	HomeStoreID       *uuid.UUID `json:"homeStoreId"`
	MustResetPassword bool       `json:"mustResetPassword"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ProfileListResponse is a cursor page of profiles.
type ProfileListResponse struct {
	Profiles   []ProfileResponse `json:"profiles"`
	NextCursor *string           `json:"nextCursor,omitempty"`
}

func toProfileResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                p.ID,
		Email:             p.Email,
		FullName:          p.FullName,
		Role:              p.Role.String(),
		Status:            p.Status.String(),
		HomeStoreID:       p.HomeStoreID,
		MustResetPassword: p.MustResetPassword,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
