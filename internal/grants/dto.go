package grants

import (
	"time"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/pkg/db/models"
)

// SyncGrantsRequest is the PUT payload: the complete target set of store ids
// the user should hold after the sync.
type SyncGrantsRequest struct {
	StoreIDs []string `json:"storeIds" validate:"required,dive,uuid"`
}

// GrantResponse is the wire shape for one access grant.
type GrantResponse struct {
	StoreID    uuid.UUID `json:"storeId"`
	AssignedBy uuid.UUID `json:"assignedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GrantListResponse wraps a user's full grant set.
type GrantListResponse struct {
	UserID uuid.UUID       `json:"userId"`
	Grants []GrantResponse `json:"grants"`
}

// SyncResult reports what the sync changed. Added and Removed are zero when
// the target set already matched.
type SyncResult struct {
	UserID   uuid.UUID   `json:"userId"`
	StoreIDs []uuid.UUID `json:"storeIds"`
	Added    int         `json:"added"`
	Removed  int         `json:"removed"`
}

func toGrantResponse(g *models.AccessGrant) GrantResponse {
	return GrantResponse{
		StoreID:    g.StoreID,
		AssignedBy: g.AssignedBy,
		CreatedAt:  g.CreatedAt,
	}
}
