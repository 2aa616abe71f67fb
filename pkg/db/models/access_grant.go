package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessGrant joins a profile with a store it may operate. AssignedBy is the
// admin who issued the grant, kept for auditing. Rows are only created and
// removed through the set-difference sync.
type AccessGrant struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_access_grants_user_store"`
	StoreID    uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_access_grants_user_store"`
	AssignedBy uuid.UUID `gorm:"column:assigned_by;type:uuid;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the table aligned with the migrations.
func (AccessGrant) TableName() string {
	return "access_grants"
}
