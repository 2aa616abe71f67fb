package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/pkg/enums"
)

// Profile mirrors one identity-platform account inside the console database.
// The primary key is the platform's subject id, not a locally generated uuid,
// so the provisioning endpoint can upsert by the id the platform hands back.
type Profile struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Email             string           `gorm:"type:text;not null;uniqueIndex"`
	FullName          string           `gorm:"column:full_name;not null"`
	Role              enums.UserRole   `gorm:"column:role;type:user_role;not null;default:'employee'"`
	Status            enums.UserStatus `gorm:"column:status;type:user_status;not null;default:'active'"`
	HomeStoreID       *uuid.UUID       `gorm:"column:home_store_id;type:uuid"`
	MustResetPassword bool             `gorm:"column:must_reset_password;not null;default:false"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the table aligned with the migrations.
func (Profile) TableName() string {
	return "profiles"
}
