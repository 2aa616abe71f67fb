package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/pkg/enums"
)

// Store represents a retail location. ACE and POS store numbers come from
// the upstream retail systems and are display/reconciliation keys, not PKs.
type Store struct {
	ID             uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AceStoreNumber string            `gorm:"column:ace_store_number;not null"`
	POSStoreNumber string            `gorm:"column:pos_store_number;not null"`
	StoreName      string            `gorm:"column:store_name;not null"`
	Status         enums.StoreStatus `gorm:"column:status;type:store_status;not null;default:'active'"`
	AddressLine1   *string           `gorm:"column:address_line1"`
	AddressLine2   *string           `gorm:"column:address_line2"`
	City           *string           `gorm:"column:city"`
	State          *string           `gorm:"column:state"`
	PostalCode     *string           `gorm:"column:postal_code"`
	Timezone       string            `gorm:"column:timezone;not null;default:'America/Chicago'"`
	SortOrder      int               `gorm:"column:sort_order;not null;default:0"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the table aligned with the migrations.
func (Store) TableName() string {
	return "stores"
}
