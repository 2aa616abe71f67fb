package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeops-app/admin-backend/pkg/db/models"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
)

// Repo is the gorm-backed store repository.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, errors.New("stores: db handle is required")
	}
	return &Repo{db: db}, nil
}

func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "querying store")
	}
	return &store, nil
}

func (r *Repo) List(ctx context.Context) ([]models.Store, error) {
	var rows []models.Store
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, store_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing stores")
	}
	return rows, nil
}

func (r *Repo) Create(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating store")
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, store *models.Store) error {
	result := r.db.WithContext(ctx).Model(&models.Store{}).
		Where("id = ?", store.ID).
		Updates(map[string]any{
			"ace_store_number": store.AceStoreNumber,
			"pos_store_number": store.POSStoreNumber,
			"store_name":       store.StoreName,
			"status":           store.Status,
			"address_line1":    store.AddressLine1,
			"address_line2":    store.AddressLine2,
			"city":             store.City,
			"state":            store.State,
			"postal_code":      store.PostalCode,
			"timezone":         store.Timezone,
			"sort_order":       store.SortOrder,
		})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "updating store")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return nil
}
