package grants

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeops-app/admin-backend/pkg/db"
	"github.com/storeops-app/admin-backend/pkg/db/models"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
)

// Repo is the gorm-backed access grant store.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, errors.New("grants: db handle is required")
	}
	return &Repo{db: db}, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.AccessGrant, error) {
	var rows []models.AccessGrant
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing access grants")
	}
	return rows, nil
}

// Apply runs the batched insert and batched delete in one transaction so a
// partial sync never persists.
func (r *Repo) Apply(ctx context.Context, userID uuid.UUID, additions []models.AccessGrant, removals []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(additions) > 0 {
			if err := tx.Create(&additions).Error; err != nil {
				return err
			}
		}
		if len(removals) > 0 {
			err := tx.Where("user_id = ? AND store_id IN ?", userID, removals).
				Delete(&models.AccessGrant{}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_access_grants_user_store") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "grant already exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "applying grant sync")
	}
	return nil
}
