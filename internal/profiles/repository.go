package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storeops-app/admin-backend/pkg/db"
	"github.com/storeops-app/admin-backend/pkg/db/models"
	"github.com/storeops-app/admin-backend/pkg/enums"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
	"github.com/storeops-app/admin-backend/pkg/pagination"
)

// Repo is the gorm-backed profile store. The provisioning service shares it
// through its own narrower interface.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, errors.New("profiles: db handle is required")
	}
	return &Repo{db: db}, nil
}

func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "querying profile")
	}
	return &profile, nil
}

// List pages profiles newest-first with a (created_at, id) keyset cursor.
// Soft-deleted rows never appear in listings.
func (r *Repo) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Profile, error) {
	query := r.db.WithContext(ctx).
		Where("status <> ?", enums.UserStatusDeleted).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Profile
	if err := query.Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing profiles")
	}
	return rows, nil
}

func (r *Repo) Update(ctx context.Context, profile *models.Profile) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]any{
			"full_name":     profile.FullName,
			"role":          profile.Role,
			"status":        profile.Status,
			"home_store_id": profile.HomeStoreID,
		})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "updating profile")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.UserStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "updating profile status")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return nil
}

// Upsert writes a profile keyed by the identity-platform subject id. A repeat
// provision for the same account updates the row in place instead of failing
// on the primary key.
func (r *Repo) Upsert(ctx context.Context, profile *models.Profile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "full_name", "role", "status", "home_store_id", "must_reset_password", "updated_at",
		}),
	}).Create(profile).Error
	if err != nil {
		if db.IsUniqueViolation(err, "profiles_email_key") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already belongs to another profile")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upserting profile")
	}
	return nil
}

func (r *Repo) SetMustResetPassword(ctx context.Context, id uuid.UUID, value bool) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Update("must_reset_password", value)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "updating reset flag")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return nil
}
