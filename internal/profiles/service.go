package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/pkg/db/models"
	"github.com/storeops-app/admin-backend/pkg/enums"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
	"github.com/storeops-app/admin-backend/pkg/logger"
	"github.com/storeops-app/admin-backend/pkg/pagination"
)

// Repository is the persistence surface the profile service consumes.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.UserStatus) error
}

// Service implements the admin console's profile operations.
type Service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, errors.New("profiles: repository is required")
	}
	if logg == nil {
		return nil, errors.New("profiles: logger is required")
	}
	return &Service{repo: repo, logg: logg}, nil
}

// List returns a cursor page of profiles, newest first. Deleted profiles are
// excluded at the repository level.
func (s *Service) List(ctx context.Context, params pagination.Params) (*ProfileListResponse, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	var nextCursor *string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		encoded := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		nextCursor = &encoded
	}

	out := make([]ProfileResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toProfileResponse(&rows[i]))
	}
	return &ProfileListResponse{Profiles: out, NextCursor: nextCursor}, nil
}

// Get fetches one profile by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ProfileResponse, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProfileResponse(profile)
	return &resp, nil
}

// Edit applies the requested field changes. Non-admin roles must end up with
// a home store; the check runs against the post-edit state so a role change
// and a store assignment can arrive in one request.
func (s *Service) Edit(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Status == enums.UserStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "profile has been deleted")
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Role != nil {
		role, parseErr := enums.ParseUserRole(*req.Role)
		if parseErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid role")
		}
		profile.Role = role
	}
	if req.Status != nil {
		status, parseErr := enums.ParseUserStatus(*req.Status)
		if parseErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status")
		}
		profile.Status = status
	}
	if req.HomeStoreID != nil {
		storeID, parseErr := uuid.Parse(*req.HomeStoreID)
		if parseErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid home store id")
		}
		profile.HomeStoreID = &storeID
	}

	if profile.Role.RequiresHomeStore() && profile.HomeStoreID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "non-admin roles require a home store")
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	resp := toProfileResponse(profile)
	return &resp, nil
}

// Deactivate moves an active profile to inactive.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, enums.UserStatusInactive)
}

// Reactivate moves an inactive profile back to active.
func (s *Service) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, enums.UserStatusActive)
}

// Delete soft-deletes a profile. Rows are never hard-deleted so grant history
// and audit trails stay intact.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if profile.Status == enums.UserStatusDeleted {
		return nil
	}
	return s.repo.UpdateStatus(ctx, id, enums.UserStatusDeleted)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, target enums.UserStatus) error {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if profile.Status == enums.UserStatusDeleted {
		return pkgerrors.New(pkgerrors.CodeConflict, "profile has been deleted")
	}
	if profile.Status == target {
		return nil
	}
	return s.repo.UpdateStatus(ctx, id, target)
}
