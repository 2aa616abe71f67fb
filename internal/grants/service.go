package grants

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/storeops-app/admin-backend/pkg/db/models"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
	"github.com/storeops-app/admin-backend/pkg/logger"
)

// Repository is the persistence surface the grant service consumes. Apply
// must run the batched insert and delete in a single transaction.
type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.AccessGrant, error)
	Apply(ctx context.Context, userID uuid.UUID, additions []models.AccessGrant, removals []uuid.UUID) error
}

// StoreChecker verifies that target store ids exist before granting access.
type StoreChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// ProfileChecker verifies the grant subject exists.
type ProfileChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// Service maintains access grants through set-difference sync: the caller
// sends the complete target set, the service computes additions and removals
// against what is persisted and applies both in one transaction.
type Service struct {
	repo     Repository
	stores   StoreChecker
	profiles ProfileChecker
	logg     *logger.Logger
}

func NewService(repo Repository, stores StoreChecker, profiles ProfileChecker, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, errors.New("grants: repository is required")
	}
	if stores == nil {
		return nil, errors.New("grants: store checker is required")
	}
	if profiles == nil {
		return nil, errors.New("grants: profile checker is required")
	}
	if logg == nil {
		return nil, errors.New("grants: logger is required")
	}
	return &Service{repo: repo, stores: stores, profiles: profiles, logg: logg}, nil
}

// ListByUser returns the user's current grant set.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) (*GrantListResponse, error) {
	if _, err := s.profiles.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]GrantResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toGrantResponse(&rows[i]))
	}
	return &GrantListResponse{UserID: userID, Grants: out}, nil
}

// Sync reconciles the persisted grant set with the target set. An identical
// target is a no-op; a second identical sync performs zero writes.
func (s *Service) Sync(ctx context.Context, userID uuid.UUID, assignedBy uuid.UUID, req SyncGrantsRequest) (*SyncResult, error) {
	if _, err := s.profiles.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	target, err := s.resolveTarget(ctx, req.StoreIDs)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	held := make(map[uuid.UUID]struct{}, len(current))
	for _, grant := range current {
		held[grant.StoreID] = struct{}{}
	}

	var additions []models.AccessGrant
	for storeID := range target {
		if _, ok := held[storeID]; !ok {
			additions = append(additions, models.AccessGrant{
				UserID:     userID,
				StoreID:    storeID,
				AssignedBy: assignedBy,
			})
		}
	}

	var removals []uuid.UUID
	for storeID := range held {
		if _, ok := target[storeID]; !ok {
			removals = append(removals, storeID)
		}
	}

	if len(additions) > 0 || len(removals) > 0 {
		if err := s.repo.Apply(ctx, userID, additions, removals); err != nil {
			return nil, err
		}
	}

	storeIDs := make([]uuid.UUID, 0, len(target))
	for storeID := range target {
		storeIDs = append(storeIDs, storeID)
	}
	sort.Slice(storeIDs, func(i, j int) bool {
		return storeIDs[i].String() < storeIDs[j].String()
	})

	return &SyncResult{
		UserID:   userID,
		StoreIDs: storeIDs,
		Added:    len(additions),
		Removed:  len(removals),
	}, nil
}

// resolveTarget parses and deduplicates the requested store ids, verifying
// each one exists. Lookup failures across the set are combined so the caller
// sees every bad id at once.
func (s *Service) resolveTarget(ctx context.Context, raw []string) (map[uuid.UUID]struct{}, error) {
	target := make(map[uuid.UUID]struct{}, len(raw))
	var lookupErr error

	for _, value := range raw {
		storeID, parseErr := uuid.Parse(value)
		if parseErr != nil {
			lookupErr = multierr.Append(lookupErr, parseErr)
			continue
		}
		if _, ok := target[storeID]; ok {
			continue
		}
		if _, findErr := s.stores.FindByID(ctx, storeID); findErr != nil {
			lookupErr = multierr.Append(lookupErr, findErr)
			continue
		}
		target[storeID] = struct{}{}
	}

	if lookupErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, lookupErr, "unknown store in target set").
			WithDetails(map[string]any{"reason": lookupErr.Error()})
	}
	return target, nil
}
