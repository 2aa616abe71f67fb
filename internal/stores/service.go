package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/pkg/db/models"
	"github.com/storeops-app/admin-backend/pkg/enums"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
	"github.com/storeops-app/admin-backend/pkg/logger"
)

// Repository is the persistence surface the store service consumes.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	List(ctx context.Context) ([]models.Store, error)
	Create(ctx context.Context, store *models.Store) error
	Update(ctx context.Context, store *models.Store) error
}

// Service implements the admin console's store operations.
type Service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, errors.New("stores: repository is required")
	}
	if logg == nil {
		return nil, errors.New("stores: logger is required")
	}
	return &Service{repo: repo, logg: logg}, nil
}

// List returns every store ordered by sort_order. The store count is small
// enough that the console always renders the full set.
func (s *Service) List(ctx context.Context) (*StoreListResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StoreResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toStoreResponse(&rows[i]))
	}
	return &StoreListResponse{Stores: out}, nil
}

// Get fetches one store by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toStoreResponse(store)
	return &resp, nil
}

// Create registers a new active store.
func (s *Service) Create(ctx context.Context, req CreateStoreRequest) (*StoreResponse, error) {
	store := fromCreateRequest(req)
	if err := s.repo.Create(ctx, &store); err != nil {
		return nil, err
	}
	resp := toStoreResponse(&store)
	return &resp, nil
}

// Update applies the requested field changes to a store.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AceStoreNumber != nil {
		store.AceStoreNumber = *req.AceStoreNumber
	}
	if req.POSStoreNumber != nil {
		store.POSStoreNumber = *req.POSStoreNumber
	}
	if req.StoreName != nil {
		store.StoreName = *req.StoreName
	}
	if req.Status != nil {
		status, parseErr := enums.ParseStoreStatus(*req.Status)
		if parseErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status")
		}
		store.Status = status
	}
	if req.AddressLine1 != nil {
		store.AddressLine1 = req.AddressLine1
	}
	if req.AddressLine2 != nil {
		store.AddressLine2 = req.AddressLine2
	}
	if req.City != nil {
		store.City = req.City
	}
	if req.State != nil {
		store.State = req.State
	}
	if req.PostalCode != nil {
		store.PostalCode = req.PostalCode
	}
	if req.Timezone != nil {
		store.Timezone = *req.Timezone
	}
	if req.SortOrder != nil {
		store.SortOrder = *req.SortOrder
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	resp := toStoreResponse(store)
	return &resp, nil
}

// Deactivate soft-deletes a store. Grants pointing at it stay in place so a
// reactivation restores access without a re-sync.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if store.Status == enums.StoreStatusInactive {
		return nil
	}
	store.Status = enums.StoreStatusInactive
	return s.repo.Update(ctx, store)
}
