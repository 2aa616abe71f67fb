package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/pkg/db/models"
	"github.com/storeops-app/admin-backend/pkg/enums"
)

// CreateStoreRequest is the payload for registering a retail location.
type CreateStoreRequest struct {
	AceStoreNumber string  `json:"aceStoreNumber" validate:"required,min=1,max=32"`
	POSStoreNumber string  `json:"posStoreNumber" validate:"required,min=1,max=32"`
	StoreName      string  `json:"storeName" validate:"required,min=1,max=200"`
	AddressLine1   *string `json:"addressLine1,omitempty" validate:"omitempty,max=200"`
	AddressLine2   *string `json:"addressLine2,omitempty" validate:"omitempty,max=200"`
	City           *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State          *string `json:"state,omitempty" validate:"omitempty,max=50"`
	PostalCode     *string `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Timezone       *string `json:"timezone,omitempty" validate:"omitempty,max=64"`
	SortOrder      *int    `json:"sortOrder,omitempty" validate:"omitempty,min=0"`
}

// UpdateStoreRequest carries the editable store fields.
type UpdateStoreRequest struct {
	AceStoreNumber *string `json:"aceStoreNumber,omitempty" validate:"omitempty,min=1,max=32"`
	POSStoreNumber *string `json:"posStoreNumber,omitempty" validate:"omitempty,min=1,max=32"`
	StoreName      *string `json:"storeName,omitempty" validate:"omitempty,min=1,max=200"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	AddressLine1   *string `json:"addressLine1,omitempty" validate:"omitempty,max=200"`
	AddressLine2   *string `json:"addressLine2,omitempty" validate:"omitempty,max=200"`
	City           *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State          *string `json:"state,omitempty" validate:"omitempty,max=50"`
	PostalCode     *string `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Timezone       *string `json:"timezone,omitempty" validate:"omitempty,max=64"`
	SortOrder      *int    `json:"sortOrder,omitempty" validate:"omitempty,min=0"`
}

// StoreResponse is the wire shape for one store.
type StoreResponse struct {
	ID             uuid.UUID `json:"id"`
	AceStoreNumber string    `json:"aceStoreNumber"`
	POSStoreNumber string    `json:"posStoreNumber"`
	StoreName      string    `json:"storeName"`
	Status         string    `json:"status"`
	AddressLine1   *string   `json:"addressLine1"`
	AddressLine2   *string   `json:"addressLine2"`
	City           *string   `json:"city"`
	State          *string   `json:"state"`
	PostalCode     *string   `json:"postalCode"`
	Timezone       string    `json:"timezone"`
	SortOrder      int       `json:"sortOrder"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// StoreListResponse wraps the full store listing, sort_order ascending.
type StoreListResponse struct {
	Stores []StoreResponse `json:"stores"`
}

func toStoreResponse(s *models.Store) StoreResponse {
	return StoreResponse{
		ID:             s.ID,
		AceStoreNumber: s.AceStoreNumber,
		POSStoreNumber: s.POSStoreNumber,
		StoreName:      s.StoreName,
		Status:         s.Status.String(),
		AddressLine1:   s.AddressLine1,
		AddressLine2:   s.AddressLine2,
		City:           s.City,
		State:          s.State,
		PostalCode:     s.PostalCode,
		Timezone:       s.Timezone,
		SortOrder:      s.SortOrder,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func fromCreateRequest(req CreateStoreRequest) models.Store {
	store := models.Store{
		AceStoreNumber: req.AceStoreNumber,
		POSStoreNumber: req.POSStoreNumber,
		StoreName:      req.StoreName,
		Status:         enums.StoreStatusActive,
		AddressLine1:   req.AddressLine1,
		AddressLine2:   req.AddressLine2,
		City:           req.City,
		State:          req.State,
		PostalCode:     req.PostalCode,
	}
	if req.Timezone != nil {
		store.Timezone = *req.Timezone
	}
	if req.SortOrder != nil {
		store.SortOrder = *req.SortOrder
	}
	return store
}
