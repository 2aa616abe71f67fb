package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/api/responses"
	"github.com/storeops-app/admin-backend/api/validators"
	"github.com/storeops-app/admin-backend/internal/stores"
	"github.com/storeops-app/admin-backend/pkg/logger"
)

// StoreService is the store operation surface the controller consumes.
type StoreService interface {
	List(ctx context.Context) (*stores.StoreListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*stores.StoreResponse, error)
	Create(ctx context.Context, req stores.CreateStoreRequest) (*stores.StoreResponse, error)
	Update(ctx context.Context, id uuid.UUID, req stores.UpdateStoreRequest) (*stores.StoreResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// StoresController handles the /stores routes.
type StoresController struct {
	service StoreService
	logg    *logger.Logger
}

func NewStoresController(service StoreService, logg *logger.Logger) *StoresController {
	return &StoresController{service: service, logg: logg}
}

func (c *StoresController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := c.service.List(ctx)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(ctx, w, resp)
}

func (c *StoresController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuidParam(r, "storeID")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	resp, err := c.service.Get(ctx, id)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(ctx, w, resp)
}

func (c *StoresController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req stores.CreateStoreRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	resp, err := c.service.Create(ctx, req)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(ctx, w, http.StatusCreated, resp)
}

func (c *StoresController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuidParam(r, "storeID")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var req stores.UpdateStoreRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	resp, err := c.service.Update(ctx, id, req)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(ctx, w, resp)
}

func (c *StoresController) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuidParam(r, "storeID")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	if err := c.service.Deactivate(ctx, id); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(ctx, w, map[string]string{"id": id.String(), "result": "deactivated"})
}
