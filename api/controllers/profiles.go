package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/api/responses"
	"github.com/storeops-app/admin-backend/api/validators"
	"github.com/storeops-app/admin-backend/internal/profiles"
	"github.com/storeops-app/admin-backend/pkg/logger"
	"github.com/storeops-app/admin-backend/pkg/pagination"
)

// ProfileService is the profile operation surface the controller consumes.
type ProfileService interface {
	List(ctx context.Context, params pagination.Params) (*profiles.ProfileListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*profiles.ProfileResponse, error)
	Edit(ctx context.Context, id uuid.UUID, req profiles.UpdateProfileRequest) (*profiles.ProfileResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfilesController handles the /profiles routes.
type ProfilesController struct {
	service ProfileService
	logg    *logger.Logger
}

func NewProfilesController(service ProfileService, logg *logger.Logger) *ProfilesController {
	return &ProfilesController{service: service, logg: logg}
}

func (c *ProfilesController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	resp, err := c.service.List(ctx, pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(ctx, w, resp)
}

func (c *ProfilesController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuidParam(r, "profileID")
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

func (c *ProfilesController) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuidParam(r, "profileID")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var req profiles.UpdateProfileRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	resp, err := c.service.Edit(ctx, id, req)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(ctx, w, resp)
}

func (c *ProfilesController) Deactivate(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.service.Deactivate, "deactivated")
}

func (c *ProfilesController) Reactivate(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.service.Reactivate, "reactivated")
}

func (c *ProfilesController) Delete(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.service.Delete, "deleted")
}

func (c *ProfilesController) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, uuid.UUID) error,
	result string,
) {
	ctx := r.Context()

	id, err := uuidParam(r, "profileID")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	if err := op(ctx, id); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(ctx, w, map[string]string{"id": id.String(), "result": result})
}
