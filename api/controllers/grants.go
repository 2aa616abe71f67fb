package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/api/middleware"
	"github.com/storeops-app/admin-backend/api/responses"
	"github.com/storeops-app/admin-backend/api/validators"
	"github.com/storeops-app/admin-backend/internal/grants"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
	"github.com/storeops-app/admin-backend/pkg/logger"
)

// GrantService is the grant operation surface the controller consumes.
type GrantService interface {
	ListByUser(ctx context.Context, userID uuid.UUID) (*grants.GrantListResponse, error)
	Sync(ctx context.Context, userID, assignedBy uuid.UUID, req grants.SyncGrantsRequest) (*grants.SyncResult, error)
}

// GrantsController handles the per-profile grant routes.
type GrantsController struct {
	service GrantService
	logg    *logger.Logger
}

func NewGrantsController(service GrantService, logg *logger.Logger) *GrantsController {
	return &GrantsController{service: service, logg: logg}
}

func (c *GrantsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := uuidParam(r, "profileID")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	resp, err := c.service.ListByUser(ctx, userID)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(ctx, w, resp)
}

// Sync replaces the user's grant set with the request's target set. The
// acting admin from the auth context is stamped as assigned_by on additions.
func (c *GrantsController) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := uuidParam(r, "profileID")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	assignedBy, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "missing caller identity"))
		return
	}

	var req grants.SyncGrantsRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	resp, err := c.service.Sync(ctx, userID, assignedBy, req)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(ctx, w, resp)
}
