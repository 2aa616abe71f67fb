package controllers

import (
	"context"
	"net/http"

	"github.com/storeops-app/admin-backend/api/responses"
	"github.com/storeops-app/admin-backend/api/validators"
	"github.com/storeops-app/admin-backend/internal/provisioning"
	"github.com/storeops-app/admin-backend/pkg/logger"
)

// Provisioner executes a validated provisioning request.
type Provisioner interface {
	Provision(ctx context.Context, req provisioning.ProvisioningRequest) (*provisioning.ProvisioningResponse, error)
}

// ProvisioningController handles POST /provision.
type ProvisioningController struct {
	service Provisioner
	logg    *logger.Logger
}

func NewProvisioningController(service Provisioner, logg *logger.Logger) *ProvisioningController {
	return &ProvisioningController{service: service, logg: logg}
}

func (c *ProvisioningController) Provision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req provisioning.ProvisioningRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	resp, err := c.service.Provision(ctx, req)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(ctx, w, resp)
}
