package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/storeops-app/admin-backend/api/responses"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
	"github.com/storeops-app/admin-backend/pkg/logger"
)

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness and readiness probes. Readiness checks
// the database and redis; the identity platform is excluded so a platform
// blip does not eject the service from the load balancer.
type HealthController struct {
	db    Pinger
	redis Pinger
	logg  *logger.Logger
}

func NewHealthController(db, redis Pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: db, redis: redis, logg: logg}
}

func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(r.Context(), w, map[string]string{"status": "ok"})
}

func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if c.db != nil {
		if err := c.db.Ping(ctx); err != nil {
			checks["database"] = "unreachable"
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}
	if c.redis != nil {
		if err := c.redis.Ping(ctx); err != nil {
			checks["redis"] = "unreachable"
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	if !healthy {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.New(pkgerrors.CodeDependency, "service not ready").WithDetails(checks))
		return
	}
	responses.WriteSuccess(r.Context(), w, checks)
}
