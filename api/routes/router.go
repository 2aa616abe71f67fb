package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storeops-app/admin-backend/api/controllers"
	"github.com/storeops-app/admin-backend/api/middleware"
	"github.com/storeops-app/admin-backend/api/responses"
	"github.com/storeops-app/admin-backend/pkg/config"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
	"github.com/storeops-app/admin-backend/pkg/logger"
	"github.com/storeops-app/admin-backend/pkg/redis"
)

// Dependencies bundles everything the router wires together.
type Dependencies struct {
	Logger       *logger.Logger
	JWT          config.JWTConfig
	Profiles     middleware.ProfileFinder
	Idempotency  redis.IdempotencyStore
	Health       *controllers.HealthController
	Provisioning *controllers.ProvisioningController
	ProfilesCtrl *controllers.ProfilesController
	StoresCtrl   *controllers.StoresController
	GrantsCtrl   *controllers.GrantsController
}

// New assembles the full route tree. Everything under /api/admin/v1 requires
// a valid bearer token and an active admin profile.
func New(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.CorrelationID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.CORS())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), deps.Logger, w,
			pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), deps.Logger, w,
			pkgerrors.New(pkgerrors.CodeMethodNotAllowed, "method not allowed"))
	})

	r.Get("/health/live", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.JWT, deps.Logger))
		r.Use(middleware.AdminOnly(deps.Profiles, deps.Logger))

		r.With(middleware.Idempotency(deps.Idempotency, deps.Logger)).
			Post("/provision", deps.Provisioning.Provision)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", deps.ProfilesCtrl.List)
			r.Route("/{profileID}", func(r chi.Router) {
				r.Get("/", deps.ProfilesCtrl.Get)
				r.Patch("/", deps.ProfilesCtrl.Edit)
				r.Delete("/", deps.ProfilesCtrl.Delete)
				r.Post("/deactivate", deps.ProfilesCtrl.Deactivate)
				r.Post("/reactivate", deps.ProfilesCtrl.Reactivate)
				r.Get("/grants", deps.GrantsCtrl.List)
				r.Put("/grants", deps.GrantsCtrl.Sync)
			})
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", deps.StoresCtrl.List)
			r.Post("/", deps.StoresCtrl.Create)
			r.Route("/{storeID}", func(r chi.Router) {
				r.Get("/", deps.StoresCtrl.Get)
				r.Patch("/", deps.StoresCtrl.Update)
				r.Post("/deactivate", deps.StoresCtrl.Deactivate)
			})
		})
	})

	return r
}
