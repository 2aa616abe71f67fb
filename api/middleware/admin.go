package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/storeops-app/admin-backend/api/responses"
	"github.com/storeops-app/admin-backend/pkg/db/models"
	"github.com/storeops-app/admin-backend/pkg/enums"
	pkgerrors "github.com/storeops-app/admin-backend/pkg/errors"
	"github.com/storeops-app/admin-backend/pkg/logger"
)

// ProfileFinder resolves the caller's profile row for authorization checks.
type ProfileFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// AdminOnly rejects callers whose profile is missing, inactive, or not an
// admin. Authentication must have already populated the user id.
func AdminOnly(profiles ProfileFinder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			rawID := UserIDFromContext(ctx)
			if rawID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity"))
				return
			}

			userID, err := uuid.Parse(rawID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid caller identity"))
				return
			}

			profile, err := profiles.FindByID(ctx, userID)
			if err != nil {
				if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "authorization lookup failed"))
				return
			}

			if profile.Role != enums.UserRoleAdmin || profile.Status != enums.UserStatusActive {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}

			ctx = WithRole(ctx, profile.Role.String())
			if logg != nil {
				ctx = logg.WithActorRole(ctx, profile.Role.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
