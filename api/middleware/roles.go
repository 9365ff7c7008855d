package middleware

import (
	"context"
	"net/http"

	"github.com/zapshift/parcel-backend/api/responses"
	"github.com/zapshift/parcel-backend/pkg/enums"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
	"github.com/zapshift/parcel-backend/pkg/logger"
)

// RoleLookup resolves an actor's current role from the user store. The role
// claim inside the token is never trusted for privileged routes.
type RoleLookup interface {
	RoleByEmail(ctx context.Context, email string) (enums.UserRole, error)
}

func RequireRole(role enums.UserRole, lookup RoleLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := EmailFromContext(r.Context())
			if email == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			current, err := lookup.RoleByEmail(r.Context(), email)
			if err != nil {
				if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve role"))
				return
			}
			if current != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxRole, string(current))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAdmin(lookup RoleLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireRole(enums.UserRoleAdmin, lookup, logg)
}

func RequireRider(lookup RoleLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireRole(enums.UserRoleRider, lookup, logg)
}
