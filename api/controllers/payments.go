package controllers

import (
	"net/http"
	"strings"

	"github.com/zapshift/parcel-backend/api/middleware"
	"github.com/zapshift/parcel-backend/api/responses"
	"github.com/zapshift/parcel-backend/api/validators"
	paymentsvc "github.com/zapshift/parcel-backend/internal/payments"
	"github.com/zapshift/parcel-backend/pkg/enums"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
	"github.com/zapshift/parcel-backend/pkg/logger"
)

// PaymentCreateIntent asks the gateway for a client secret.
func PaymentCreateIntent(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var payload paymentsvc.CreateIntentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		secret, err := svc.CreateIntent(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"clientSecret": secret})
	}
}

// PaymentRecord captures a settled payment and flips the parcel's paid gate.
func PaymentRecord(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		email := middleware.EmailFromContext(r.Context())
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var payload paymentsvc.RecordPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.Record(r.Context(), payload, email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

// PaymentList shows a creator's payment history, newest first. Viewing
// another creator's history needs the stored admin role, not the token claim.
func PaymentList(svc paymentsvc.Service, roles middleware.RoleLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		caller := middleware.EmailFromContext(r.Context())
		if caller == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		createdBy := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
		if createdBy == "" {
			createdBy = caller
		}
		if createdBy != caller {
			role, err := roles.RoleByEmail(r.Context(), caller)
			if err != nil || role != enums.UserRoleAdmin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}
		}

		payments, err := svc.List(r.Context(), createdBy)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, payments)
	}
}
