package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zapshift/parcel-backend/api/responses"
	"github.com/zapshift/parcel-backend/api/validators"
	ridersvc "github.com/zapshift/parcel-backend/internal/riders"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
	"github.com/zapshift/parcel-backend/pkg/logger"
)

// RiderApply submits a rider application; it lands in pending.
func RiderApply(svc ridersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}

		var payload ridersvc.ApplyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rider, err := svc.Apply(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, rider)
	}
}

// RidersPending lists applications awaiting a decision.
func RidersPending(svc ridersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}

		riders, err := svc.ListPending(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, riders)
	}
}

// RidersActive lists approved riders, optionally narrowed by region.
func RidersActive(svc ridersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}

		region := strings.TrimSpace(r.URL.Query().Get("region"))
		riders, err := svc.ListActive(r.Context(), region)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, riders)
	}
}

// RiderSetStatus finalizes a pending application as approved or rejected.
func RiderSetStatus(svc ridersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}

		var payload ridersvc.SetStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetStatus(r.Context(), chi.URLParam(r, "riderId"), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": payload.Status})
	}
}
