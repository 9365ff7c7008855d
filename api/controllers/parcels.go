package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zapshift/parcel-backend/api/middleware"
	"github.com/zapshift/parcel-backend/api/responses"
	"github.com/zapshift/parcel-backend/api/validators"
	parcelsvc "github.com/zapshift/parcel-backend/internal/parcels"
	trackingsvc "github.com/zapshift/parcel-backend/internal/tracking"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
	"github.com/zapshift/parcel-backend/pkg/logger"
)

// ParcelCreate books a new parcel for the authenticated sender.
func ParcelCreate(svc parcelsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		email := middleware.EmailFromContext(r.Context())
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var payload parcelsvc.CreateParcelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parcel, err := svc.Create(r.Context(), payload, email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, parcel)
	}
}

// ParcelList returns parcels booked by a creator, newest first. The email
// query narrows to another creator; without it the caller sees their own.
func ParcelList(svc parcelsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		createdBy := strings.TrimSpace(r.URL.Query().Get("email"))
		if createdBy == "" {
			createdBy = middleware.EmailFromContext(r.Context())
		}
		if createdBy == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		parcels, err := svc.List(r.Context(), createdBy)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, parcels)
	}
}

// ParcelUnassigned returns the paid, not yet collected assignment queue.
func ParcelUnassigned(svc parcelsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		parcels, err := svc.ListUnassigned(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, parcels)
	}
}

// ParcelGet returns a single parcel record.
func ParcelGet(svc parcelsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		parcel, err := svc.Get(r.Context(), chi.URLParam(r, "parcelId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, parcel)
	}
}

// ParcelDelete removes a booking.
func ParcelDelete(svc parcelsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "parcelId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ParcelAssignRider dispatches an approved rider onto a paid parcel.
func ParcelAssignRider(svc parcelsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		var payload parcelsvc.AssignRiderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.EmailFromContext(r.Context())
		if err := svc.AssignRider(r.Context(), chi.URLParam(r, "parcelId"), payload.RiderID, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "assigned"})
	}
}

// ParcelTracking returns a parcel's event feed, oldest first.
func ParcelTracking(svc trackingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		events, err := svc.ListForParcel(r.Context(), chi.URLParam(r, "parcelId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, events)
	}
}

// RiderParcels lists the in-transit parcels assigned to the calling rider.
func RiderParcels(svc parcelsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		email := middleware.EmailFromContext(r.Context())
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		parcels, err := svc.ListAssignedForRider(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, parcels)
	}
}
