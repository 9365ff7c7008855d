package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapshift/parcel-backend/api/controllers"
	"github.com/zapshift/parcel-backend/api/middleware"
	authsvc "github.com/zapshift/parcel-backend/internal/auth"
	parcelsvc "github.com/zapshift/parcel-backend/internal/parcels"
	paymentsvc "github.com/zapshift/parcel-backend/internal/payments"
	ridersvc "github.com/zapshift/parcel-backend/internal/riders"
	trackingsvc "github.com/zapshift/parcel-backend/internal/tracking"
	userssvc "github.com/zapshift/parcel-backend/internal/users"
	"github.com/zapshift/parcel-backend/pkg/config"
	"github.com/zapshift/parcel-backend/pkg/db"
	"github.com/zapshift/parcel-backend/pkg/logger"
	"github.com/zapshift/parcel-backend/pkg/redis"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DBPinger    db.Pinger
	RedisPinger redis.Pinger
	Idempotency redis.IdempotencyStore
	Auth        authsvc.Service
	Users       userssvc.Service
	Parcels     parcelsvc.Service
	Riders      ridersvc.Service
	Payments    paymentsvc.Service
	Tracking    trackingsvc.Service
}

// NewRouter builds the full HTTP surface. The users service doubles as the
// role lookup for the admin and rider gates so authorization always reads
// the stored role, never the token claim.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.Idempotency(deps.Idempotency, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
		})

		r.Post("/users", controllers.UserUpsert(deps.Users, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(deps.Idempotency, logg))

			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequireAdmin(deps.Users, logg)).Get("/search", controllers.UserSearch(deps.Users, logg))
				r.Get("/{email}/role", controllers.UserRole(deps.Users, logg))
			})

			r.Route("/parcels", func(r chi.Router) {
				r.Post("/", controllers.ParcelCreate(deps.Parcels, logg))
				r.Get("/", controllers.ParcelList(deps.Parcels, logg))
				r.With(middleware.RequireAdmin(deps.Users, logg)).Get("/unassigned", controllers.ParcelUnassigned(deps.Parcels, logg))
				r.Get("/{parcelId}", controllers.ParcelGet(deps.Parcels, logg))
				r.Delete("/{parcelId}", controllers.ParcelDelete(deps.Parcels, logg))
				r.With(middleware.RequireAdmin(deps.Users, logg)).Post("/{parcelId}/assign-rider", controllers.ParcelAssignRider(deps.Parcels, logg))
				r.Get("/{parcelId}/tracking", controllers.ParcelTracking(deps.Tracking, logg))
			})

			r.Route("/riders", func(r chi.Router) {
				r.Post("/", controllers.RiderApply(deps.Riders, logg))
				r.With(middleware.RequireAdmin(deps.Users, logg)).Get("/pending", controllers.RidersPending(deps.Riders, logg))
				r.With(middleware.RequireAdmin(deps.Users, logg)).Get("/active", controllers.RidersActive(deps.Riders, logg))
				r.With(middleware.RequireAdmin(deps.Users, logg)).Patch("/{riderId}/status", controllers.RiderSetStatus(deps.Riders, logg))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/create-intent", controllers.PaymentCreateIntent(deps.Payments, logg))
				r.Post("/", controllers.PaymentRecord(deps.Payments, logg))
				r.Get("/", controllers.PaymentList(deps.Payments, deps.Users, logg))
			})

			r.With(middleware.RequireRider(deps.Users, logg)).
				Get("/rider/parcels", controllers.RiderParcels(deps.Parcels, logg))
		})
	})

	return r
}
