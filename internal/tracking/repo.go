package tracking

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zapshift/parcel-backend/pkg/db/models"
)

// EventRepository is implemented by the GORM repository and by test stubs.
type EventRepository interface {
	Append(ctx context.Context, event *models.TrackingEvent) error
	ListForParcel(ctx context.Context, parcelID uuid.UUID) ([]models.TrackingEvent, error)
	WithTx(tx *gorm.DB) EventRepository
}

// Repository persists the append-only tracking feed.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a tracking repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the supplied transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) EventRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Append writes one feed entry. Events are never updated or deleted.
func (r *Repository) Append(ctx context.Context, event *models.TrackingEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListForParcel returns a parcel's feed, oldest first.
func (r *Repository) ListForParcel(ctx context.Context, parcelID uuid.UUID) ([]models.TrackingEvent, error) {
	var rows []models.TrackingEvent
	err := r.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
