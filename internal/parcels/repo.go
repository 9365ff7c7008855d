package parcels

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
)

// ParcelRepository is implemented by the GORM repository and by test stubs.
type ParcelRepository interface {
	Create(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Parcel, error)
	List(ctx context.Context, createdBy string) ([]models.Parcel, error)
	ListUnassigned(ctx context.Context) ([]models.Parcel, error)
	ListAssignedToRider(ctx context.Context, riderID uuid.UUID) ([]models.Parcel, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	MarkAssigned(ctx context.Context, parcelID, riderID uuid.UUID, at time.Time) (int64, error)
	MarkPaid(ctx context.Context, parcelID, paymentID uuid.UUID, at time.Time) (int64, error)
	WithTx(tx *gorm.DB) ParcelRepository
}

// Repository persists parcels through GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a parcel repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the supplied transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) ParcelRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new parcel row.
func (r *Repository) Create(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error) {
	if err := r.db.WithContext(ctx).Create(parcel).Error; err != nil {
		return nil, err
	}
	return parcel, nil
}

// FindByID loads a parcel by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Parcel, error) {
	var parcel models.Parcel
	if err := r.db.WithContext(ctx).First(&parcel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &parcel, nil
}

// List returns parcels newest first, optionally filtered by creator email.
func (r *Repository) List(ctx context.Context, createdBy string) ([]models.Parcel, error) {
	query := r.db.WithContext(ctx).Model(&models.Parcel{}).Order("created_at_unix_ms DESC")
	if createdBy != "" {
		query = query.Where("created_by = ?", createdBy)
	}
	var rows []models.Parcel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListUnassigned returns the assignment queue: paid parcels nobody has
// collected yet, newest first.
func (r *Repository) ListUnassigned(ctx context.Context) ([]models.Parcel, error) {
	var rows []models.Parcel
	err := r.db.WithContext(ctx).
		Where("delivery_status = ? AND payment_status = ?", enums.DeliveryStatusNotCollected, enums.PaymentStatusPaid).
		Order("created_at_unix_ms DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAssignedToRider returns the rider's in-transit parcels, newest first.
func (r *Repository) ListAssignedToRider(ctx context.Context, riderID uuid.UUID) ([]models.Parcel, error) {
	var rows []models.Parcel
	err := r.db.WithContext(ctx).
		Where("assigned_rider_id = ? AND delivery_status = ?", riderID, enums.DeliveryStatusInTransit).
		Order("created_at_unix_ms DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the parcel unconditionally. Payments referencing it are kept.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Parcel{})
	return result.RowsAffected, result.Error
}

// MarkAssigned binds the rider and flips the parcel to in_transit. The update
// is guarded on delivery_status so a second assignment matches zero rows.
func (r *Repository) MarkAssigned(ctx context.Context, parcelID, riderID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ? AND delivery_status = ?", parcelID, enums.DeliveryStatusNotCollected).
		Updates(map[string]any{
			"assigned_rider_id": riderID,
			"delivery_status":   enums.DeliveryStatusInTransit,
			"assigned_at":       at,
		})
	return result.RowsAffected, result.Error
}

// MarkPaid flips the payment gate exactly once: guarded on payment_status so
// a double capture matches zero rows.
func (r *Repository) MarkPaid(ctx context.Context, parcelID, paymentID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ? AND payment_status = ?", parcelID, enums.PaymentStatusUnpaid).
		Updates(map[string]any{
			"payment_status": enums.PaymentStatusPaid,
			"payment_id":     paymentID,
			"paid_at":        at,
		})
	return result.RowsAffected, result.Error
}
