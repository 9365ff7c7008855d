package riders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
)

// RiderRepository is implemented by the GORM repository and by test stubs.
type RiderRepository interface {
	Create(ctx context.Context, rider *models.Rider) (*models.Rider, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Rider, error)
	FindApprovedByEmail(ctx context.Context, email string) (*models.Rider, error)
	ListByStatus(ctx context.Context, status enums.RiderStatus, region string) ([]models.Rider, error)
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status enums.RiderStatus) (int64, error)
	SetWorkStatus(ctx context.Context, id uuid.UUID, workStatus enums.RiderWorkStatus) error
	WithTx(tx *gorm.DB) RiderRepository
}

// Repository persists riders through GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a rider repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the supplied transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) RiderRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new rider application.
func (r *Repository) Create(ctx context.Context, rider *models.Rider) (*models.Rider, error) {
	if err := r.db.WithContext(ctx).Create(rider).Error; err != nil {
		return nil, err
	}
	return rider, nil
}

// FindByID loads a rider by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Rider, error) {
	var rider models.Rider
	if err := r.db.WithContext(ctx).First(&rider, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rider, nil
}

// FindApprovedByEmail resolves the approved rider account for an email.
func (r *Repository) FindApprovedByEmail(ctx context.Context, email string) (*models.Rider, error) {
	var rider models.Rider
	err := r.db.WithContext(ctx).
		Where("email = ? AND status = ?", email, enums.RiderStatusApproved).
		First(&rider).Error
	if err != nil {
		return nil, err
	}
	return &rider, nil
}

// ListByStatus returns riders in the given status, newest first, optionally
// narrowed to a region.
func (r *Repository) ListByStatus(ctx context.Context, status enums.RiderStatus, region string) ([]models.Rider, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC")
	if region != "" {
		query = query.Where("region = ?", region)
	}
	var rows []models.Rider
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatusIfPending finalizes a pending application. Approved and
// rejected are terminal, so the update is guarded on status = pending.
func (r *Repository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status enums.RiderStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ? AND status = ?", id, enums.RiderStatusPending).
		UpdateColumn("status", status)
	return result.RowsAffected, result.Error
}

// SetWorkStatus flips the rider's work status.
func (r *Repository) SetWorkStatus(ctx context.Context, id uuid.UUID, workStatus enums.RiderWorkStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ?", id).
		UpdateColumn("work_status", workStatus).Error
}
