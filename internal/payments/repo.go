package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/zapshift/parcel-backend/pkg/db/models"
)

// PaymentRepository is implemented by the GORM repository and by test stubs.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	List(ctx context.Context, createdBy string) ([]models.Payment, error)
	WithTx(tx *gorm.DB) PaymentRepository
}

// Repository persists write-once payment records.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payment repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the supplied transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) PaymentRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a payment row. Payments are immutable once written.
func (r *Repository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// List returns payments newest first, optionally filtered by creator email.
func (r *Repository) List(ctx context.Context, createdBy string) ([]models.Payment, error) {
	query := r.db.WithContext(ctx).Model(&models.Payment{}).Order("created_at DESC")
	if createdBy != "" {
		query = query.Where("created_by = ?", createdBy)
	}
	var rows []models.Payment
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
