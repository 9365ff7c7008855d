package users

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
)

// Repository exposes user persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Search returns users whose email contains the given fragment, newest first.
func (r *Repository) Search(ctx context.Context, emailFragment string) ([]models.User, error) {
	var rows []models.User
	query := r.db.WithContext(ctx).Model(&models.User{}).Order("created_at DESC")
	if emailFragment != "" {
		query = query.Where("email LIKE ?", "%"+emailFragment+"%")
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, email string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		UpdateColumn("last_login_at", at).Error
}

// UpdateRoleByEmail rewrites the stored role projection for the given email.
// Returns the number of rows touched so callers can detect a missing user.
func (r *Repository) UpdateRoleByEmail(ctx context.Context, email string, role enums.UserRole) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		UpdateColumn("role", role)
	return result.RowsAffected, result.Error
}

// WithTx rebinds the repository to the supplied transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}
