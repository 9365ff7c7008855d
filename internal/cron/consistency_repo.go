package cron

import (
	"context"

	"gorm.io/gorm"

	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
)

// ConsistencyRepository runs the cross-table audit queries for the sweep.
type ConsistencyRepository struct {
	db *gorm.DB
}

// NewConsistencyRepository constructs the audit repository.
func NewConsistencyRepository(db *gorm.DB) *ConsistencyRepository {
	return &ConsistencyRepository{db: db}
}

// StalledAssignments returns in-transit parcels whose assigned rider is
// missing or no longer marked in delivery.
func (r *ConsistencyRepository) StalledAssignments(ctx context.Context) ([]models.Parcel, error) {
	var rows []models.Parcel
	err := r.db.WithContext(ctx).
		Joins("LEFT JOIN riders ON riders.id = parcels.assigned_rider_id").
		Where("parcels.delivery_status = ?", enums.DeliveryStatusInTransit).
		Where("riders.id IS NULL OR riders.work_status <> ?", enums.RiderWorkStatusInDelivery).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PaymentsOnUnpaidParcels returns payments whose parcel still reads unpaid.
func (r *ConsistencyRepository) PaymentsOnUnpaidParcels(ctx context.Context) ([]models.Payment, error) {
	var rows []models.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN parcels ON parcels.id = payments.parcel_id").
		Where("parcels.payment_status = ?", enums.PaymentStatusUnpaid).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
