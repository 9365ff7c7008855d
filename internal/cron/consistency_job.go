package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/logger"
)

// consistencyRepo surfaces records whose cross-table state disagrees.
type consistencyRepo interface {
	StalledAssignments(ctx context.Context) ([]models.Parcel, error)
	PaymentsOnUnpaidParcels(ctx context.Context) ([]models.Payment, error)
}

// ConsistencyJobParams configure the consistency sweep.
type ConsistencyJobParams struct {
	Logger     *logger.Logger
	Repository consistencyRepo
}

// NewConsistencyJob builds the sweep that audits parcel, rider, and payment
// state against each other. It only reports; repairs stay manual.
func NewConsistencyJob(params ConsistencyJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("consistency repository required")
	}
	return &consistencyJob{
		logg: params.Logger,
		repo: params.Repository,
	}, nil
}

type consistencyJob struct {
	logg *logger.Logger
	repo consistencyRepo
}

func (j *consistencyJob) Name() string { return "consistency-sweep" }

func (j *consistencyJob) Run(ctx context.Context) error {
	var errs error

	stalled, err := j.repo.StalledAssignments(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("stalled assignments: %w", err))
	} else {
		for _, parcel := range stalled {
			logCtx := j.logg.WithFields(ctx, map[string]any{
				"parcel_id":       parcel.ID.String(),
				"delivery_status": parcel.DeliveryStatus,
			})
			j.logg.Warn(logCtx, "parcel in transit but its rider is not in delivery")
		}
	}

	orphaned, err := j.repo.PaymentsOnUnpaidParcels(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("payments on unpaid parcels: %w", err))
	} else {
		for _, payment := range orphaned {
			logCtx := j.logg.WithFields(ctx, map[string]any{
				"payment_id": payment.ID.String(),
				"parcel_id":  payment.ParcelID.String(),
			})
			j.logg.Warn(logCtx, "payment recorded but parcel still reads unpaid")
		}
	}

	if errs != nil {
		return errs
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"stalled_assignments": len(stalled),
		"orphaned_payments":   len(orphaned),
	})
	j.logg.Info(logCtx, "consistency sweep complete")
	return nil
}
