package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zapshift/parcel-backend/internal/parcels"
	"github.com/zapshift/parcel-backend/internal/tracking"
	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// gateway is the opaque payment provider: amount in, client secret out.
type gateway interface {
	CreateIntent(ctx context.Context, amountCents int64) (string, error)
}

// Service records payment captures and flips the parcel payment gate.
type Service interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (string, error)
	Record(ctx context.Context, req RecordPaymentRequest, actorEmail string) (*PaymentDTO, error)
	List(ctx context.Context, createdBy string) ([]PaymentDTO, error)
}

type service struct {
	repo     PaymentRepository
	parcels  parcels.ParcelRepository
	tracking tracking.EventRepository
	gateway  gateway
	tx       txRunner
}

// ServiceParams bundles the dependencies required to build a payment service.
type ServiceParams struct {
	Repo       PaymentRepository
	ParcelRepo parcels.ParcelRepository
	EventRepo  tracking.EventRepository
	Gateway    gateway
	TxRunner   txRunner
}

// NewService constructs the payment recorder.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payment repository is required")
	}
	if params.ParcelRepo == nil {
		return nil, fmt.Errorf("parcel repository is required")
	}
	if params.EventRepo == nil {
		return nil, fmt.Errorf("tracking repository is required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		repo:     params.Repo,
		parcels:  params.ParcelRepo,
		tracking: params.EventRepo,
		gateway:  params.Gateway,
		tx:       params.TxRunner,
	}, nil
}

func (s *service) CreateIntent(ctx context.Context, req CreateIntentRequest) (string, error) {
	if req.AmountCents <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "amountCents must be positive")
	}
	secret, err := s.gateway.CreateIntent(ctx, req.AmountCents)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}
	return secret, nil
}

// Record inserts the immutable payment first, then flips the parcel gate with
// a guarded update inside the same transaction. A gate that was already paid
// rolls the payment back and reports a conflict, so double billing never
// leaves a second record.
func (s *service) Record(ctx context.Context, req RecordPaymentRequest, actorEmail string) (*PaymentDTO, error) {
	parcelID, err := uuid.Parse(strings.TrimSpace(req.ParcelID))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid parcel id")
	}
	if !req.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if strings.TrimSpace(req.Method) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "method is required")
	}

	parcel, err := s.parcels.FindByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup parcel")
	}
	if parcel.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "parcel already paid")
	}

	payment := &models.Payment{
		ID:        uuid.New(),
		ParcelID:  parcel.ID,
		CreatedBy: parcel.CreatedBy,
		Amount:    req.Amount,
		Method:    strings.TrimSpace(req.Method),
		Status:    enums.PaymentStatusPaid,
	}
	if txID := strings.TrimSpace(req.TransactionID); txID != "" {
		payment.TransactionID = &txID
	}

	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		paymentRepo := s.repo.WithTx(tx)
		parcelRepo := s.parcels.WithTx(tx)
		eventRepo := s.tracking.WithTx(tx)

		if _, err := paymentRepo.Create(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}

		rows, err := parcelRepo.MarkPaid(ctx, parcel.ID, payment.ID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark parcel paid")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "parcel already paid")
		}

		if err := eventRepo.Append(ctx, &models.TrackingEvent{
			ParcelID:   parcel.ID,
			EventType:  enums.TrackingEventPaymentRecorded,
			Message:    "payment recorded",
			ActorEmail: strings.ToLower(strings.TrimSpace(actorEmail)),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tracking event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(payment), nil
}

func (s *service) List(ctx context.Context, createdBy string) ([]PaymentDTO, error) {
	rows, err := s.repo.List(ctx, strings.ToLower(strings.TrimSpace(createdBy)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return FromModels(rows), nil
}
