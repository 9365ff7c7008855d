package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zapshift/parcel-backend/internal/parcels"
	"github.com/zapshift/parcel-backend/internal/tracking"
	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
)

func buildPaymentService(t *testing.T, repo *stubPaymentRepo, parcelRepo *stubParcelRepo, events *stubEventRepo, gw gateway) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:       repo,
		ParcelRepo: parcelRepo,
		EventRepo:  events,
		Gateway:    gw,
		TxRunner:   stubTxRunner{},
	})
	require.NoError(t, err)
	return svc
}

func TestServiceRecordRejectsMalformedParcelID(t *testing.T) {
	svc := buildPaymentService(t, &stubPaymentRepo{}, &stubParcelRepo{}, &stubEventRepo{}, stubGateway{})

	_, err := svc.Record(context.Background(), RecordPaymentRequest{
		ParcelID: "not-a-uuid",
		Amount:   decimal.NewFromInt(10),
		Method:   "card",
	}, "a@x.com")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceRecordNotFoundForMissingParcel(t *testing.T) {
	svc := buildPaymentService(t, &stubPaymentRepo{}, &stubParcelRepo{}, &stubEventRepo{}, stubGateway{})

	_, err := svc.Record(context.Background(), RecordPaymentRequest{
		ParcelID: uuid.NewString(),
		Amount:   decimal.NewFromInt(10),
		Method:   "card",
	}, "a@x.com")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceRecordConflictsOnAlreadyPaidParcel(t *testing.T) {
	parcelID := uuid.New()
	parcelRepo := &stubParcelRepo{
		parcel: &models.Parcel{
			ID:            parcelID,
			CreatedBy:     "a@x.com",
			PaymentStatus: enums.PaymentStatusPaid,
		},
	}
	repo := &stubPaymentRepo{}
	svc := buildPaymentService(t, repo, parcelRepo, &stubEventRepo{}, stubGateway{})

	_, err := svc.Record(context.Background(), RecordPaymentRequest{
		ParcelID: parcelID.String(),
		Amount:   decimal.NewFromInt(10),
		Method:   "card",
	}, "a@x.com")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Nil(t, repo.created, "no second payment record on double pay")
}

func TestServiceRecordConflictsWhenGateFlipsConcurrently(t *testing.T) {
	parcelID := uuid.New()
	parcelRepo := &stubParcelRepo{
		parcel: &models.Parcel{
			ID:            parcelID,
			CreatedBy:     "a@x.com",
			PaymentStatus: enums.PaymentStatusUnpaid,
		},
		paidRows: 0,
	}
	svc := buildPaymentService(t, &stubPaymentRepo{}, parcelRepo, &stubEventRepo{}, stubGateway{})

	_, err := svc.Record(context.Background(), RecordPaymentRequest{
		ParcelID: parcelID.String(),
		Amount:   decimal.NewFromInt(10),
		Method:   "card",
	}, "a@x.com")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceRecordWritesPaymentAndFlipsGate(t *testing.T) {
	parcelID := uuid.New()
	parcelRepo := &stubParcelRepo{
		parcel: &models.Parcel{
			ID:            parcelID,
			CreatedBy:     "a@x.com",
			PaymentStatus: enums.PaymentStatusUnpaid,
		},
		paidRows: 1,
	}
	repo := &stubPaymentRepo{}
	events := &stubEventRepo{}
	svc := buildPaymentService(t, repo, parcelRepo, events, stubGateway{})

	dto, err := svc.Record(context.Background(), RecordPaymentRequest{
		ParcelID:      parcelID.String(),
		Amount:        decimal.NewFromInt(10),
		Method:        "card",
		TransactionID: "tx_123",
	}, "a@x.com")
	require.NoError(t, err)

	require.NotNil(t, repo.created)
	assert.Equal(t, "a@x.com", repo.created.CreatedBy, "payment snapshots the parcel creator")
	assert.Equal(t, dto.ID, parcelRepo.paidWithPayment, "parcel back-references the new payment")
	require.Len(t, events.appended, 1)
	assert.Equal(t, enums.TrackingEventPaymentRecorded, events.appended[0].EventType)
}

func TestServiceCreateIntentDelegatesToGateway(t *testing.T) {
	svc := buildPaymentService(t, &stubPaymentRepo{}, &stubParcelRepo{}, &stubEventRepo{}, stubGateway{secret: "cs_test_123"})

	secret, err := svc.CreateIntent(context.Background(), CreateIntentRequest{AmountCents: 1200})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", secret)

	_, err = svc.CreateIntent(context.Background(), CreateIntentRequest{AmountCents: 0})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubGateway struct {
	secret string
	err    error
}

func (s stubGateway) CreateIntent(_ context.Context, _ int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.secret, nil
}

type stubPaymentRepo struct {
	created *models.Payment
	rows    []models.Payment
}

func (s *stubPaymentRepo) Create(_ context.Context, payment *models.Payment) (*models.Payment, error) {
	s.created = payment
	return payment, nil
}

func (s *stubPaymentRepo) List(_ context.Context, _ string) ([]models.Payment, error) {
	return s.rows, nil
}

func (s *stubPaymentRepo) WithTx(_ *gorm.DB) PaymentRepository {
	return s
}

type stubParcelRepo struct {
	parcel          *models.Parcel
	paidRows        int64
	paidWithPayment uuid.UUID
}

func (s *stubParcelRepo) Create(_ context.Context, parcel *models.Parcel) (*models.Parcel, error) {
	return parcel, nil
}

func (s *stubParcelRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Parcel, error) {
	if s.parcel == nil || s.parcel.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.parcel, nil
}

func (s *stubParcelRepo) List(_ context.Context, _ string) ([]models.Parcel, error) {
	return nil, nil
}

func (s *stubParcelRepo) ListUnassigned(_ context.Context) ([]models.Parcel, error) {
	return nil, nil
}

func (s *stubParcelRepo) ListAssignedToRider(_ context.Context, _ uuid.UUID) ([]models.Parcel, error) {
	return nil, nil
}

func (s *stubParcelRepo) Delete(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubParcelRepo) MarkAssigned(_ context.Context, _, _ uuid.UUID, _ time.Time) (int64, error) {
	return 0, nil
}

func (s *stubParcelRepo) MarkPaid(_ context.Context, _, paymentID uuid.UUID, _ time.Time) (int64, error) {
	if s.paidRows > 0 {
		s.paidWithPayment = paymentID
	}
	return s.paidRows, nil
}

func (s *stubParcelRepo) WithTx(_ *gorm.DB) parcels.ParcelRepository {
	return s
}

type stubEventRepo struct {
	appended []models.TrackingEvent
}

func (s *stubEventRepo) Append(_ context.Context, event *models.TrackingEvent) error {
	s.appended = append(s.appended, *event)
	return nil
}

func (s *stubEventRepo) ListForParcel(_ context.Context, _ uuid.UUID) ([]models.TrackingEvent, error) {
	return nil, nil
}

func (s *stubEventRepo) WithTx(_ *gorm.DB) tracking.EventRepository {
	return s
}
