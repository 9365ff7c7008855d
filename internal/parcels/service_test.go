package parcels

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zapshift/parcel-backend/internal/riders"
	"github.com/zapshift/parcel-backend/internal/tracking"
	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
)

func completeRequest() CreateParcelRequest {
	return CreateParcelRequest{
		Type:                "document",
		Title:               "Contract papers",
		SenderName:          "Sender",
		SenderContact:       "0100000000",
		SenderRegion:        "Dhaka",
		SenderCenter:        "Dhaka Hub",
		SenderAddress:       "1 Sender St",
		ReceiverName:        "Receiver",
		ReceiverContact:     "0200000000",
		ReceiverRegion:      "Chattogram",
		ReceiverCenter:      "Chattogram Hub",
		ReceiverAddress:     "2 Receiver Rd",
		PickupInstruction:   "call first",
		DeliveryInstruction: "leave at desk",
		Cost:                decimal.NewFromInt(120),
	}
}

func buildParcelService(t *testing.T, repo *stubParcelRepo, riderRepo *stubRiderRepo, events *stubEventRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		RiderRepo: riderRepo,
		EventRepo: events,
		TxRunner:  stubTxRunner{},
	})
	require.NoError(t, err)
	return svc
}

func TestServiceCreateNamesEveryMissingField(t *testing.T) {
	svc := buildParcelService(t, &stubParcelRepo{}, &stubRiderRepo{}, &stubEventRepo{})

	req := completeRequest()
	req.ReceiverAddress = ""
	req.Cost = decimal.Zero

	_, err := svc.Create(context.Background(), req, "a@x.com")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Len(t, details, 2)
	assert.Contains(t, details, "receiverAddress")
	assert.Contains(t, details, "cost")
}

func TestServiceCreateStampsFreshParcel(t *testing.T) {
	repo := &stubParcelRepo{}
	events := &stubEventRepo{}
	svc := buildParcelService(t, repo, &stubRiderRepo{}, events)

	dto, err := svc.Create(context.Background(), completeRequest(), "A@X.com")
	require.NoError(t, err)

	assert.Equal(t, enums.DeliveryStatusNotCollected, dto.DeliveryStatus)
	assert.Equal(t, enums.PaymentStatusUnpaid, dto.PaymentStatus)
	assert.Nil(t, dto.AssignedRiderID)
	assert.Equal(t, "a@x.com", dto.CreatedBy)
	assert.NotZero(t, dto.CreationUnixMS)

	require.Len(t, events.appended, 1)
	assert.Equal(t, enums.TrackingEventParcelCreated, events.appended[0].EventType)
}

func TestServiceAssignRiderRequiresApprovedRider(t *testing.T) {
	riderRepo := &stubRiderRepo{
		rider: &models.Rider{ID: uuid.New(), Status: enums.RiderStatusPending},
	}
	svc := buildParcelService(t, &stubParcelRepo{}, riderRepo, &stubEventRepo{})

	err := svc.AssignRider(context.Background(), uuid.NewString(), riderRepo.rider.ID.String(), "admin@x.com")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceAssignRiderRequiresRiderID(t *testing.T) {
	svc := buildParcelService(t, &stubParcelRepo{}, &stubRiderRepo{}, &stubEventRepo{})

	err := svc.AssignRider(context.Background(), uuid.NewString(), "", "admin@x.com")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceAssignRiderConflictsWhenAlreadyAssigned(t *testing.T) {
	riderID := uuid.New()
	parcelID := uuid.New()
	repo := &stubParcelRepo{
		parcel:       &models.Parcel{ID: parcelID, DeliveryStatus: enums.DeliveryStatusInTransit},
		assignedRows: 0,
	}
	riderRepo := &stubRiderRepo{
		rider: &models.Rider{ID: riderID, Status: enums.RiderStatusApproved},
	}
	svc := buildParcelService(t, repo, riderRepo, &stubEventRepo{})

	err := svc.AssignRider(context.Background(), parcelID.String(), riderID.String(), "admin@x.com")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Empty(t, riderRepo.workStatusSet, "rider must stay untouched on conflict")
}

func TestServiceAssignRiderHappyPath(t *testing.T) {
	riderID := uuid.New()
	parcelID := uuid.New()
	repo := &stubParcelRepo{
		parcel:       &models.Parcel{ID: parcelID, DeliveryStatus: enums.DeliveryStatusNotCollected},
		assignedRows: 1,
	}
	riderRepo := &stubRiderRepo{
		rider: &models.Rider{ID: riderID, Status: enums.RiderStatusApproved},
	}
	events := &stubEventRepo{}
	svc := buildParcelService(t, repo, riderRepo, events)

	err := svc.AssignRider(context.Background(), parcelID.String(), riderID.String(), "admin@x.com")
	require.NoError(t, err)

	require.Len(t, riderRepo.workStatusSet, 1)
	assert.Equal(t, enums.RiderWorkStatusInDelivery, riderRepo.workStatusSet[riderID])
	require.Len(t, events.appended, 1)
	assert.Equal(t, enums.TrackingEventRiderAssigned, events.appended[0].EventType)
}

func TestServiceGetRejectsMalformedID(t *testing.T) {
	svc := buildParcelService(t, &stubParcelRepo{}, &stubRiderRepo{}, &stubEventRepo{})

	_, err := svc.Get(context.Background(), "not-a-uuid")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubParcelRepo struct {
	parcel       *models.Parcel
	created      *models.Parcel
	assignedRows int64
}

func (s *stubParcelRepo) Create(_ context.Context, parcel *models.Parcel) (*models.Parcel, error) {
	s.created = parcel
	return parcel, nil
}

func (s *stubParcelRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Parcel, error) {
	if s.parcel == nil || s.parcel.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.parcel, nil
}

func (s *stubParcelRepo) List(_ context.Context, _ string) ([]models.Parcel, error) {
	if s.parcel == nil {
		return nil, nil
	}
	return []models.Parcel{*s.parcel}, nil
}

func (s *stubParcelRepo) ListUnassigned(_ context.Context) ([]models.Parcel, error) {
	return nil, nil
}

func (s *stubParcelRepo) ListAssignedToRider(_ context.Context, _ uuid.UUID) ([]models.Parcel, error) {
	return nil, nil
}

func (s *stubParcelRepo) Delete(_ context.Context, _ uuid.UUID) (int64, error) {
	return 1, nil
}

func (s *stubParcelRepo) MarkAssigned(_ context.Context, _, _ uuid.UUID, _ time.Time) (int64, error) {
	return s.assignedRows, nil
}

func (s *stubParcelRepo) MarkPaid(_ context.Context, _, _ uuid.UUID, _ time.Time) (int64, error) {
	return 0, nil
}

func (s *stubParcelRepo) WithTx(_ *gorm.DB) ParcelRepository {
	return s
}

type stubRiderRepo struct {
	rider         *models.Rider
	workStatusSet map[uuid.UUID]enums.RiderWorkStatus
}

func (s *stubRiderRepo) Create(_ context.Context, rider *models.Rider) (*models.Rider, error) {
	return rider, nil
}

func (s *stubRiderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Rider, error) {
	if s.rider == nil || s.rider.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.rider, nil
}

func (s *stubRiderRepo) FindApprovedByEmail(_ context.Context, email string) (*models.Rider, error) {
	if s.rider == nil || s.rider.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.rider, nil
}

func (s *stubRiderRepo) ListByStatus(_ context.Context, _ enums.RiderStatus, _ string) ([]models.Rider, error) {
	return nil, nil
}

func (s *stubRiderRepo) UpdateStatusIfPending(_ context.Context, _ uuid.UUID, _ enums.RiderStatus) (int64, error) {
	return 0, nil
}

func (s *stubRiderRepo) SetWorkStatus(_ context.Context, id uuid.UUID, status enums.RiderWorkStatus) error {
	if s.workStatusSet == nil {
		s.workStatusSet = map[uuid.UUID]enums.RiderWorkStatus{}
	}
	s.workStatusSet[id] = status
	return nil
}

func (s *stubRiderRepo) WithTx(_ *gorm.DB) riders.RiderRepository {
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
