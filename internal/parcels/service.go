package parcels

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zapshift/parcel-backend/internal/riders"
	"github.com/zapshift/parcel-backend/internal/tracking"
	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the parcel lifecycle: creation, listing, deletion, and the
// rider-assignment transaction.
type Service interface {
	Create(ctx context.Context, req CreateParcelRequest, createdBy string) (*ParcelDTO, error)
	List(ctx context.Context, createdBy string) ([]ParcelDTO, error)
	ListUnassigned(ctx context.Context) ([]ParcelDTO, error)
	Get(ctx context.Context, id string) (*ParcelDTO, error)
	Delete(ctx context.Context, id string) error
	AssignRider(ctx context.Context, parcelID, riderID, actorEmail string) error
	ListAssignedForRider(ctx context.Context, riderEmail string) ([]ParcelDTO, error)
}

type service struct {
	repo     ParcelRepository
	riders   riders.RiderRepository
	tracking tracking.EventRepository
	tx       txRunner
}

// ServiceParams bundles the dependencies required to build a parcel service.
type ServiceParams struct {
	Repo      ParcelRepository
	RiderRepo riders.RiderRepository
	EventRepo tracking.EventRepository
	TxRunner  txRunner
}

// NewService constructs the parcel lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("parcel repository is required")
	}
	if params.RiderRepo == nil {
		return nil, fmt.Errorf("rider repository is required")
	}
	if params.EventRepo == nil {
		return nil, fmt.Errorf("tracking repository is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		repo:     params.Repo,
		riders:   params.RiderRepo,
		tracking: params.EventRepo,
		tx:       params.TxRunner,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateParcelRequest, createdBy string) (*ParcelDTO, error) {
	createdBy = strings.ToLower(strings.TrimSpace(createdBy))
	if details := missingFields(req, createdBy); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").WithDetails(details)
	}

	parcelType, err := enums.ParseParcelType(req.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]string{"type": "must be document or non_document"})
	}

	now := time.Now().UTC()
	parcel := &models.Parcel{
		ID:                  uuid.New(),
		Type:                parcelType,
		Title:               strings.TrimSpace(req.Title),
		SenderName:          req.SenderName,
		SenderContact:       req.SenderContact,
		SenderRegion:        req.SenderRegion,
		SenderCenter:        req.SenderCenter,
		SenderAddress:       req.SenderAddress,
		ReceiverName:        req.ReceiverName,
		ReceiverContact:     req.ReceiverContact,
		ReceiverRegion:      req.ReceiverRegion,
		ReceiverCenter:      req.ReceiverCenter,
		ReceiverAddress:     req.ReceiverAddress,
		PickupInstruction:   req.PickupInstruction,
		DeliveryInstruction: req.DeliveryInstruction,
		Cost:                req.Cost,
		CreatedBy:           createdBy,
		DeliveryStatus:      enums.DeliveryStatusNotCollected,
		PaymentStatus:       enums.PaymentStatusUnpaid,
		CreatedAtUnixMS:     now.UnixMilli(),
	}

	created, err := s.repo.Create(ctx, parcel)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create parcel")
	}

	if err := s.tracking.Append(ctx, &models.TrackingEvent{
		ParcelID:   created.ID,
		EventType:  enums.TrackingEventParcelCreated,
		Message:    "parcel created",
		ActorEmail: createdBy,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tracking event")
	}

	return FromModel(created), nil
}

func (s *service) List(ctx context.Context, createdBy string) ([]ParcelDTO, error) {
	rows, err := s.repo.List(ctx, strings.ToLower(strings.TrimSpace(createdBy)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parcels")
	}
	return FromModels(rows), nil
}

func (s *service) ListUnassigned(ctx context.Context) ([]ParcelDTO, error) {
	rows, err := s.repo.ListUnassigned(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list unassigned parcels")
	}
	return FromModels(rows), nil
}

func (s *service) Get(ctx context.Context, id string) (*ParcelDTO, error) {
	parcelID, err := parseID(id, "parcel id")
	if err != nil {
		return nil, err
	}
	parcel, err := s.repo.FindByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup parcel")
	}
	return FromModel(parcel), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	parcelID, err := parseID(id, "parcel id")
	if err != nil {
		return err
	}
	rows, err := s.repo.Delete(ctx, parcelID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete parcel")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
	}
	return nil
}

// AssignRider binds an approved rider to a parcel. Preconditions short-circuit
// in order: rider id present, rider approved, parcel exists. The two-record
// effect runs in one transaction with the parcel written first; a guarded
// update that touches zero rows means the parcel was already assigned.
func (s *service) AssignRider(ctx context.Context, parcelID, riderID, actorEmail string) error {
	if strings.TrimSpace(riderID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "riderId is required")
	}
	rID, err := parseID(riderID, "rider id")
	if err != nil {
		return err
	}
	pID, err := parseID(parcelID, "parcel id")
	if err != nil {
		return err
	}

	// Eligibility is rechecked here, not inferred from an earlier listing:
	// approval state can change between listing and assignment.
	rider, err := s.riders.FindByID(ctx, rID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "rider not eligible")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup rider")
	}
	if rider.Status != enums.RiderStatusApproved {
		return pkgerrors.New(pkgerrors.CodeNotFound, "rider not eligible")
	}

	if _, err := s.repo.FindByID(ctx, pID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup parcel")
	}

	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		parcelRepo := s.repo.WithTx(tx)
		riderRepo := s.riders.WithTx(tx)
		eventRepo := s.tracking.WithTx(tx)

		rows, err := parcelRepo.MarkAssigned(ctx, pID, rID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign parcel")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "parcel already assigned")
		}

		if err := riderRepo.SetWorkStatus(ctx, rID, enums.RiderWorkStatusInDelivery); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rider work status")
		}

		if err := eventRepo.Append(ctx, &models.TrackingEvent{
			ParcelID:   pID,
			EventType:  enums.TrackingEventRiderAssigned,
			Message:    "rider assigned",
			ActorEmail: strings.ToLower(strings.TrimSpace(actorEmail)),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tracking event")
		}
		return nil
	})
	return err
}

func (s *service) ListAssignedForRider(ctx context.Context, riderEmail string) ([]ParcelDTO, error) {
	rider, err := s.riders.FindApprovedByEmail(ctx, strings.ToLower(strings.TrimSpace(riderEmail)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup rider")
	}
	rows, err := s.repo.ListAssignedToRider(ctx, rider.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assigned parcels")
	}
	return FromModels(rows), nil
}

func parseID(raw, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+label)
	}
	return id, nil
}

// missingFields names every absent required field so the caller sees the
// whole problem in one response.
func missingFields(req CreateParcelRequest, createdBy string) map[string]string {
	details := map[string]string{}
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			details[name] = "is required"
		}
	}

	require("type", req.Type)
	require("title", req.Title)
	require("senderName", req.SenderName)
	require("senderContact", req.SenderContact)
	require("senderRegion", req.SenderRegion)
	require("senderCenter", req.SenderCenter)
	require("senderAddress", req.SenderAddress)
	require("receiverName", req.ReceiverName)
	require("receiverContact", req.ReceiverContact)
	require("receiverRegion", req.ReceiverRegion)
	require("receiverCenter", req.ReceiverCenter)
	require("receiverAddress", req.ReceiverAddress)
	require("pickupInstruction", req.PickupInstruction)
	require("deliveryInstruction", req.DeliveryInstruction)
	if !req.Cost.IsPositive() {
		details["cost"] = "is required"
	}
	if createdBy == "" {
		details["createdBy"] = "is required"
	}
	return details
}
