package riders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
	"github.com/zapshift/parcel-backend/pkg/logger"
)

type usersRepository interface {
	UpdateRoleByEmail(ctx context.Context, email string, role enums.UserRole) (int64, error)
}

// Service owns rider applications and the pending -> approved/rejected
// state machine.
type Service interface {
	Apply(ctx context.Context, req ApplyRequest) (*RiderDTO, error)
	ListPending(ctx context.Context) ([]RiderDTO, error)
	ListActive(ctx context.Context, region string) ([]RiderDTO, error)
	SetStatus(ctx context.Context, id string, req SetStatusRequest) error
}

type service struct {
	repo  RiderRepository
	users usersRepository
	logg  *logger.Logger
}

// ServiceParams bundles the dependencies required to build a rider service.
type ServiceParams struct {
	Repo      RiderRepository
	UsersRepo usersRepository
	Logger    *logger.Logger
}

// NewService constructs the rider service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("rider repository is required")
	}
	if params.UsersRepo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{
		repo:  params.Repo,
		users: params.UsersRepo,
		logg:  params.Logger,
	}, nil
}

func (s *service) Apply(ctx context.Context, req ApplyRequest) (*RiderDTO, error) {
	details := map[string]string{}
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			details[name] = "is required"
		}
	}
	require("name", req.Name)
	require("email", req.Email)
	require("contact", req.Contact)
	require("region", req.Region)
	require("warehouse", req.Warehouse)
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").WithDetails(details)
	}

	rider, err := s.repo.Create(ctx, &models.Rider{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Contact:    strings.TrimSpace(req.Contact),
		Region:     strings.TrimSpace(req.Region),
		Warehouse:  strings.TrimSpace(req.Warehouse),
		Status:     enums.RiderStatusPending,
		WorkStatus: enums.RiderWorkStatusIdle,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rider")
	}
	return FromModel(rider), nil
}

func (s *service) ListPending(ctx context.Context) ([]RiderDTO, error) {
	rows, err := s.repo.ListByStatus(ctx, enums.RiderStatusPending, "")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending riders")
	}
	return FromModels(rows), nil
}

func (s *service) ListActive(ctx context.Context, region string) ([]RiderDTO, error) {
	rows, err := s.repo.ListByStatus(ctx, enums.RiderStatusApproved, strings.TrimSpace(region))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active riders")
	}
	return FromModels(rows), nil
}

// SetStatus finalizes a pending application. The guarded update makes
// approved/rejected terminal; zero touched rows reads as not found so a
// repeat decision and a bogus id report the same way.
func (s *service) SetStatus(ctx context.Context, id string, req SetStatusRequest) error {
	if strings.TrimSpace(req.Status) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "status is required")
	}
	status, err := enums.ParseRiderStatus(req.Status)
	if err != nil || status == enums.RiderStatusPending {
		return pkgerrors.New(pkgerrors.CodeValidation, "status must be approved or rejected")
	}
	riderID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid rider id")
	}

	rows, err := s.repo.UpdateStatusIfPending(ctx, riderID, status)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rider status")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
	}

	// User role is a projection of rider approval. Promotion only happens
	// when the caller supplies the account email; without it the user record
	// stays untouched.
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if status == enums.RiderStatusApproved && email != "" {
		touched, err := s.users.UpdateRoleByEmail(ctx, email, enums.UserRoleRider)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote user role")
		}
		if touched == 0 && s.logg != nil {
			s.logg.Warn(s.logg.WithEmail(ctx, email), "rider approved but no matching user to promote")
		}
	}
	return nil
}
