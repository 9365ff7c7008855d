package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
)

type usersRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Search(ctx context.Context, emailFragment string) ([]models.User, error)
	UpdateLastLogin(ctx context.Context, email string, at time.Time) error
}

// Service exposes the user directory operations.
type Service interface {
	Upsert(ctx context.Context, email, name string) (*UserDTO, bool, error)
	Search(ctx context.Context, emailFragment string) ([]UserDTO, error)
	RoleByEmail(ctx context.Context, email string) (enums.UserRole, error)
}

type service struct {
	repo usersRepository
}

// NewService builds the user directory service.
func NewService(repo usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

// Upsert keeps at most one record per email: a repeat call refreshes the
// last-login stamp instead of inserting. Returns true when a row was created.
func (s *service) Upsert(ctx context.Context, email, name string) (*UserDTO, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		now := time.Now().UTC()
		if err := s.repo.UpdateLastLogin(ctx, email, now); err != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh last login")
		}
		existing.LastLoginAt = &now
		return FromModel(existing), false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	created, err := s.repo.Create(ctx, &models.User{
		Email: email,
		Name:  strings.TrimSpace(name),
		Role:  enums.UserRoleUser,
	})
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(created), true, nil
}

func (s *service) Search(ctx context.Context, emailFragment string) ([]UserDTO, error) {
	rows, err := s.repo.Search(ctx, strings.TrimSpace(emailFragment))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search users")
	}
	return FromModels(rows), nil
}

// RoleByEmail resolves the stored role projection. The admin gate calls this
// on every privileged request instead of trusting the token's role claim.
func (s *service) RoleByEmail(ctx context.Context, email string) (enums.UserRole, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	return user.Role, nil
}
