package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgauth "github.com/zapshift/parcel-backend/pkg/auth"
	"github.com/zapshift/parcel-backend/pkg/config"
	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
	"github.com/zapshift/parcel-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "zapshift",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func buildTestService(t *testing.T, repo *stubUserRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceLoginIssuesTokenWithEmailAndRole(t *testing.T) {
	password := "rider-secret"
	user := &models.User{
		Email:        "rider@example.com",
		Name:         "Ready Rider",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleRider,
	}
	svc := buildTestService(t, &stubUserRepo{user: user})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Rider@Example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Email != user.Email {
		t.Fatalf("expected email claim %s, got %s", user.Email, claims.Email)
	}
	if claims.Role != enums.UserRoleRider {
		t.Fatalf("expected rider role claim, got %s", claims.Role)
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be stamped")
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	user := &models.User{
		Email:        "user@example.com",
		Name:         "Some User",
		PasswordHash: mustHashPassword(t, "right-password"),
		Role:         enums.UserRoleUser,
	}
	svc := buildTestService(t, &stubUserRepo{user: user})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginRejectsUnknownUser(t *testing.T) {
	svc := buildTestService(t, &stubUserRepo{findErr: gorm.ErrRecordNotFound})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	repo := &stubUserRepo{findErr: gorm.ErrRecordNotFound}
	svc := buildTestService(t, repo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "New@Example.com",
		Name:     "New User",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if repo.created == nil {
		t.Fatalf("expected user to be persisted")
	}
	if repo.created.Email != "new@example.com" {
		t.Fatalf("expected lowercased email, got %s", repo.created.Email)
	}
	if repo.created.Role != enums.UserRoleUser {
		t.Fatalf("expected default user role, got %s", repo.created.Role)
	}
	if repo.created.PasswordHash == "long-enough-password" {
		t.Fatalf("password must not be stored in the clear")
	}
	ok, err := security.VerifyPassword("long-enough-password", repo.created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
	if resp.AccessToken == "" {
		t.Fatalf("expected access token")
	}
}

func TestServiceRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := &stubUserRepo{
		findErr: gorm.ErrRecordNotFound,
		createErr: &pgconn.PgError{
			Code:           "23505",
			ConstraintName: "users_email_key",
		},
	}
	svc := buildTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taken@example.com",
		Name:     "Second Claimant",
		Password: "long-enough-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

type stubUserRepo struct {
	user      *models.User
	findErr   error
	created   *models.User
	createErr error
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, _ string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, email string, at time.Time) error {
	if s.user != nil && s.user.Email == email {
		s.user.LastLoginAt = &at
	}
	if s.created != nil && s.created.Email == email {
		s.created.LastLoginAt = &at
	}
	return nil
}
