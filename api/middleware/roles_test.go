package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zapshift/parcel-backend/pkg/enums"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
)

type stubRoleLookup struct {
	role enums.UserRole
	err  error
}

func (s stubRoleLookup) RoleByEmail(_ context.Context, _ string) (enums.UserRole, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.role, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAdminRejectsAnonymousRequest(t *testing.T) {
	handler := RequireAdmin(stubRoleLookup{role: enums.UserRoleAdmin}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	handler := RequireAdmin(stubRoleLookup{role: enums.UserRoleUser}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithEmail(req.Context(), "user@example.com"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireAdminRejectsUnknownUser(t *testing.T) {
	lookup := stubRoleLookup{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}
	handler := RequireAdmin(lookup, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithEmail(req.Context(), "ghost@example.com"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireAdminUsesStoredRoleNotTokenRole(t *testing.T) {
	handler := RequireAdmin(stubRoleLookup{role: enums.UserRoleAdmin}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := WithEmail(req.Context(), "admin@example.com")
	// Token carried a stale role; the gate trusts the store.
	ctx = WithRole(ctx, string(enums.UserRoleUser))
	req = req.WithContext(ctx)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
