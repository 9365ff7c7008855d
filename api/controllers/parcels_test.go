package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zapshift/parcel-backend/api/middleware"
	parcelsvc "github.com/zapshift/parcel-backend/internal/parcels"
	"github.com/zapshift/parcel-backend/pkg/logger"
)

type testParcelsService struct {
	createFn         func(ctx context.Context, req parcelsvc.CreateParcelRequest, createdBy string) (*parcelsvc.ParcelDTO, error)
	listFn           func(ctx context.Context, createdBy string) ([]parcelsvc.ParcelDTO, error)
	listUnassignedFn func(ctx context.Context) ([]parcelsvc.ParcelDTO, error)
	getFn            func(ctx context.Context, id string) (*parcelsvc.ParcelDTO, error)
	deleteFn         func(ctx context.Context, id string) error
	assignFn         func(ctx context.Context, parcelID, riderID, actorEmail string) error
	forRiderFn       func(ctx context.Context, riderEmail string) ([]parcelsvc.ParcelDTO, error)
}

func (s *testParcelsService) Create(ctx context.Context, req parcelsvc.CreateParcelRequest, createdBy string) (*parcelsvc.ParcelDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, req, createdBy)
	}
	return &parcelsvc.ParcelDTO{}, nil
}

func (s *testParcelsService) List(ctx context.Context, createdBy string) ([]parcelsvc.ParcelDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, createdBy)
	}
	return nil, nil
}

func (s *testParcelsService) ListUnassigned(ctx context.Context) ([]parcelsvc.ParcelDTO, error) {
	if s.listUnassignedFn != nil {
		return s.listUnassignedFn(ctx)
	}
	return nil, nil
}

func (s *testParcelsService) Get(ctx context.Context, id string) (*parcelsvc.ParcelDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &parcelsvc.ParcelDTO{}, nil
}

func (s *testParcelsService) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *testParcelsService) AssignRider(ctx context.Context, parcelID, riderID, actorEmail string) error {
	if s.assignFn != nil {
		return s.assignFn(ctx, parcelID, riderID, actorEmail)
	}
	return nil
}

func (s *testParcelsService) ListAssignedForRider(ctx context.Context, riderEmail string) ([]parcelsvc.ParcelDTO, error) {
	if s.forRiderFn != nil {
		return s.forRiderFn(ctx, riderEmail)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestParcelCreateReturns201(t *testing.T) {
	var gotCreator string
	svc := &testParcelsService{
		createFn: func(_ context.Context, _ parcelsvc.CreateParcelRequest, createdBy string) (*parcelsvc.ParcelDTO, error) {
			gotCreator = createdBy
			return &parcelsvc.ParcelDTO{ID: uuid.New()}, nil
		},
	}

	body := `{"type":"document","title":"Papers","cost":"120"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parcels", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithEmail(req.Context(), "a@x.com"))

	resp := httptest.NewRecorder()
	ParcelCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotCreator != "a@x.com" {
		t.Fatalf("creator not taken from context, got %q", gotCreator)
	}
}

func TestParcelCreateRequiresIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parcels", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	ParcelCreate(&testParcelsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestParcelListPrefersQueryEmail(t *testing.T) {
	var gotCreator string
	svc := &testParcelsService{
		listFn: func(_ context.Context, createdBy string) ([]parcelsvc.ParcelDTO, error) {
			gotCreator = createdBy
			return []parcelsvc.ParcelDTO{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parcels?email=other@x.com", nil)
	req = req.WithContext(middleware.WithEmail(req.Context(), "a@x.com"))

	resp := httptest.NewRecorder()
	ParcelList(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if gotCreator != "other@x.com" {
		t.Fatalf("expected query email to win, got %q", gotCreator)
	}
}

func TestParcelAssignRiderPassesIDs(t *testing.T) {
	parcelID := uuid.NewString()
	riderID := uuid.NewString()
	var gotParcel, gotRider, gotActor string
	svc := &testParcelsService{
		assignFn: func(_ context.Context, pid, rid, actor string) error {
			gotParcel, gotRider, gotActor = pid, rid, actor
			return nil
		},
	}

	body := `{"riderId":"` + riderID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parcels/"+parcelID+"/assign-rider", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithEmail(req.Context(), "admin@x.com"))
	req = withURLParam(req, "parcelId", parcelID)

	resp := httptest.NewRecorder()
	ParcelAssignRider(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotParcel != parcelID || gotRider != riderID || gotActor != "admin@x.com" {
		t.Fatalf("service received %q %q %q", gotParcel, gotRider, gotActor)
	}
}

func TestRiderParcelsUsesCallerEmail(t *testing.T) {
	var gotEmail string
	svc := &testParcelsService{
		forRiderFn: func(_ context.Context, riderEmail string) ([]parcelsvc.ParcelDTO, error) {
			gotEmail = riderEmail
			return []parcelsvc.ParcelDTO{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rider/parcels", nil)
	req = req.WithContext(middleware.WithEmail(req.Context(), "rider@x.com"))

	resp := httptest.NewRecorder()
	RiderParcels(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if gotEmail != "rider@x.com" {
		t.Fatalf("expected caller email, got %q", gotEmail)
	}

	var envelope struct {
		Data []parcelsvc.ParcelDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
}
