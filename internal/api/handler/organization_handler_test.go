package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/multidisease/platform-api/internal/core/domain"
	"github.com/multidisease/platform-api/internal/core/ports"
)

type stubOrganizationService struct {
	createFn func(ctx context.Context, in ports.CreateOrganizationInput) (*domain.Organization, error)
	getFn    func(ctx context.Context, id string) (*domain.Organization, error)
	updateFn func(ctx context.Context, id string, u ports.OrganizationUpdate) (*domain.Organization, error)
	listFn   func(ctx context.Context, f ports.ListOrganizationsFilter) (*ports.ListOrganizationsResult, error)
	desksFn  func(ctx context.Context) ([]*domain.Organization, error)
}

func (s *stubOrganizationService) CreateOrganization(ctx context.Context, in ports.CreateOrganizationInput) (*domain.Organization, error) {
	return s.createFn(ctx, in)
}

func (s *stubOrganizationService) GetOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	return s.getFn(ctx, id)
}

func (s *stubOrganizationService) UpdateOrganization(ctx context.Context, id string, u ports.OrganizationUpdate) (*domain.Organization, error) {
	return s.updateFn(ctx, id, u)
}

func (s *stubOrganizationService) ListOrganizations(ctx context.Context, f ports.ListOrganizationsFilter) (*ports.ListOrganizationsResult, error) {
	return s.listFn(ctx, f)
}

func (s *stubOrganizationService) ListServiceDesks(ctx context.Context) ([]*domain.Organization, error) {
	return s.desksFn(ctx)
}

func withIdentity(req *http.Request, id *domain.Identity) *http.Request {
	return req.WithContext(domain.WithIdentity(req.Context(), id))
}

func TestOrganizationHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubOrganizationService{
		createFn: func(ctx context.Context, in ports.CreateOrganizationInput) (*domain.Organization, error) {
			if in.Type != domain.OrganizationHospital || in.ServiceDeskID != "desk1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.CreatedBy != "admin1" {
				t.Fatalf("expected creator from identity, got %q", in.CreatedBy)
			}
			return &domain.Organization{ID: "org1", Name: in.Name, Type: in.Type, ServiceDeskID: in.ServiceDeskID, IsActive: true}, nil
		},
	}
	h := NewOrganizationHandler(stub)

	body := `{"name":"General Hospital","type":"HOSPITAL","address":{"city":"Lyon"},"serviceDeskId":"desk1","phone":"+33123456789"}`
	req := withIdentity(jsonRequest(http.MethodPost, "/api/organizations", body),
		&domain.Identity{ID: "admin1", Roles: domain.NewRoleSet(domain.RoleSuperAdmin)})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var org domain.Organization
	if err := json.Unmarshal(rec.Body.Bytes(), &org); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if org.ID != "org1" || org.Name != "General Hospital" {
		t.Fatalf("unexpected payload: %+v", org)
	}
}

func TestOrganizationHandler_Create_HospitalRequiresServiceDesk(t *testing.T) {
	e := newTestEcho()
	stub := &stubOrganizationService{
		createFn: func(ctx context.Context, in ports.CreateOrganizationInput) (*domain.Organization, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewOrganizationHandler(stub)

	body := `{"name":"General Hospital","type":"HOSPITAL","address":{"city":"Lyon"}}`
	req := withIdentity(jsonRequest(http.MethodPost, "/api/organizations", body), &domain.Identity{ID: "admin1"})
	c := e.NewContext(req, httptest.NewRecorder())

	if code := httpErrorCode(t, h.Create(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestOrganizationHandler_Create_RejectsUnknownType(t *testing.T) {
	e := newTestEcho()
	h := NewOrganizationHandler(&stubOrganizationService{})

	body := `{"name":"Clinic","type":"CLINIC","address":{}}`
	req := withIdentity(jsonRequest(http.MethodPost, "/api/organizations", body), &domain.Identity{ID: "admin1"})
	c := e.NewContext(req, httptest.NewRecorder())

	if code := httpErrorCode(t, h.Create(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestOrganizationHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubOrganizationService{
		getFn: func(ctx context.Context, id string) (*domain.Organization, error) {
			if id != "missing" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil, domain.ErrOrganizationNotFound
		},
	}
	h := NewOrganizationHandler(stub)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/organizations/missing", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Get(c); !errors.Is(err, domain.ErrOrganizationNotFound) {
		t.Fatalf("expected ErrOrganizationNotFound, got %v", err)
	}
}

func TestOrganizationHandler_List_PassesFilter(t *testing.T) {
	e := newTestEcho()
	stub := &stubOrganizationService{
		listFn: func(ctx context.Context, f ports.ListOrganizationsFilter) (*ports.ListOrganizationsResult, error) {
			if f.Type != domain.OrganizationServiceDesk || f.Page != 2 || f.Limit != 5 {
				t.Fatalf("unexpected filter: %+v", f)
			}
			return &ports.ListOrganizationsResult{Total: 6, Page: 2, Limit: 5, TotalPages: 2}, nil
		},
	}
	h := NewOrganizationHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/organizations?type=SERVICE_DESK&page=2&limit=5", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Data       []any              `json:"data"`
		Pagination paginationResponse `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data == nil {
		t.Fatalf("expected empty array, got null")
	}
	if resp.Pagination.Total != 6 || resp.Pagination.TotalPages != 2 {
		t.Fatalf("unexpected pagination: %+v", resp.Pagination)
	}
}

func TestOrganizationHandler_List_OutOfRangeQuery(t *testing.T) {
	e := newTestEcho()
	h := NewOrganizationHandler(&stubOrganizationService{})

	for _, query := range []string{"limit=500", "page=9223372036854775807"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/organizations?"+query, nil), httptest.NewRecorder())

		if code := httpErrorCode(t, h.List(c)); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, code)
		}
	}
}

func TestOrganizationHandler_Update_PartialFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubOrganizationService{
		updateFn: func(ctx context.Context, id string, u ports.OrganizationUpdate) (*domain.Organization, error) {
			if u.Name == nil || *u.Name != "Renamed" {
				t.Fatalf("expected name update, got %+v", u)
			}
			if u.Phone != nil || u.IsActive == nil || *u.IsActive {
				t.Fatalf("unexpected fields: %+v", u)
			}
			return &domain.Organization{ID: id, Name: *u.Name}, nil
		},
	}
	h := NewOrganizationHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/api/organizations/org1", `{"name":"Renamed","isActive":false}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("org1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestOrganizationHandler_ServiceDesks_EmptyIsArray(t *testing.T) {
	e := newTestEcho()
	stub := &stubOrganizationService{
		desksFn: func(ctx context.Context) ([]*domain.Organization, error) { return nil, nil },
	}
	h := NewOrganizationHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/organizations/service-desks", nil), rec)

	if err := h.ServiceDesks(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}
