package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/planboard/internal/model"
)

// mockProfileFinder はProfileFinderのモック実装。
type mockProfileFinder struct {
	findByIDFunc func(ctx context.Context, id string) (*model.UserProfile, error)
}

func (m *mockProfileFinder) FindByID(ctx context.Context, id string) (*model.UserProfile, error) {
	return m.findByIDFunc(ctx, id)
}

// mockDenialRecorder はDenialRecorderのモック実装。
type mockDenialRecorder struct {
	deniedRoles []string
}

func (m *mockDenialRecorder) RecordAccessDenied(role string) {
	m.deniedRoles = append(m.deniedRoles, role)
}

func fixedRoleFinder(role model.Role) *mockProfileFinder {
	return &mockProfileFinder{
		findByIDFunc: func(ctx context.Context, id string) (*model.UserProfile, error) {
			return &model.UserProfile{ID: id, Role: role}, nil
		},
	}
}

func gateRequest(t *testing.T, finder ProfileFinder, recorder DenialRecorder, path string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewRoleGateMiddleware(finder, recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRoleGate_AdminAccessesEverything(t *testing.T) {
	finder := fixedRoleFinder(model.RoleAdmin)

	paths := []string{
		"/api/planner/items",
		"/api/couple_saving/entries",
		"/api/trading_partner/groups",
		"/api/ideas",
		"/api/users",
	}
	for _, path := range paths {
		rec := gateRequest(t, finder, nil, path)
		if rec.Code != http.StatusOK {
			t.Errorf("admin on %s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestRoleGate_RestrictedScope(t *testing.T) {
	finder := fixedRoleFinder(model.RoleRestricted)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/couple_saving/entries", http.StatusOK},
		{"/api/couple_saving/entries/abc", http.StatusOK},
		{"/api/planner/items", http.StatusSeeOther},
		{"/api/trading_partner/groups", http.StatusSeeOther},
		{"/api/ideas", http.StatusSeeOther},
	}
	for _, tt := range tests {
		rec := gateRequest(t, finder, nil, tt.path)
		if rec.Code != tt.wantStatus {
			t.Errorf("restricted on %s: status = %d, want %d", tt.path, rec.Code, tt.wantStatus)
		}
	}
}

func TestRoleGate_RestrictedRedirectsToDefaultRoute(t *testing.T) {
	finder := fixedRoleFinder(model.RoleRestricted)

	rec := gateRequest(t, finder, nil, "/api/planner/items")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/couple_saving" {
		t.Errorf("redirect location = %q, want /couple_saving", loc)
	}
}

func TestRoleGate_PartnerScope(t *testing.T) {
	finder := fixedRoleFinder(model.RolePartner)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/trading_partner/groups", http.StatusOK},
		{"/api/trading_partner/groups/g1/trades", http.StatusOK},
		{"/api/couple_saving/entries", http.StatusSeeOther},
		{"/api/planner/items", http.StatusSeeOther},
	}
	for _, tt := range tests {
		rec := gateRequest(t, finder, nil, tt.path)
		if rec.Code != tt.wantStatus {
			t.Errorf("partner on %s: status = %d, want %d", tt.path, rec.Code, tt.wantStatus)
		}
	}

	rec := gateRequest(t, finder, nil, "/api/couple_saving/entries")
	if loc := rec.Header().Get("Location"); loc != "/trading_partner" {
		t.Errorf("redirect location = %q, want /trading_partner", loc)
	}
}

func TestRoleGate_ProfileErrorFailsClosed(t *testing.T) {
	finder := &mockProfileFinder{
		findByIDFunc: func(ctx context.Context, id string) (*model.UserProfile, error) {
			return nil, errors.New("db down")
		},
	}

	// ロール解決に失敗した場合はrestricted扱いとなり、
	// 夫婦貯金以外のルートは拒否される
	rec := gateRequest(t, finder, nil, "/api/planner/items")
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}

	rec = gateRequest(t, finder, nil, "/api/couple_saving/entries")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRoleGate_MissingProfileFailsClosed(t *testing.T) {
	finder := &mockProfileFinder{
		findByIDFunc: func(ctx context.Context, id string) (*model.UserProfile, error) {
			return nil, nil
		},
	}

	rec := gateRequest(t, finder, nil, "/api/ideas")
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
}

func TestRoleGate_RecordsDenials(t *testing.T) {
	finder := fixedRoleFinder(model.RolePartner)
	recorder := &mockDenialRecorder{}

	gateRequest(t, finder, recorder, "/api/couple_saving/entries")

	if len(recorder.deniedRoles) != 1 || recorder.deniedRoles[0] != "partner" {
		t.Errorf("denied roles = %v, want [partner]", recorder.deniedRoles)
	}
}

func TestRoleGate_UnauthenticatedRequest(t *testing.T) {
	finder := fixedRoleFinder(model.RoleAdmin)
	handler := NewRoleGateMiddleware(finder, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/planner/items", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestGatePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/couple_saving/entries", "/couple_saving/entries"},
		{"/api/planner/items", "/planner/items"},
		{"/api", "/"},
		{"/health", "/health"},
	}
	for _, tt := range tests {
		if got := gatePath(tt.in); got != tt.want {
			t.Errorf("gatePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
