package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/planboard/internal/middleware"
	"github.com/hitoshi/planboard/internal/model"
)

// --- モック定義 ---

// mockSessionFinder はmiddleware.SessionFinderのモック実装。
type mockSessionFinder struct {
	findByIDFn func(ctx context.Context, id string) (*model.Session, error)
}

func (m *mockSessionFinder) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return m.findByIDFn(ctx, id)
}

// mockProfileFinder はmiddleware.ProfileFinderのモック実装。
type mockProfileFinder struct {
	findByIDFn func(ctx context.Context, id string) (*model.UserProfile, error)
}

func (m *mockProfileFinder) FindByID(ctx context.Context, id string) (*model.UserProfile, error) {
	return m.findByIDFn(ctx, id)
}

// testRouter はロールを固定したフルルーターを組み立てる。
func testRouter(t *testing.T, role model.Role) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	deps := &RouterDeps{
		SessionFinder: &mockSessionFinder{
			findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
				if id != "sess-1" {
					return nil, nil
				}
				return &model.Session{ID: id, UserID: "user-123", ExpiresAt: time.Now().Add(time.Hour)}, nil
			},
		},
		ProfileFinder: &mockProfileFinder{
			findByIDFn: func(ctx context.Context, id string) (*model.UserProfile, error) {
				return &model.UserProfile{ID: id, Role: role}, nil
			},
		},
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       rl,
		AuthService:       &mockAuthService{},
		AuthConfig:        testAuthConfig(),
		PlannerService: &mockPlannerService{
			listDayFn: func(ctx context.Context, userID, ownerDate string) ([]*model.ScheduledItem, error) {
				return []*model.ScheduledItem{}, nil
			},
		},
		SavingService: &mockSavingService{
			listEntriesFn: func(ctx context.Context, userID string) ([]*model.SavingEntry, error) {
				return []*model.SavingEntry{}, nil
			},
		},
		TradingService: &mockTradingService{
			listTradesFn: func(ctx context.Context, userID string) ([]*model.TradeEntry, error) {
				return []*model.TradeEntry{}, nil
			},
		},
		SchoolService:  &mockSchoolService{},
		IdeaService:    &mockIdeaService{},
		ChatService:    &mockChatService{},
		ProfileService: &mockProfileService{},
		HealthHandler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	return NewRouter(deps)
}

// authedRequest はセッションCookie付きのGETリクエストを組み立てる。
func authedRequest(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	return req
}

// TestRouter_AdminAccessesAllRoutes は管理者が全ルートグループに到達できることを検証する。
func TestRouter_AdminAccessesAllRoutes(t *testing.T) {
	router := testRouter(t, model.RoleAdmin)

	paths := []string{
		"/api/planner/items?date=2025-06-01",
		"/api/couple_saving/entries",
		"/api/trading/trades",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(path))

		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusOK)
		}
	}
}

// TestRouter_RestrictedRedirectedFromTrading は制限ロールが許可領域外の
// ルートから既定ルートへリダイレクトされることを検証する。
func TestRouter_RestrictedRedirectedFromTrading(t *testing.T) {
	router := testRouter(t, model.RoleRestricted)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("/api/trading/trades"))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if location := w.Header().Get("Location"); location != "/couple_saving" {
		t.Errorf("Location = %q, want /couple_saving", location)
	}
}

// TestRouter_RestrictedAccessesCoupleSaving は制限ロールが自分の許可領域に
// アクセスできることを検証する。
func TestRouter_RestrictedAccessesCoupleSaving(t *testing.T) {
	router := testRouter(t, model.RoleRestricted)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("/api/couple_saving/entries"))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// TestRouter_NoSession_ReturnsUnauthorized はセッションなしのAPIアクセスが
// 401になることを検証する。
func TestRouter_NoSession_ReturnsUnauthorized(t *testing.T) {
	router := testRouter(t, model.RoleAdmin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/planner/items", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// TestRouter_HealthEndpoint は/healthが認証なしで応答することを検証する。
func TestRouter_HealthEndpoint(t *testing.T) {
	router := testRouter(t, model.RoleAdmin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// TestRouter_CSRFTokenEndpoint は/api/csrf-tokenがセッションなしでトークンを
// 発行することを検証する。
func TestRouter_CSRFTokenEndpoint(t *testing.T) {
	router := testRouter(t, model.RoleAdmin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"token"`) {
		t.Errorf("body does not contain token: %s", w.Body.String())
	}

	var hasCookie bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "csrf_token" && c.Value != "" {
			hasCookie = true
		}
	}
	if !hasCookie {
		t.Error("csrf_token cookie was not set")
	}
}
