package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/planboard/internal/idea"
	"github.com/hitoshi/planboard/internal/model"
)

// --- モック定義 ---

// mockIdeaService はIdeaServiceInterfaceのモック実装。
type mockIdeaService struct {
	listIdeasFn  func(ctx context.Context, userID string) ([]*model.BusinessIdea, error)
	createIdeaFn func(ctx context.Context, userID string, input idea.IdeaInput) (*model.BusinessIdea, error)
	updateIdeaFn func(ctx context.Context, userID, ideaID string, input idea.IdeaInput) (*model.BusinessIdea, error)
	deleteIdeaFn func(ctx context.Context, userID, ideaID string) error
}

func (m *mockIdeaService) ListIdeas(ctx context.Context, userID string) ([]*model.BusinessIdea, error) {
	return m.listIdeasFn(ctx, userID)
}

func (m *mockIdeaService) CreateIdea(ctx context.Context, userID string, input idea.IdeaInput) (*model.BusinessIdea, error) {
	return m.createIdeaFn(ctx, userID, input)
}

func (m *mockIdeaService) UpdateIdea(ctx context.Context, userID, ideaID string, input idea.IdeaInput) (*model.BusinessIdea, error) {
	return m.updateIdeaFn(ctx, userID, ideaID, input)
}

func (m *mockIdeaService) DeleteIdea(ctx context.Context, userID, ideaID string) error {
	return m.deleteIdeaFn(ctx, userID, ideaID)
}

// --- テスト ---

func TestIdeaHandler_CreateIdea_Success(t *testing.T) {
	svc := &mockIdeaService{
		createIdeaFn: func(ctx context.Context, userID string, input idea.IdeaInput) (*model.BusinessIdea, error) {
			return &model.BusinessIdea{
				ID:     "idea-1",
				UserID: userID,
				Title:  input.Title,
				Body:   "<p>宅配弁当の比較サイト</p>",
				Stage:  model.IdeaStageSeed,
			}, nil
		},
	}

	h := NewIdeaHandler(svc)

	body := `{"title":"比較サイト","body":"<p>宅配弁当の比較サイト</p>"}`
	req := httptest.NewRequest(http.MethodPost, "/api/ideas", strings.NewReader(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.CreateIdea(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if !strings.Contains(w.Body.String(), `"stage":"seed"`) {
		t.Errorf("body does not contain stage: %s", w.Body.String())
	}
}

func TestIdeaHandler_UpdateIdea_NotFound(t *testing.T) {
	svc := &mockIdeaService{
		updateIdeaFn: func(ctx context.Context, userID, ideaID string, input idea.IdeaInput) (*model.BusinessIdea, error) {
			return nil, model.NewIdeaNotFoundError(ideaID)
		},
	}

	h := NewIdeaHandler(svc)

	body := `{"title":"改題","body":"","stage":"parked"}`
	req := httptest.NewRequest(http.MethodPut, "/api/ideas/ghost", strings.NewReader(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.UpdateIdea(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}
