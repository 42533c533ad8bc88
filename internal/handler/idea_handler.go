package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/planboard/internal/idea"
	"github.com/hitoshi/planboard/internal/middleware"
	"github.com/hitoshi/planboard/internal/model"
)

// IdeaServiceInterface はアイデアボードハンドラーが必要とするサービスインターフェース。
type IdeaServiceInterface interface {
	ListIdeas(ctx context.Context, userID string) ([]*model.BusinessIdea, error)
	CreateIdea(ctx context.Context, userID string, input idea.IdeaInput) (*model.BusinessIdea, error)
	UpdateIdea(ctx context.Context, userID, ideaID string, input idea.IdeaInput) (*model.BusinessIdea, error)
	DeleteIdea(ctx context.Context, userID, ideaID string) error
}

// IdeaHandler はビジネスアイデアボードのHTTPハンドラー。
type IdeaHandler struct {
	service IdeaServiceInterface
}

// NewIdeaHandler はIdeaHandlerを生成する。
func NewIdeaHandler(service IdeaServiceInterface) *IdeaHandler {
	return &IdeaHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// ideaRequest はアイデア作成・更新リクエストのボディ。
type ideaRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Stage string `json:"stage,omitempty"`
}

// ideaResponse はアイデアのレスポンス。Bodyはサニタイズ済みHTML。
type ideaResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Stage     string    `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toIdeaResponse(i *model.BusinessIdea) ideaResponse {
	return ideaResponse{
		ID:        i.ID,
		Title:     i.Title,
		Body:      i.Body,
		Stage:     string(i.Stage),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// ListIdeas はアイデア一覧を取得する。
// GET /api/ideas
func (h *IdeaHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	ideas, err := h.service.ListIdeas(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]ideaResponse, 0, len(ideas))
	for _, i := range ideas {
		responses = append(responses, toIdeaResponse(i))
	}
	writeJSON(w, http.StatusOK, map[string]any{"ideas": responses})
}

// CreateIdea はアイデアを作成する。
// POST /api/ideas
func (h *IdeaHandler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req ideaRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	created, err := h.service.CreateIdea(r.Context(), userID, idea.IdeaInput{
		Title: req.Title,
		Body:  req.Body,
		Stage: req.Stage,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toIdeaResponse(created))
}

// UpdateIdea はアイデアを更新する。
// PUT /api/ideas/{id}
func (h *IdeaHandler) UpdateIdea(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req ideaRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	updated, err := h.service.UpdateIdea(r.Context(), userID, chi.URLParam(r, "id"), idea.IdeaInput{
		Title: req.Title,
		Body:  req.Body,
		Stage: req.Stage,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toIdeaResponse(updated))
}

// DeleteIdea はアイデアを削除する。
// DELETE /api/ideas/{id}
func (h *IdeaHandler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteIdea(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
