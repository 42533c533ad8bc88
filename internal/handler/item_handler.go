package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/planboard/internal/middleware"
	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/planner"
)

// PlannerServiceInterface はデイリータスクハンドラーが必要とするサービスインターフェース。
type PlannerServiceInterface interface {
	// ListDay は指定日付のタスク一覧を返す。返却前に期限超過分の自動整合を実行する。
	ListDay(ctx context.Context, userID, ownerDate string) ([]*model.ScheduledItem, error)
	CreateItem(ctx context.Context, userID string, input planner.CreateItemInput) (*model.ScheduledItem, error)
	UpdateItem(ctx context.Context, userID, itemID string, input planner.UpdateItemInput) (*model.ScheduledItem, error)
	SetStatus(ctx context.Context, userID, itemID string, status model.ItemStatus) error
	DeleteItem(ctx context.Context, userID, itemID string) error
}

// ItemHandler はデイリータスク管理のHTTPハンドラー。
type ItemHandler struct {
	service PlannerServiceInterface
}

// NewItemHandler はItemHandlerを生成する。
func NewItemHandler(service PlannerServiceInterface) *ItemHandler {
	return &ItemHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// itemRequest はタスク作成・更新リクエストのボディ。
type itemRequest struct {
	Title              string  `json:"title"`
	Note               string  `json:"note"`
	ScheduledStartTime *string `json:"scheduled_start_time,omitempty"`
	OwnerDate          string  `json:"owner_date"`
}

// itemStatusRequest はタスク状態更新リクエストのボディ。
type itemStatusRequest struct {
	Status string `json:"status"`
}

// itemResponse はタスクのレスポンス。
type itemResponse struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Note               string    `json:"note"`
	Status             string    `json:"status"`
	ScheduledStartTime *string   `json:"scheduled_start_time,omitempty"`
	OwnerDate          string    `json:"owner_date"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toItemResponse(item *model.ScheduledItem) itemResponse {
	return itemResponse{
		ID:                 item.ID,
		Title:              item.Title,
		Note:               item.Note,
		Status:             string(item.Status),
		ScheduledStartTime: item.ScheduledStartTime,
		OwnerDate:          item.OwnerDate,
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}
}

// ListItems は指定日付のタスク一覧を取得する。
// GET /api/planner/items?date=YYYY-MM-DD
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	date := r.URL.Query().Get("date")
	items, err := h.service.ListDay(r.Context(), userID, date)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]itemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": responses})
}

// CreateItem はタスクを作成する。
// POST /api/planner/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req itemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	item, err := h.service.CreateItem(r.Context(), userID, planner.CreateItemInput{
		Title:              req.Title,
		Note:               req.Note,
		ScheduledStartTime: req.ScheduledStartTime,
		OwnerDate:          req.OwnerDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// UpdateItem はタスクの内容を更新する。
// PUT /api/planner/items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req itemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	item, err := h.service.UpdateItem(r.Context(), userID, chi.URLParam(r, "id"), planner.UpdateItemInput{
		Title:              req.Title,
		Note:               req.Note,
		ScheduledStartTime: req.ScheduledStartTime,
		OwnerDate:          req.OwnerDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// UpdateItemStatus はタスクの状態を更新する。
// PUT /api/planner/items/{id}/status
func (h *ItemHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req itemStatusRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.service.SetStatus(r.Context(), userID, chi.URLParam(r, "id"), model.ItemStatus(req.Status)); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteItem はタスクを削除する。
// DELETE /api/planner/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteItem(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
