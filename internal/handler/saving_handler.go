package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/planboard/internal/middleware"
	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/saving"
)

// SavingServiceInterface は夫婦貯金ハンドラーが必要とするサービスインターフェース。
type SavingServiceInterface interface {
	ListEntries(ctx context.Context, userID string) ([]*model.SavingEntry, error)
	GetSummary(ctx context.Context, userID string) (*saving.Summary, error)
	CreateEntry(ctx context.Context, userID string, input saving.EntryInput) (*model.SavingEntry, error)
	UpdateEntry(ctx context.Context, userID, entryID string, input saving.EntryInput) (*model.SavingEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error
}

// SavingHandler は夫婦貯金のHTTPハンドラー。
type SavingHandler struct {
	service SavingServiceInterface
}

// NewSavingHandler はSavingHandlerを生成する。
func NewSavingHandler(service SavingServiceInterface) *SavingHandler {
	return &SavingHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// savingEntryRequest は記帳エントリ作成・更新リクエストのボディ。
// 金額は丸め誤差を避けるため文字列で受け取る。
type savingEntryRequest struct {
	Amount    string `json:"amount"`
	Note      string `json:"note"`
	EntryDate string `json:"entry_date"`
}

// savingEntryResponse は記帳エントリのレスポンス。
type savingEntryResponse struct {
	ID        string    `json:"id"`
	Amount    string    `json:"amount"`
	Note      string    `json:"note"`
	EntryDate string    `json:"entry_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// savingSummaryResponse は貯金残高サマリーのレスポンス。
type savingSummaryResponse struct {
	Total      string `json:"total"`
	EntryCount int    `json:"entry_count"`
}

func toSavingEntryResponse(entry *model.SavingEntry) savingEntryResponse {
	return savingEntryResponse{
		ID:        entry.ID,
		Amount:    entry.Amount.String(),
		Note:      entry.Note,
		EntryDate: entry.EntryDate,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

// ListEntries は記帳エントリ一覧を取得する。
// GET /api/couple_saving/entries
func (h *SavingHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	entries, err := h.service.ListEntries(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]savingEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toSavingEntryResponse(entry))
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": responses})
}

// GetSummary は貯金残高サマリーを取得する。
// GET /api/couple_saving/summary
func (h *SavingHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	summary, err := h.service.GetSummary(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, savingSummaryResponse{
		Total:      summary.Total.String(),
		EntryCount: summary.EntryCount,
	})
}

// CreateEntry は記帳エントリを作成する。
// POST /api/couple_saving/entries
func (h *SavingHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req savingEntryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	entry, err := h.service.CreateEntry(r.Context(), userID, saving.EntryInput{
		Amount:    req.Amount,
		Note:      req.Note,
		EntryDate: req.EntryDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSavingEntryResponse(entry))
}

// UpdateEntry は記帳エントリを更新する。
// PUT /api/couple_saving/entries/{id}
func (h *SavingHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req savingEntryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	entry, err := h.service.UpdateEntry(r.Context(), userID, chi.URLParam(r, "id"), saving.EntryInput{
		Amount:    req.Amount,
		Note:      req.Note,
		EntryDate: req.EntryDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSavingEntryResponse(entry))
}

// DeleteEntry は記帳エントリを削除する。
// DELETE /api/couple_saving/entries/{id}
func (h *SavingHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteEntry(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
