package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/planboard/internal/access"
	"github.com/hitoshi/planboard/internal/middleware"
	"github.com/hitoshi/planboard/internal/model"
)

// ProfileServiceInterface はユーザー管理ハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	// ListProfiles は全プロフィールを返す。管理者のみ実行できる。
	ListProfiles(ctx context.Context, actor *model.UserProfile) ([]*model.UserProfile, error)
	// SetRole は指定ユーザーのロールを変更する。管理者のみ実行できる。
	SetRole(ctx context.Context, actor *model.UserProfile, targetID string, role model.Role) error
}

// UserHandler はユーザー・ロール管理のHTTPハンドラー。
type UserHandler struct {
	service ProfileServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service ProfileServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// roleRequest はロール変更リクエストのボディ。
type roleRequest struct {
	Role string `json:"role"`
}

// profileResponse はユーザープロフィールのレスポンス。
type profileResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	DefaultRoute string    `json:"default_route"`
	CreatedAt    time.Time `json:"created_at"`
}

func toProfileResponse(profile *model.UserProfile) profileResponse {
	return profileResponse{
		ID:           profile.ID,
		Email:        profile.Email,
		DisplayName:  profile.DisplayName,
		Role:         string(profile.Role),
		DefaultRoute: access.DefaultRouteFor(profile.Role),
		CreatedAt:    profile.CreatedAt,
	}
}

// actor はリクエスト実行者のプロフィールを解決する。
// 失敗した場合はエラーレスポンスを書き込みnilを返す。
func (h *UserHandler) actor(w http.ResponseWriter, r *http.Request) *model.UserProfile {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return nil
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return nil
	}
	return profile
}

// ListUsers は全ユーザーの一覧を取得する。管理者のみ実行できる。
// GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(w, r)
	if actor == nil {
		return
	}

	profiles, err := h.service.ListProfiles(r.Context(), actor)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]profileResponse, 0, len(profiles))
	for _, profile := range profiles {
		responses = append(responses, toProfileResponse(profile))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": responses})
}

// UpdateUserRole は指定ユーザーのロールを変更する。管理者のみ実行できる。
// 変更は対象ユーザーの次のリクエストから反映される。
// PUT /api/users/{id}/role
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(w, r)
	if actor == nil {
		return
	}

	var req roleRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.service.SetRole(r.Context(), actor, chi.URLParam(r, "id"), model.Role(req.Role)); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
