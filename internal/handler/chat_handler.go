package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/planboard/internal/middleware"
	"github.com/hitoshi/planboard/internal/model"
)

// ChatServiceInterface はチャットハンドラーが必要とするサービスインターフェース。
type ChatServiceInterface interface {
	// PostMessage はユーザーの発言を保存し、アシスタントの応答と合わせて返す。
	PostMessage(ctx context.Context, userID, body string) ([]*model.ChatMessage, error)
	GetHistory(ctx context.Context, userID string) ([]*model.ChatMessage, error)
}

// ChatHandler はアシスタントチャットのHTTPハンドラー。
type ChatHandler struct {
	service ChatServiceInterface
}

// NewChatHandler はChatHandlerを生成する。
func NewChatHandler(service ChatServiceInterface) *ChatHandler {
	return &ChatHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// chatMessageRequest はメッセージ投稿リクエストのボディ。
type chatMessageRequest struct {
	Message string `json:"message"`
}

// chatMessageResponse はチャットメッセージのレスポンス。
type chatMessageResponse struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func toChatMessageResponses(messages []*model.ChatMessage) []chatMessageResponse {
	responses := make([]chatMessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, chatMessageResponse{
			ID:        message.ID,
			Author:    string(message.Author),
			Body:      message.Body,
			CreatedAt: message.CreatedAt,
		})
	}
	return responses
}

// GetHistory は会話履歴を古い順で取得する。
// GET /api/chat/messages
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	messages, err := h.service.GetHistory(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": toChatMessageResponses(messages)})
}

// PostMessage はメッセージを投稿し、アシスタントの応答を返す。
// POST /api/chat/messages
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req chatMessageRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	messages, err := h.service.PostMessage(r.Context(), userID, req.Message)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"messages": toChatMessageResponses(messages)})
}
