package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/planboard/internal/middleware"
	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/trading"
)

// TradingServiceInterface はトレードジャーナルハンドラーが必要とするサービスインターフェース。
type TradingServiceInterface interface {
	// 個人ジャーナル
	ListTrades(ctx context.Context, userID string) ([]*model.TradeEntry, error)
	GetSummary(ctx context.Context, userID string) (*trading.PnLSummary, error)
	CreateTrade(ctx context.Context, userID string, input trading.TradeInput) (*model.TradeEntry, error)
	UpdateTrade(ctx context.Context, userID, tradeID string, input trading.TradeInput) (*model.TradeEntry, error)
	DeleteTrade(ctx context.Context, userID, tradeID string) error

	// パートナーグループ
	CreateGroup(ctx context.Context, ownerID, name string) (*model.PartnerGroup, error)
	ListGroups(ctx context.Context, userID string) ([]*model.PartnerGroup, error)
	AddMember(ctx context.Context, actorID, groupID, newMemberID string) error
	ListGroupTrades(ctx context.Context, userID, groupID string) ([]*model.TradeEntry, error)
	GetGroupSummary(ctx context.Context, userID, groupID string) (*trading.PnLSummary, error)
	CreateGroupTrade(ctx context.Context, userID, groupID string, input trading.TradeInput) (*model.TradeEntry, error)
}

// TradeHandler はトレードジャーナルのHTTPハンドラー。
type TradeHandler struct {
	service TradingServiceInterface
}

// NewTradeHandler はTradeHandlerを生成する。
func NewTradeHandler(service TradingServiceInterface) *TradeHandler {
	return &TradeHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// tradeRequest はトレード記録作成・更新リクエストのボディ。
// 価格・数量は丸め誤差を避けるため文字列で受け取る。
type tradeRequest struct {
	Symbol     string `json:"symbol"`
	Side       string `json:"side"`
	EntryPrice string `json:"entry_price"`
	ExitPrice  string `json:"exit_price"`
	Quantity   string `json:"quantity"`
	Fee        string `json:"fee,omitempty"`
	TradeDate  string `json:"trade_date"`
	Note       string `json:"note,omitempty"`
}

// tradeResponse はトレード記録のレスポンス。
type tradeResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	GroupID    *string   `json:"group_id,omitempty"`
	Symbol     string    `json:"symbol"`
	Side       string    `json:"side"`
	EntryPrice string    `json:"entry_price"`
	ExitPrice  string    `json:"exit_price"`
	Quantity   string    `json:"quantity"`
	Fee        string    `json:"fee"`
	TradeDate  string    `json:"trade_date"`
	Note       string    `json:"note"`
	ProfitLoss string    `json:"profit_loss"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// pnlSummaryResponse は損益集計のレスポンス。
type pnlSummaryResponse struct {
	TotalPnL   string `json:"total_pnl"`
	WinCount   int    `json:"win_count"`
	LossCount  int    `json:"loss_count"`
	TradeCount int    `json:"trade_count"`
}

// groupRequest はグループ作成リクエストのボディ。
type groupRequest struct {
	Name string `json:"name"`
}

// groupMemberRequest はメンバー追加リクエストのボディ。
type groupMemberRequest struct {
	UserID string `json:"user_id"`
}

// groupResponse はパートナーグループのレスポンス。
type groupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toTradeResponse(trade *model.TradeEntry) tradeResponse {
	return tradeResponse{
		ID:         trade.ID,
		UserID:     trade.UserID,
		GroupID:    trade.GroupID,
		Symbol:     trade.Symbol,
		Side:       string(trade.Side),
		EntryPrice: trade.EntryPrice.String(),
		ExitPrice:  trade.ExitPrice.String(),
		Quantity:   trade.Quantity.String(),
		Fee:        trade.Fee.String(),
		TradeDate:  trade.TradeDate,
		Note:       trade.Note,
		ProfitLoss: trade.ProfitLoss().String(),
		CreatedAt:  trade.CreatedAt,
		UpdatedAt:  trade.UpdatedAt,
	}
}

func toTradeResponses(trades []*model.TradeEntry) []tradeResponse {
	responses := make([]tradeResponse, 0, len(trades))
	for _, trade := range trades {
		responses = append(responses, toTradeResponse(trade))
	}
	return responses
}

func toPnLSummaryResponse(summary *trading.PnLSummary) pnlSummaryResponse {
	return pnlSummaryResponse{
		TotalPnL:   summary.TotalPnL.String(),
		WinCount:   summary.WinCount,
		LossCount:  summary.LossCount,
		TradeCount: summary.TradeCount,
	}
}

func toTradeInput(req tradeRequest) trading.TradeInput {
	return trading.TradeInput{
		Symbol:     req.Symbol,
		Side:       req.Side,
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		Quantity:   req.Quantity,
		Fee:        req.Fee,
		TradeDate:  req.TradeDate,
		Note:       req.Note,
	}
}

// --- 個人ジャーナル ---

// ListTrades は個人ジャーナルのトレード一覧を取得する。
// GET /api/trading/trades
func (h *TradeHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	trades, err := h.service.ListTrades(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"trades": toTradeResponses(trades)})
}

// GetSummary は個人ジャーナルの損益集計を取得する。
// GET /api/trading/summary
func (h *TradeHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, toPnLSummaryResponse(summary))
}

// CreateTrade は個人ジャーナルにトレード記録を作成する。
// POST /api/trading/trades
func (h *TradeHandler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req tradeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	trade, err := h.service.CreateTrade(r.Context(), userID, toTradeInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTradeResponse(trade))
}

// UpdateTrade はトレード記録を更新する。
// PUT /api/trading/trades/{id}
func (h *TradeHandler) UpdateTrade(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req tradeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	trade, err := h.service.UpdateTrade(r.Context(), userID, chi.URLParam(r, "id"), toTradeInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTradeResponse(trade))
}

// DeleteTrade はトレード記録を削除する。
// DELETE /api/trading/trades/{id}
func (h *TradeHandler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteTrade(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- パートナーグループ ---

// ListGroups は参加中のグループ一覧を取得する。
// GET /api/trading_partner/groups
func (h *TradeHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	groups, err := h.service.ListGroups(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]groupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, groupResponse{
			ID:        group.ID,
			Name:      group.Name,
			OwnerID:   group.OwnerID,
			CreatedAt: group.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": responses})
}

// CreateGroup はパートナーグループを作成する。
// POST /api/trading_partner/groups
func (h *TradeHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req groupRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	group, err := h.service.CreateGroup(r.Context(), userID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, groupResponse{
		ID:        group.ID,
		Name:      group.Name,
		OwnerID:   group.OwnerID,
		CreatedAt: group.CreatedAt,
	})
}

// AddMember はグループにメンバーを追加する。オーナーのみ実行できる。
// POST /api/trading_partner/groups/{id}/members
func (h *TradeHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req groupMemberRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.service.AddMember(r.Context(), userID, chi.URLParam(r, "id"), req.UserID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListGroupTrades はグループの共有ジャーナルを取得する。メンバーのみ閲覧できる。
// GET /api/trading_partner/groups/{id}/trades
func (h *TradeHandler) ListGroupTrades(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	trades, err := h.service.ListGroupTrades(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"trades": toTradeResponses(trades)})
}

// GetGroupSummary はグループの共有ジャーナルの損益集計を取得する。
// GET /api/trading_partner/groups/{id}/summary
func (h *TradeHandler) GetGroupSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	summary, err := h.service.GetGroupSummary(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPnLSummaryResponse(summary))
}

// CreateGroupTrade は共有ジャーナルにトレード記録を作成する。メンバーのみ実行できる。
// POST /api/trading_partner/groups/{id}/trades
func (h *TradeHandler) CreateGroupTrade(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req tradeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	trade, err := h.service.CreateGroupTrade(r.Context(), userID, chi.URLParam(r, "id"), toTradeInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTradeResponse(trade))
}
