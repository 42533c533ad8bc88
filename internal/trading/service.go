// Package trading はトレードジャーナルとパートナーグループのドメインロジックを提供する。
package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/repository"
	"github.com/hitoshi/planboard/internal/schedule"
)

// TradeInput はトレード記録の作成・更新の入力。価格は文字列表現。
type TradeInput struct {
	Symbol     string
	Side       string
	EntryPrice string
	ExitPrice  string
	Quantity   string
	Fee        string
	TradeDate  string
	Note       string
}

// PnLSummary は損益の集計結果。
type PnLSummary struct {
	TotalPnL   decimal.Decimal
	WinCount   int
	LossCount  int
	TradeCount int
}

// Service はトレードジャーナルのサービス層。
// 個人ジャーナルとパートナーグループの共有ジャーナルの両方を扱う。
type Service struct {
	tradeRepo repository.TradeEntryRepository
	groupRepo repository.PartnerGroupRepository
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(tradeRepo repository.TradeEntryRepository, groupRepo repository.PartnerGroupRepository) *Service {
	return &Service{
		tradeRepo: tradeRepo,
		groupRepo: groupRepo,
		now:       time.Now,
	}
}

// ListTrades はユーザーの個人ジャーナルを取引日降順で返す。
func (s *Service) ListTrades(ctx context.Context, userID string) ([]*model.TradeEntry, error) {
	trades, err := s.tradeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("トレード一覧の取得に失敗しました: %w", err)
	}
	return trades, nil
}

// GetSummary は個人ジャーナルの損益集計を返す。
func (s *Service) GetSummary(ctx context.Context, userID string) (*PnLSummary, error) {
	trades, err := s.tradeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("トレード一覧の取得に失敗しました: %w", err)
	}
	return summarize(trades), nil
}

// CreateTrade は個人ジャーナルにトレード記録を作成する。
func (s *Service) CreateTrade(ctx context.Context, userID string, input TradeInput) (*model.TradeEntry, error) {
	return s.createTrade(ctx, userID, nil, input)
}

// UpdateTrade はトレード記録を更新する。
func (s *Service) UpdateTrade(ctx context.Context, userID, tradeID string, input TradeInput) (*model.TradeEntry, error) {
	trade, err := s.findEditable(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}

	if err := applyInput(trade, input); err != nil {
		return nil, err
	}

	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		return nil, fmt.Errorf("トレード記録の更新に失敗しました: %w", err)
	}

	return trade, nil
}

// DeleteTrade はトレード記録を削除する。
func (s *Service) DeleteTrade(ctx context.Context, userID, tradeID string) error {
	if _, err := s.findEditable(ctx, userID, tradeID); err != nil {
		return err
	}

	if err := s.tradeRepo.Delete(ctx, tradeID); err != nil {
		return fmt.Errorf("トレード記録の削除に失敗しました: %w", err)
	}

	return nil
}

// CreateGroup はパートナーグループを作成し、作成者をオーナーとして登録する。
func (s *Service) CreateGroup(ctx context.Context, ownerID, name string) (*model.PartnerGroup, error) {
	if name == "" {
		return nil, model.NewValidationError("グループ名は必須です")
	}

	group := &model.PartnerGroup{
		ID:        uuid.New().String(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: s.now(),
	}

	if err := s.groupRepo.CreateWithOwner(ctx, group); err != nil {
		return nil, fmt.Errorf("グループの作成に失敗しました: %w", err)
	}

	return group, nil
}

// ListGroups はユーザーが参加しているグループ一覧を返す。
func (s *Service) ListGroups(ctx context.Context, userID string) ([]*model.PartnerGroup, error) {
	groups, err := s.groupRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("グループ一覧の取得に失敗しました: %w", err)
	}
	return groups, nil
}

// AddMember はグループにメンバーを追加する。オーナーのみ実行できる。
func (s *Service) AddMember(ctx context.Context, actorID, groupID, newMemberID string) error {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("グループの取得に失敗しました: %w", err)
	}
	if group == nil {
		return model.NewGroupNotFoundError(groupID)
	}
	if group.OwnerID != actorID {
		return model.NewNotGroupMemberError()
	}

	if err := s.groupRepo.AddMember(ctx, groupID, newMemberID); err != nil {
		return fmt.Errorf("メンバーの追加に失敗しました: %w", err)
	}

	return nil
}

// ListGroupTrades はグループの共有ジャーナルを返す。メンバーのみ閲覧できる。
func (s *Service) ListGroupTrades(ctx context.Context, userID, groupID string) ([]*model.TradeEntry, error) {
	if err := s.requireMembership(ctx, userID, groupID); err != nil {
		return nil, err
	}

	trades, err := s.tradeRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("共有ジャーナルの取得に失敗しました: %w", err)
	}
	return trades, nil
}

// GetGroupSummary はグループの共有ジャーナルの損益集計を返す。メンバーのみ閲覧できる。
func (s *Service) GetGroupSummary(ctx context.Context, userID, groupID string) (*PnLSummary, error) {
	trades, err := s.ListGroupTrades(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	return summarize(trades), nil
}

// CreateGroupTrade は共有ジャーナルにトレード記録を作成する。メンバーのみ実行できる。
func (s *Service) CreateGroupTrade(ctx context.Context, userID, groupID string, input TradeInput) (*model.TradeEntry, error) {
	if err := s.requireMembership(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return s.createTrade(ctx, userID, &groupID, input)
}

// createTrade は入力を検証してトレード記録を作成する。
func (s *Service) createTrade(ctx context.Context, userID string, groupID *string, input TradeInput) (*model.TradeEntry, error) {
	now := s.now()
	trade := &model.TradeEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		GroupID:   groupID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := applyInput(trade, input); err != nil {
		return nil, err
	}

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		return nil, fmt.Errorf("トレード記録の作成に失敗しました: %w", err)
	}

	return trade, nil
}

// findEditable はトレード記録を取得し、編集権限を検証する。
// 個人ジャーナルは本人のみ、共有ジャーナルはグループメンバーなら編集できる。
func (s *Service) findEditable(ctx context.Context, userID, tradeID string) (*model.TradeEntry, error) {
	trade, err := s.tradeRepo.FindByID(ctx, tradeID)
	if err != nil {
		return nil, fmt.Errorf("トレード記録の取得に失敗しました: %w", err)
	}
	if trade == nil {
		return nil, model.NewTradeNotFoundError(tradeID)
	}

	if trade.GroupID == nil {
		if trade.UserID != userID {
			return nil, model.NewTradeNotFoundError(tradeID)
		}
		return trade, nil
	}

	if err := s.requireMembership(ctx, userID, *trade.GroupID); err != nil {
		return nil, err
	}
	return trade, nil
}

// requireMembership はユーザーがグループのメンバーであることを検証する。
func (s *Service) requireMembership(ctx context.Context, userID, groupID string) error {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("グループの取得に失敗しました: %w", err)
	}
	if group == nil {
		return model.NewGroupNotFoundError(groupID)
	}

	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("メンバーシップの確認に失敗しました: %w", err)
	}
	if !isMember {
		return model.NewNotGroupMemberError()
	}

	return nil
}

// applyInput は入力を検証してトレード記録に反映する。
func applyInput(trade *model.TradeEntry, input TradeInput) error {
	if input.Symbol == "" {
		return model.NewValidationError("銘柄は必須です")
	}

	side := model.ParseTradeSide(input.Side)
	if side == "" {
		return model.NewValidationError("売買方向には long または short を指定してください")
	}

	entryPrice, err := parsePositive(input.EntryPrice)
	if err != nil {
		return err
	}
	exitPrice, err := parsePositive(input.ExitPrice)
	if err != nil {
		return err
	}
	quantity, err := parsePositive(input.Quantity)
	if err != nil {
		return err
	}

	fee := decimal.Zero
	if input.Fee != "" {
		fee, err = decimal.NewFromString(input.Fee)
		if err != nil || fee.IsNegative() {
			return model.NewInvalidAmountError(input.Fee)
		}
	}

	if !schedule.ValidDate(input.TradeDate) {
		return model.NewInvalidDateError(input.TradeDate)
	}

	trade.Symbol = input.Symbol
	trade.Side = side
	trade.EntryPrice = entryPrice
	trade.ExitPrice = exitPrice
	trade.Quantity = quantity
	trade.Fee = fee
	trade.TradeDate = input.TradeDate
	trade.Note = input.Note

	return nil
}

// parsePositive は正のdecimal値をパースする。
func parsePositive(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil || !v.IsPositive() {
		return decimal.Zero, model.NewInvalidAmountError(s)
	}
	return v, nil
}

// summarize はトレード一覧から損益集計を算出する。
func summarize(trades []*model.TradeEntry) *PnLSummary {
	summary := &PnLSummary{TotalPnL: decimal.Zero, TradeCount: len(trades)}
	for _, trade := range trades {
		pnl := trade.ProfitLoss()
		summary.TotalPnL = summary.TotalPnL.Add(pnl)
		if pnl.IsPositive() {
			summary.WinCount++
		} else if pnl.IsNegative() {
			summary.LossCount++
		}
	}
	return summary
}
