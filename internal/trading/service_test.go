package trading

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/planboard/internal/model"
)

// mockTradeRepo はTradeEntryRepositoryのモック実装。
type mockTradeRepo struct {
	findByIDFunc    func(ctx context.Context, id string) (*model.TradeEntry, error)
	listByUserFunc  func(ctx context.Context, userID string) ([]*model.TradeEntry, error)
	listByGroupFunc func(ctx context.Context, groupID string) ([]*model.TradeEntry, error)
	createFunc      func(ctx context.Context, trade *model.TradeEntry) error
	updateFunc      func(ctx context.Context, trade *model.TradeEntry) error
	deleteFunc      func(ctx context.Context, id string) error
}

func (m *mockTradeRepo) FindByID(ctx context.Context, id string) (*model.TradeEntry, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockTradeRepo) ListByUser(ctx context.Context, userID string) ([]*model.TradeEntry, error) {
	return m.listByUserFunc(ctx, userID)
}

func (m *mockTradeRepo) ListByGroup(ctx context.Context, groupID string) ([]*model.TradeEntry, error) {
	return m.listByGroupFunc(ctx, groupID)
}

func (m *mockTradeRepo) Create(ctx context.Context, trade *model.TradeEntry) error {
	return m.createFunc(ctx, trade)
}

func (m *mockTradeRepo) Update(ctx context.Context, trade *model.TradeEntry) error {
	return m.updateFunc(ctx, trade)
}

func (m *mockTradeRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

// mockGroupRepo はPartnerGroupRepositoryのモック実装。
type mockGroupRepo struct {
	findByIDFunc        func(ctx context.Context, id string) (*model.PartnerGroup, error)
	createWithOwnerFunc func(ctx context.Context, group *model.PartnerGroup) error
	listByMemberFunc    func(ctx context.Context, userID string) ([]*model.PartnerGroup, error)
	addMemberFunc       func(ctx context.Context, groupID, userID string) error
	isMemberFunc        func(ctx context.Context, groupID, userID string) (bool, error)
}

func (m *mockGroupRepo) FindByID(ctx context.Context, id string) (*model.PartnerGroup, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockGroupRepo) CreateWithOwner(ctx context.Context, group *model.PartnerGroup) error {
	return m.createWithOwnerFunc(ctx, group)
}

func (m *mockGroupRepo) ListByMember(ctx context.Context, userID string) ([]*model.PartnerGroup, error) {
	return m.listByMemberFunc(ctx, userID)
}

func (m *mockGroupRepo) AddMember(ctx context.Context, groupID, userID string) error {
	return m.addMemberFunc(ctx, groupID, userID)
}

func (m *mockGroupRepo) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	return m.isMemberFunc(ctx, groupID, userID)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func trade(side model.TradeSide, entry, exit, qty, fee string) *model.TradeEntry {
	return &model.TradeEntry{
		Side:       side,
		EntryPrice: dec(entry),
		ExitPrice:  dec(exit),
		Quantity:   dec(qty),
		Fee:        dec(fee),
	}
}

// TestProfitLoss はlong/shortの損益計算を検証する。
func TestProfitLoss(t *testing.T) {
	tests := []struct {
		name  string
		trade *model.TradeEntry
		want  string
	}{
		{"long利益", trade(model.TradeSideLong, "100", "110", "2", "1"), "19"},
		{"long損失", trade(model.TradeSideLong, "100", "95", "2", "1"), "-11"},
		{"short利益", trade(model.TradeSideShort, "100", "90", "3", "2"), "28"},
		{"short損失", trade(model.TradeSideShort, "100", "105", "1", "0"), "-5"},
		{"小数数量", trade(model.TradeSideLong, "50000", "51000", "0.5", "10"), "490"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.trade.ProfitLoss()
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ProfitLoss() = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestGetSummary はP&L集計の勝敗カウントと合計を検証する。
func TestGetSummary(t *testing.T) {
	trades := []*model.TradeEntry{
		trade(model.TradeSideLong, "100", "110", "1", "0"),  // +10
		trade(model.TradeSideLong, "100", "90", "1", "0"),   // -10
		trade(model.TradeSideShort, "200", "180", "1", "5"), // +15
		trade(model.TradeSideLong, "100", "100", "1", "0"),  // 0
	}

	tradeRepo := &mockTradeRepo{
		listByUserFunc: func(ctx context.Context, userID string) ([]*model.TradeEntry, error) {
			return trades, nil
		},
	}

	s := NewService(tradeRepo, &mockGroupRepo{})
	summary, err := s.GetSummary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}

	if !summary.TotalPnL.Equal(dec("15")) {
		t.Errorf("TotalPnL = %s, want 15", summary.TotalPnL)
	}
	if summary.WinCount != 2 {
		t.Errorf("WinCount = %d, want 2", summary.WinCount)
	}
	if summary.LossCount != 1 {
		t.Errorf("LossCount = %d, want 1", summary.LossCount)
	}
	if summary.TradeCount != 4 {
		t.Errorf("TradeCount = %d, want 4", summary.TradeCount)
	}
}

// TestCreateTrade_Validation は入力検証を検証する。
func TestCreateTrade_Validation(t *testing.T) {
	s := NewService(&mockTradeRepo{
		createFunc: func(ctx context.Context, trade *model.TradeEntry) error { return nil },
	}, &mockGroupRepo{})

	valid := TradeInput{
		Symbol: "BTCUSDT", Side: "long",
		EntryPrice: "50000", ExitPrice: "51000", Quantity: "0.5", Fee: "10",
		TradeDate: "2025-03-10",
	}

	if _, err := s.CreateTrade(context.Background(), "u1", valid); err != nil {
		t.Fatalf("valid input failed: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(in TradeInput) TradeInput
	}{
		{"銘柄なし", func(in TradeInput) TradeInput { in.Symbol = ""; return in }},
		{"売買方向不正", func(in TradeInput) TradeInput { in.Side = "buy"; return in }},
		{"エントリー価格不正", func(in TradeInput) TradeInput { in.EntryPrice = "abc"; return in }},
		{"負の数量", func(in TradeInput) TradeInput { in.Quantity = "-1"; return in }},
		{"負の手数料", func(in TradeInput) TradeInput { in.Fee = "-5"; return in }},
		{"日付不正", func(in TradeInput) TradeInput { in.TradeDate = "03/10/2025"; return in }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateTrade(context.Background(), "u1", tt.mutate(valid)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// TestListGroupTrades_RequiresMembership は非メンバーが共有ジャーナルを
// 閲覧できないことを検証する。
func TestListGroupTrades_RequiresMembership(t *testing.T) {
	groupRepo := &mockGroupRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.PartnerGroup, error) {
			return &model.PartnerGroup{ID: id, Name: "g", OwnerID: "owner"}, nil
		},
		isMemberFunc: func(ctx context.Context, groupID, userID string) (bool, error) {
			return userID == "member", nil
		},
	}
	tradeRepo := &mockTradeRepo{
		listByGroupFunc: func(ctx context.Context, groupID string) ([]*model.TradeEntry, error) {
			return []*model.TradeEntry{}, nil
		},
	}

	s := NewService(tradeRepo, groupRepo)

	if _, err := s.ListGroupTrades(context.Background(), "member", "g1"); err != nil {
		t.Errorf("member should be able to list group trades: %v", err)
	}

	_, err := s.ListGroupTrades(context.Background(), "outsider", "g1")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeNotGroupMember {
		t.Errorf("error = %v, want NOT_GROUP_MEMBER", err)
	}
}

// TestAddMember_OwnerOnly はメンバー追加がオーナー専用であることを検証する。
func TestAddMember_OwnerOnly(t *testing.T) {
	groupRepo := &mockGroupRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.PartnerGroup, error) {
			return &model.PartnerGroup{ID: id, OwnerID: "owner"}, nil
		},
		addMemberFunc: func(ctx context.Context, groupID, userID string) error {
			return nil
		},
	}

	s := NewService(&mockTradeRepo{}, groupRepo)

	if err := s.AddMember(context.Background(), "owner", "g1", "new-member"); err != nil {
		t.Errorf("owner should be able to add members: %v", err)
	}
	if err := s.AddMember(context.Background(), "member", "g1", "new-member"); err == nil {
		t.Error("non-owner should not be able to add members")
	}
}

// TestCreateGroup はグループ作成時にオーナーが設定されることを検証する。
func TestCreateGroup(t *testing.T) {
	var created *model.PartnerGroup
	groupRepo := &mockGroupRepo{
		createWithOwnerFunc: func(ctx context.Context, group *model.PartnerGroup) error {
			created = group
			return nil
		},
	}

	s := NewService(&mockTradeRepo{}, groupRepo)
	s.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	group, err := s.CreateGroup(context.Background(), "owner", "スイングトレード会")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if created == nil || created.OwnerID != "owner" {
		t.Error("group owner was not set")
	}
	if group.Name != "スイングトレード会" {
		t.Errorf("group name = %q", group.Name)
	}

	if _, err := s.CreateGroup(context.Background(), "owner", ""); err == nil {
		t.Error("expected error for empty group name")
	}
}

// TestFindEditable_SoloTradeOwnership は個人ジャーナルのトレードを
// 他人が編集できないことを検証する。
func TestFindEditable_SoloTradeOwnership(t *testing.T) {
	tradeRepo := &mockTradeRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.TradeEntry, error) {
			return &model.TradeEntry{ID: id, UserID: "owner", GroupID: nil}, nil
		},
		deleteFunc: func(ctx context.Context, id string) error { return nil },
	}

	s := NewService(tradeRepo, &mockGroupRepo{})

	if err := s.DeleteTrade(context.Background(), "owner", "t1"); err != nil {
		t.Errorf("owner should be able to delete: %v", err)
	}

	err := s.DeleteTrade(context.Background(), "other", "t1")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeTradeNotFound {
		t.Errorf("error = %v, want TRADE_NOT_FOUND", err)
	}
}
