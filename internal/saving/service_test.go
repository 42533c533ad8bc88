package saving

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/planboard/internal/model"
)

// mockEntryRepo はSavingEntryRepositoryのモック実装。
type mockEntryRepo struct {
	findByIDFunc   func(ctx context.Context, id string) (*model.SavingEntry, error)
	listByUserFunc func(ctx context.Context, userID string) ([]*model.SavingEntry, error)
	sumByUserFunc  func(ctx context.Context, userID string) (decimal.Decimal, error)
	createFunc     func(ctx context.Context, entry *model.SavingEntry) error
	updateFunc     func(ctx context.Context, entry *model.SavingEntry) error
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockEntryRepo) FindByID(ctx context.Context, id string) (*model.SavingEntry, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockEntryRepo) ListByUser(ctx context.Context, userID string) ([]*model.SavingEntry, error) {
	return m.listByUserFunc(ctx, userID)
}

func (m *mockEntryRepo) SumByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	return m.sumByUserFunc(ctx, userID)
}

func (m *mockEntryRepo) Create(ctx context.Context, entry *model.SavingEntry) error {
	return m.createFunc(ctx, entry)
}

func (m *mockEntryRepo) Update(ctx context.Context, entry *model.SavingEntry) error {
	return m.updateFunc(ctx, entry)
}

func (m *mockEntryRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

// TestCreateEntry は正負の金額での作成と検証エラーを検証する。
func TestCreateEntry(t *testing.T) {
	var created *model.SavingEntry
	repo := &mockEntryRepo{
		createFunc: func(ctx context.Context, entry *model.SavingEntry) error {
			created = entry
			return nil
		},
	}
	s := NewService(repo)

	// 入金
	entry, err := s.CreateEntry(context.Background(), "u1", EntryInput{
		Amount: "5000", Note: "3月分", EntryDate: "2025-03-10",
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if !entry.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("amount = %s, want 5000", entry.Amount)
	}
	if created == nil {
		t.Fatal("entry was not persisted")
	}

	// 引き出しは負の金額
	entry, err = s.CreateEntry(context.Background(), "u1", EntryInput{
		Amount: "-1200.50", EntryDate: "2025-03-11",
	})
	if err != nil {
		t.Fatalf("withdrawal entry failed: %v", err)
	}
	if !entry.Amount.IsNegative() {
		t.Errorf("withdrawal amount = %s, want negative", entry.Amount)
	}

	tests := []struct {
		name  string
		input EntryInput
	}{
		{"金額なし", EntryInput{Amount: "", EntryDate: "2025-03-10"}},
		{"金額不正", EntryInput{Amount: "abc", EntryDate: "2025-03-10"}},
		{"金額ゼロ", EntryInput{Amount: "0", EntryDate: "2025-03-10"}},
		{"日付不正", EntryInput{Amount: "100", EntryDate: "2025-3-10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateEntry(context.Background(), "u1", tt.input); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// TestGetSummary は合計と件数の集計を検証する。
func TestGetSummary(t *testing.T) {
	repo := &mockEntryRepo{
		listByUserFunc: func(ctx context.Context, userID string) ([]*model.SavingEntry, error) {
			return []*model.SavingEntry{{ID: "e1"}, {ID: "e2"}, {ID: "e3"}}, nil
		},
		sumByUserFunc: func(ctx context.Context, userID string) (decimal.Decimal, error) {
			return decimal.NewFromInt(8800), nil
		},
	}

	summary, err := NewService(repo).GetSummary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if !summary.Total.Equal(decimal.NewFromInt(8800)) {
		t.Errorf("total = %s, want 8800", summary.Total)
	}
	if summary.EntryCount != 3 {
		t.Errorf("entry count = %d, want 3", summary.EntryCount)
	}
}

// TestOwnership_OtherUsersEntryIsNotFound は他ユーザーのエントリ操作が
// 未検出エラーになることを検証する。
func TestOwnership_OtherUsersEntryIsNotFound(t *testing.T) {
	repo := &mockEntryRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.SavingEntry, error) {
			return &model.SavingEntry{ID: id, UserID: "someone-else"}, nil
		},
	}

	err := NewService(repo).DeleteEntry(context.Background(), "u1", "e1")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEntryNotFound {
		t.Errorf("error = %v, want ENTRY_NOT_FOUND", err)
	}
}
