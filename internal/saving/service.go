// Package saving は夫婦貯金トラッカーのドメインロジックを提供する。
package saving

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

// EntryInput は記帳エントリの作成・更新の入力。
// Amountは入金なら正、引き出しなら負の文字列表現。
type EntryInput struct {
	Amount    string
	Note      string
	EntryDate string
}

// Summary は貯金の集計結果。
type Summary struct {
	Total      decimal.Decimal
	EntryCount int
}

// Service は夫婦貯金トラッカーのサービス層。
type Service struct {
	entryRepo repository.SavingEntryRepository
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(entryRepo repository.SavingEntryRepository) *Service {
	return &Service{
		entryRepo: entryRepo,
		now:       time.Now,
	}
}

// ListEntries はユーザーの記帳エントリ一覧を記帳日降順で返す。
func (s *Service) ListEntries(ctx context.Context, userID string) ([]*model.SavingEntry, error) {
	entries, err := s.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("記帳エントリ一覧の取得に失敗しました: %w", err)
	}
	return entries, nil
}

// GetSummary は記帳合計と件数を返す。
func (s *Service) GetSummary(ctx context.Context, userID string) (*Summary, error) {
	entries, err := s.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("記帳エントリ一覧の取得に失敗しました: %w", err)
	}

	total, err := s.entryRepo.SumByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("記帳合計の取得に失敗しました: %w", err)
	}

	return &Summary{Total: total, EntryCount: len(entries)}, nil
}

// CreateEntry は記帳エントリを作成する。
func (s *Service) CreateEntry(ctx context.Context, userID string, input EntryInput) (*model.SavingEntry, error) {
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if !schedule.ValidDate(input.EntryDate) {
		return nil, model.NewInvalidDateError(input.EntryDate)
	}

	now := s.now()
	entry := &model.SavingEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Amount:    amount,
		Note:      input.Note,
		EntryDate: input.EntryDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("記帳エントリの作成に失敗しました: %w", err)
	}

	return entry, nil
}

// UpdateEntry は記帳エントリを更新する。
func (s *Service) UpdateEntry(ctx context.Context, userID, entryID string, input EntryInput) (*model.SavingEntry, error) {
	entry, err := s.findOwned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if !schedule.ValidDate(input.EntryDate) {
		return nil, model.NewInvalidDateError(input.EntryDate)
	}

	entry.Amount = amount
	entry.Note = input.Note
	entry.EntryDate = input.EntryDate

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("記帳エントリの更新に失敗しました: %w", err)
	}

	return entry, nil
}

// DeleteEntry は記帳エントリを削除する。
func (s *Service) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if _, err := s.findOwned(ctx, userID, entryID); err != nil {
		return err
	}

	if err := s.entryRepo.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("記帳エントリの削除に失敗しました: %w", err)
	}

	return nil
}

// findOwned はエントリを取得し、所有者を検証する。
func (s *Service) findOwned(ctx context.Context, userID, entryID string) (*model.SavingEntry, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("記帳エントリの取得に失敗しました: %w", err)
	}
	if entry == nil || entry.UserID != userID {
		return nil, model.NewEntryNotFoundError(entryID)
	}
	return entry, nil
}

// parseAmount は金額文字列をdecimalに変換する。ゼロは許可しない。
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, model.NewInvalidAmountError(s)
	}
	if amount.IsZero() {
		return decimal.Zero, model.NewInvalidAmountError(s)
	}
	return amount, nil
}
