// Package planner はデイリータスクのドメインロジックを提供する。
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/repository"
	"github.com/hitoshi/planboard/internal/schedule"
)

// CreateItemInput はタスク作成の入力。
type CreateItemInput struct {
	Title              string
	Note               string
	ScheduledStartTime *string
	OwnerDate          string
}

// UpdateItemInput はタスク更新の入力。
type UpdateItemInput struct {
	Title              string
	Note               string
	ScheduledStartTime *string
	OwnerDate          string
}

// Service はデイリータスクのサービス層。
// 一覧取得時に期限超過タスクの自動整合（スイープ）を実行する。
type Service struct {
	itemRepo repository.ScheduledItemRepository
	sweeper  *schedule.Sweeper
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(itemRepo repository.ScheduledItemRepository, sweeper *schedule.Sweeper) *Service {
	return &Service{
		itemRepo: itemRepo,
		sweeper:  sweeper,
		now:      time.Now,
	}
}

// ListDay は指定日付のタスク一覧を返す。
// 返却前にスイープを実行し、自動完了されたタスクは更新後の状態で返す。
// 個別の書き込み失敗があっても一覧は返す（次回パスで再試行される）。
func (s *Service) ListDay(ctx context.Context, userID, ownerDate string) ([]*model.ScheduledItem, error) {
	if !schedule.ValidDate(ownerDate) {
		return nil, model.NewInvalidDateError(ownerDate)
	}

	items, err := s.itemRepo.ListByOwnerDate(ctx, userID, ownerDate)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
	}

	result := s.sweeper.SweepItems(ctx, items, ownerDate, s.now())

	// 書き込みに成功した自動完了分を返却用の一覧に反映する
	failed := make(map[string]struct{}, len(result.Failures))
	for _, f := range result.Failures {
		failed[f.ItemID] = struct{}{}
	}
	completed := make(map[string]struct{}, len(result.CompletedIDs))
	for _, id := range result.CompletedIDs {
		if _, ok := failed[id]; !ok {
			completed[id] = struct{}{}
		}
	}
	for _, item := range items {
		if _, ok := completed[item.ID]; ok {
			item.Status = model.ItemStatusDone
		}
	}

	return items, nil
}

// CreateItem はタスクを作成する。初期状態はnot_started。
func (s *Service) CreateItem(ctx context.Context, userID string, input CreateItemInput) (*model.ScheduledItem, error) {
	if input.Title == "" {
		return nil, model.NewValidationError("タイトルは必須です")
	}
	if !schedule.ValidDate(input.OwnerDate) {
		return nil, model.NewInvalidDateError(input.OwnerDate)
	}
	if input.ScheduledStartTime != nil && !schedule.ValidClock(*input.ScheduledStartTime) {
		return nil, model.NewInvalidTimeError(*input.ScheduledStartTime)
	}

	now := s.now()
	item := &model.ScheduledItem{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Title:              input.Title,
		Note:               input.Note,
		Status:             model.ItemStatusNotStarted,
		ScheduledStartTime: input.ScheduledStartTime,
		OwnerDate:          input.OwnerDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("タスクの作成に失敗しました: %w", err)
	}

	return item, nil
}

// UpdateItem はタスクの内容を更新する。状態はSetStatusでのみ変更する。
func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, input UpdateItemInput) (*model.ScheduledItem, error) {
	item, err := s.findOwned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, model.NewValidationError("タイトルは必須です")
	}
	if !schedule.ValidDate(input.OwnerDate) {
		return nil, model.NewInvalidDateError(input.OwnerDate)
	}
	if input.ScheduledStartTime != nil && !schedule.ValidClock(*input.ScheduledStartTime) {
		return nil, model.NewInvalidTimeError(*input.ScheduledStartTime)
	}

	item.Title = input.Title
	item.Note = input.Note
	item.ScheduledStartTime = input.ScheduledStartTime
	item.OwnerDate = input.OwnerDate

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("タスクの更新に失敗しました: %w", err)
	}

	return item, nil
}

// SetStatus はタスクの状態を更新する。
// not_started、done、missedの3値間は任意に遷移できる（手動操作優先）。
func (s *Service) SetStatus(ctx context.Context, userID, itemID string, status model.ItemStatus) error {
	if !status.Valid() {
		return model.NewInvalidStatusError(string(status))
	}

	if _, err := s.findOwned(ctx, userID, itemID); err != nil {
		return err
	}

	if err := s.itemRepo.UpdateStatus(ctx, itemID, status); err != nil {
		return fmt.Errorf("タスク状態の更新に失敗しました: %w", err)
	}

	return nil
}

// DeleteItem はタスクを削除する。
func (s *Service) DeleteItem(ctx context.Context, userID, itemID string) error {
	if _, err := s.findOwned(ctx, userID, itemID); err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("タスクの削除に失敗しました: %w", err)
	}

	return nil
}

// findOwned はタスクを取得し、所有者を検証する。
// 他ユーザーのタスクは存在を漏らさないよう未検出として扱う。
func (s *Service) findOwned(ctx context.Context, userID, itemID string) (*model.ScheduledItem, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if item == nil || item.UserID != userID {
		return nil, model.NewItemNotFoundError(itemID)
	}
	return item, nil
}
