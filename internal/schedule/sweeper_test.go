package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hitoshi/planboard/internal/model"
)

// --- モック ---

type mockItemLister struct {
	listFn func(ctx context.Context, userID, ownerDate string) ([]*model.ScheduledItem, error)
}

func (m *mockItemLister) ListByOwnerDate(ctx context.Context, userID, ownerDate string) ([]*model.ScheduledItem, error) {
	return m.listFn(ctx, userID, ownerDate)
}

type mockStatusUpdater struct {
	updateFn func(ctx context.Context, id string, status model.ItemStatus) error
	calls    []string
}

func (m *mockStatusUpdater) UpdateStatus(ctx context.Context, id string, status model.ItemStatus) error {
	m.calls = append(m.calls, id)
	if m.updateFn != nil {
		return m.updateFn(ctx, id, status)
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestSweeper_SweepItems は判定結果ごとにdoneへの書き込みが発行されることを検証する。
func TestSweeper_SweepItems(t *testing.T) {
	updater := &mockStatusUpdater{}
	s := NewSweeper(nil, updater, NewReconciler(nil), testLogger(), nil)

	loc := DefaultLocation()
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, loc)
	items := []*model.ScheduledItem{
		notStarted("a", "09:00"),
		notStarted("b", "09:45"), // 猶予内
		{ID: "c", Status: model.ItemStatusDone, ScheduledStartTime: ptr("08:00")},
	}

	result := s.SweepItems(context.Background(), items, "2025-03-10", now)

	if len(result.CompletedIDs) != 1 || result.CompletedIDs[0] != "a" {
		t.Errorf("CompletedIDs = %v, want [a]", result.CompletedIDs)
	}
	if len(result.Failures) != 0 {
		t.Errorf("Failures = %v, want empty", result.Failures)
	}
	if len(updater.calls) != 1 || updater.calls[0] != "a" {
		t.Errorf("UpdateStatus calls = %v, want [a]", updater.calls)
	}
}

// TestSweeper_WriteFailureDoesNotAbortBatch は個別の書き込み失敗が
// 他のタスクの書き込みを妨げず、判定結果にも影響しないことを検証する。
func TestSweeper_WriteFailureDoesNotAbortBatch(t *testing.T) {
	updater := &mockStatusUpdater{
		updateFn: func(ctx context.Context, id string, status model.ItemStatus) error {
			if id == "b" {
				return errors.New("store unavailable")
			}
			return nil
		},
	}
	s := NewSweeper(nil, updater, NewReconciler(nil), testLogger(), nil)

	loc := DefaultLocation()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, loc)
	items := []*model.ScheduledItem{
		notStarted("a", "09:00"),
		notStarted("b", "09:05"),
		notStarted("c", "09:10"),
	}

	result := s.SweepItems(context.Background(), items, "2025-03-10", now)

	if len(result.CompletedIDs) != 3 {
		t.Errorf("CompletedIDs = %v, want 3 ids", result.CompletedIDs)
	}
	if len(result.Failures) != 1 || result.Failures[0].ItemID != "b" {
		t.Errorf("Failures = %v, want one failure for b", result.Failures)
	}
	if len(updater.calls) != 3 {
		t.Errorf("UpdateStatus was called %d times, want 3", len(updater.calls))
	}
}

// TestSweeper_SweepDay は取得→判定→書き込みの一連の流れを検証する。
func TestSweeper_SweepDay(t *testing.T) {
	lister := &mockItemLister{
		listFn: func(ctx context.Context, userID, ownerDate string) ([]*model.ScheduledItem, error) {
			if userID != "user-1" || ownerDate != "2025-03-10" {
				t.Errorf("ListByOwnerDate(%q, %q), want (user-1, 2025-03-10)", userID, ownerDate)
			}
			return []*model.ScheduledItem{notStarted("a", "08:00")}, nil
		},
	}
	updater := &mockStatusUpdater{}
	s := NewSweeper(lister, updater, NewReconciler(nil), testLogger(), nil)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, DefaultLocation())
	result, err := s.SweepDay(context.Background(), "user-1", "2025-03-10", now)
	if err != nil {
		t.Fatalf("SweepDay returned error: %v", err)
	}
	if len(result.CompletedIDs) != 1 {
		t.Errorf("CompletedIDs = %v, want 1 id", result.CompletedIDs)
	}
}

// TestSweeper_SweepDay_ListFailure は取得失敗時のみエラーが返ることを検証する。
func TestSweeper_SweepDay_ListFailure(t *testing.T) {
	lister := &mockItemLister{
		listFn: func(ctx context.Context, userID, ownerDate string) ([]*model.ScheduledItem, error) {
			return nil, errors.New("connection refused")
		},
	}
	s := NewSweeper(lister, &mockStatusUpdater{}, NewReconciler(nil), testLogger(), nil)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, DefaultLocation())
	if _, err := s.SweepDay(context.Background(), "user-1", "2025-03-10", now); err == nil {
		t.Fatal("expected error when list fails, got nil")
	}
}
