package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/planboard/internal/model"
)

// ItemLister はスイープ対象タスクの取得インターフェース。
// repository.ScheduledItemRepositoryの部分集合として定義する。
type ItemLister interface {
	ListByOwnerDate(ctx context.Context, userID, ownerDate string) ([]*model.ScheduledItem, error)
}

// ItemStatusUpdater はタスク状態の書き込みインターフェース。
type ItemStatusUpdater interface {
	UpdateStatus(ctx context.Context, id string, status model.ItemStatus) error
}

// SweepMetrics はスイープ結果のメトリクス記録インターフェース。
type SweepMetrics interface {
	RecordSweep(completed, failed int)
}

// WriteFailure は個別タスクの書き込み失敗を表す。
type WriteFailure struct {
	ItemID string
	Err    error
}

// SweepResult は1回のスイープの結果を表す。
// CompletedIDsは判定で自動完了対象となったID（書き込み失敗分も含む）。
// 判定と永続化は分離されており、書き込み失敗は判定結果を無効化しない。
type SweepResult struct {
	CompletedIDs []string
	Failures     []WriteFailure
}

// Sweeper は期限超過タスクの判定と書き込みを実行する。
// Reconcilerの判定結果に基づきdoneへの状態更新を発行し、個別の
// 書き込み失敗はバッチを中断せず収集して返す。
type Sweeper struct {
	lister     ItemLister
	updater    ItemStatusUpdater
	reconciler *Reconciler
	logger     *slog.Logger
	metrics    SweepMetrics
}

// NewSweeper はSweeperを生成する。metricsはnil可。
func NewSweeper(
	lister ItemLister,
	updater ItemStatusUpdater,
	reconciler *Reconciler,
	logger *slog.Logger,
	metrics SweepMetrics,
) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		lister:     lister,
		updater:    updater,
		reconciler: reconciler,
		logger:     logger,
		metrics:    metrics,
	}
}

// SweepItems はロード済みのタスク一覧に対してスイープを実行する。
// 一覧表示で既にタスクを取得済みの呼び出し側が再クエリを避けるために使う。
func (s *Sweeper) SweepItems(ctx context.Context, items []*model.ScheduledItem, ownerDate string, now time.Time) *SweepResult {
	result := &SweepResult{
		CompletedIDs: s.reconciler.Reconcile(items, ownerDate, now),
	}

	for _, id := range result.CompletedIDs {
		if err := s.updater.UpdateStatus(ctx, id, model.ItemStatusDone); err != nil {
			// 個別の失敗は次回パスで再試行されるため、残りの書き込みを継続する
			s.logger.Warn("自動完了の書き込みに失敗しました",
				slog.String("item_id", id),
				slog.String("owner_date", ownerDate),
				slog.String("error", err.Error()),
			)
			result.Failures = append(result.Failures, WriteFailure{ItemID: id, Err: err})
		}
	}

	if s.metrics != nil {
		s.metrics.RecordSweep(len(result.CompletedIDs)-len(result.Failures), len(result.Failures))
	}

	if len(result.CompletedIDs) > 0 {
		s.logger.Info("期限超過タスクを自動完了しました",
			slog.String("owner_date", ownerDate),
			slog.Int("completed", len(result.CompletedIDs)-len(result.Failures)),
			slog.Int("failed", len(result.Failures)),
		)
	}

	return result
}

// SweepDay は指定ユーザー・日付のタスクを取得してスイープを実行する。
// 取得自体に失敗した場合のみエラーを返す。
func (s *Sweeper) SweepDay(ctx context.Context, userID, ownerDate string, now time.Time) (*SweepResult, error) {
	items, err := s.lister.ListByOwnerDate(ctx, userID, ownerDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list items for sweep: %w", err)
	}
	return s.SweepItems(ctx, items, ownerDate, now), nil
}
