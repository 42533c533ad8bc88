package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PendingDay はスイープ対象となる（ユーザー, 日付）の組を表す。
type PendingDay struct {
	UserID    string
	OwnerDate string
}

// PendingDayLister はスイープ対象の組を列挙するインターフェース。
// upTo（今日）以前の日付で、開始予定時刻付きのnot_startedタスクが
// 残っている組を返す。
type PendingDayLister interface {
	ListPendingDays(ctx context.Context, upTo string) ([]PendingDay, error)
}

// Worker は定期的にスイープを実行するバックグラウンドワーカー。
// 画面からの読み取り時スイープとは独立に動作し、誰も画面を開かなくても
// 期限超過タスクが掃除されるようにする。スイープは冪等なため、両者の
// 重複実行や多重起動による調整は不要。
type Worker struct {
	pending PendingDayLister
	sweeper *Sweeper
	logger  *slog.Logger
	loc     *time.Location

	now func() time.Time // テストで差し替え可能
}

// NewWorker はWorkerを生成する。locがnilの場合は基準タイムゾーンを使用する。
func NewWorker(pending PendingDayLister, sweeper *Sweeper, logger *slog.Logger, loc *time.Location) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = DefaultLocation()
	}
	return &Worker{
		pending: pending,
		sweeper: sweeper,
		logger:  logger,
		loc:     loc,
		now:     time.Now,
	}
}

// Start は指定間隔のティッカーでワーカーを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (w *Worker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("スイープワーカーを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	if err := w.RunOnce(ctx); err != nil {
		w.logger.Error("スイープサイクルの実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("スイープワーカーを停止しました")
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				w.logger.Error("スイープサイクルの実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce はスイープ対象の組を1回列挙し、順次スイープを実行する。
// 個別の組の失敗はログに記録して残りを継続する。
func (w *Worker) RunOnce(ctx context.Context) error {
	start := w.now()
	today := start.In(w.loc).Format(dateLayout)

	days, err := w.pending.ListPendingDays(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to list pending days: %w", err)
	}

	if len(days) == 0 {
		return nil
	}

	completed := 0
	for _, d := range days {
		result, err := w.sweeper.SweepDay(ctx, d.UserID, d.OwnerDate, w.now())
		if err != nil {
			w.logger.Error("スイープに失敗しました",
				slog.String("user_id", d.UserID),
				slog.String("owner_date", d.OwnerDate),
				slog.String("error", err.Error()),
			)
			continue
		}
		completed += len(result.CompletedIDs) - len(result.Failures)
	}

	w.logger.Info("スイープサイクルが完了しました",
		slog.Int("day_count", len(days)),
		slog.Int("completed", completed),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return nil
}
