// Package schedule はデイリータスクの自動整合（期限超過タスクの自動完了）を提供する。
// 純粋な判定ロジック（Reconciler）と永続化を伴う実行（Sweeper）を分離する。
package schedule

import (
	"strconv"
	"time"

	"github.com/hitoshi/planboard/internal/model"
)

// GraceMinutes は開始予定時刻からタスクが自動完了対象になるまでの猶予（分）。
// タスクごとの設定は許可しない固定値。
const GraceMinutes = 30

// dateLayout は所属日付の形式。
const dateLayout = "2006-01-02"

// DefaultLocation はアプリケーション全体で使用する基準タイムゾーン
// （UTC+7、インドシナ時間）を返す。日付・時刻の比較はすべてこの
// タイムゾーンで行う。
func DefaultLocation() *time.Location {
	return time.FixedZone("ICT", 7*60*60)
}

// Reconciler は期限超過タスクの判定を行う。
// 副作用を持たず、判定結果のID一覧を返すのみで書き込みは行わない。
type Reconciler struct {
	loc *time.Location
}

// NewReconciler はReconcilerを生成する。locがnilの場合は基準タイムゾーンを使用する。
func NewReconciler(loc *time.Location) *Reconciler {
	if loc == nil {
		loc = DefaultLocation()
	}
	return &Reconciler{loc: loc}
}

// Reconcile は1日分のタスクのうち自動完了すべきタスクのID一覧を返す。
//
// ownerDateが基準タイムゾーンでの「今日」より未来の場合は常に空を返す
// （まだ始まっていない日のタスクを完了させない）。過去の日付は対象で、
// 数日ぶりに開いたユーザーの古いタスクもまとめて掃除される。
//
// 対象条件: 状態がnot_started、開始予定時刻が設定済み、かつ現在時刻が
// 開始予定時刻+猶予を分単位で厳密に超えていること。時刻が不正な形式の
// タスクは対象外としてスキップし、バッチ全体は継続する。
//
// 書き込みは呼び出し側の責務であり、書き込み適用後に再度呼び出すと
// 該当タスクはnot_startedでなくなるため空が返る（冪等）。
func (r *Reconciler) Reconcile(items []*model.ScheduledItem, ownerDate string, now time.Time) []string {
	if _, err := time.ParseInLocation(dateLayout, ownerDate, r.loc); err != nil {
		return nil
	}

	localNow := now.In(r.loc)
	today := localNow.Format(dateLayout)
	if ownerDate > today {
		return nil
	}

	nowMinutes := localNow.Hour()*60 + localNow.Minute()

	var overdue []string
	for _, item := range items {
		if item.Status != model.ItemStatusNotStarted {
			continue
		}
		if item.ScheduledStartTime == nil {
			continue
		}
		startMinutes, ok := parseClock(*item.ScheduledStartTime)
		if !ok {
			continue
		}
		if nowMinutes > startMinutes+GraceMinutes {
			overdue = append(overdue, item.ID)
		}
	}
	return overdue
}

// ValidDate は文字列が"YYYY-MM-DD"形式の有効な日付かを返す。
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil && len(s) == len(dateLayout)
}

// ValidClock は文字列が"HH:MM"形式の有効な時刻かを返す。
func ValidClock(s string) bool {
	_, ok := parseClock(s)
	return ok
}

// parseClock は"HH:MM"形式の時刻を0時からの経過分に変換する。
// 形式不正の場合はfalseを返す。
func parseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	hour, err := strconv.Atoi(s[:2])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(s[3:])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
