package schedule

import (
	"testing"
	"time"

	"github.com/hitoshi/planboard/internal/model"
)

func ptr(s string) *string { return &s }

func notStarted(id, start string) *model.ScheduledItem {
	return &model.ScheduledItem{
		ID:                 id,
		Status:             model.ItemStatusNotStarted,
		ScheduledStartTime: ptr(start),
		OwnerDate:          "2025-03-10",
	}
}

// TestReconcile_FutureDateIsNoOp は未来日付のタスクが決して自動完了されないことを検証する。
func TestReconcile_FutureDateIsNoOp(t *testing.T) {
	r := NewReconciler(nil)
	loc := DefaultLocation()
	now := time.Date(2025, 3, 10, 23, 59, 0, 0, loc)

	items := []*model.ScheduledItem{
		notStarted("a", "00:00"),
		notStarted("b", "09:00"),
	}

	for _, date := range []string{"2025-03-11", "2025-04-01", "2026-01-01"} {
		if got := r.Reconcile(items, date, now); len(got) != 0 {
			t.Errorf("Reconcile(items, %q) = %v, want empty", date, got)
		}
	}
}

// TestReconcile_PastDateCatchUp は過去日付の古いタスクもまとめて掃除されることを検証する。
func TestReconcile_PastDateCatchUp(t *testing.T) {
	r := NewReconciler(nil)
	loc := DefaultLocation()
	// 数日ぶりに開いた想定: タスクは3/7、現在は3/10の早朝
	now := time.Date(2025, 3, 10, 0, 5, 0, 0, loc)

	items := []*model.ScheduledItem{
		notStarted("a", "09:00"),
		notStarted("b", "23:00"),
	}

	got := r.Reconcile(items, "2025-03-07", now)
	// 過去日付でも判定は現在時刻の分数に対して行われる。0:05では
	// どの開始時刻も超過していないため対象外となるのは仕様通り。
	if len(got) != 0 {
		t.Errorf("Reconcile at 00:05 = %v, want empty", got)
	}

	now = time.Date(2025, 3, 10, 23, 59, 0, 0, loc)
	got = r.Reconcile(items, "2025-03-07", now)
	if len(got) != 2 {
		t.Errorf("Reconcile at 23:59 returned %d ids, want 2", len(got))
	}
}

// TestReconcile_GraceWindowBoundary は30分猶予の境界が非包含であることを検証する。
// 09:00開始のタスクは09:29では対象外、09:30ちょうどでも対象外、09:31で対象。
func TestReconcile_GraceWindowBoundary(t *testing.T) {
	r := NewReconciler(nil)
	loc := DefaultLocation()
	items := []*model.ScheduledItem{notStarted("a", "09:00")}

	tests := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2025, 3, 10, 9, 29, 59, 0, loc), 0},
		{time.Date(2025, 3, 10, 9, 30, 0, 0, loc), 0},
		{time.Date(2025, 3, 10, 9, 30, 59, 0, loc), 0},
		{time.Date(2025, 3, 10, 9, 31, 0, 0, loc), 1},
		{time.Date(2025, 3, 10, 12, 0, 0, 0, loc), 1},
	}
	for _, tt := range tests {
		got := r.Reconcile(items, "2025-03-10", tt.now)
		if len(got) != tt.want {
			t.Errorf("Reconcile at %s returned %d ids, want %d",
				tt.now.Format("15:04:05"), len(got), tt.want)
		}
	}
}

// TestReconcile_EligibilityRequiresNotStartedAndTime はdone/missedおよび
// 開始時刻なしのタスクがどれだけ時間が経過しても対象外であることを検証する。
func TestReconcile_EligibilityRequiresNotStartedAndTime(t *testing.T) {
	r := NewReconciler(nil)
	loc := DefaultLocation()
	now := time.Date(2025, 3, 10, 23, 59, 0, 0, loc)

	items := []*model.ScheduledItem{
		{ID: "done", Status: model.ItemStatusDone, ScheduledStartTime: ptr("09:00")},
		{ID: "missed", Status: model.ItemStatusMissed, ScheduledStartTime: ptr("09:00")},
		{ID: "no-time", Status: model.ItemStatusNotStarted, ScheduledStartTime: nil},
		{ID: "eligible", Status: model.ItemStatusNotStarted, ScheduledStartTime: ptr("09:00")},
	}

	got := r.Reconcile(items, "2025-03-10", now)
	if len(got) != 1 || got[0] != "eligible" {
		t.Errorf("Reconcile = %v, want [eligible]", got)
	}
}

// TestReconcile_MalformedTimeIsSkipped は不正な時刻形式のタスクが
// バッチを失敗させずにスキップされることを検証する。
func TestReconcile_MalformedTimeIsSkipped(t *testing.T) {
	r := NewReconciler(nil)
	loc := DefaultLocation()
	now := time.Date(2025, 3, 10, 23, 59, 0, 0, loc)

	items := []*model.ScheduledItem{
		notStarted("bad1", "9:00"),
		notStarted("bad2", "25:00"),
		notStarted("bad3", "09:61"),
		notStarted("bad4", "morning"),
		notStarted("bad5", ""),
		notStarted("ok", "09:00"),
	}

	got := r.Reconcile(items, "2025-03-10", now)
	if len(got) != 1 || got[0] != "ok" {
		t.Errorf("Reconcile = %v, want [ok]", got)
	}
}

// TestReconcile_Idempotent は書き込み適用後の再実行が空を返すことを検証する。
func TestReconcile_Idempotent(t *testing.T) {
	r := NewReconciler(nil)
	loc := DefaultLocation()
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, loc)

	items := []*model.ScheduledItem{
		notStarted("a", "09:00"),
		notStarted("b", "09:15"),
	}

	first := r.Reconcile(items, "2025-03-10", now)
	if len(first) != 2 {
		t.Fatalf("first Reconcile returned %d ids, want 2", len(first))
	}

	// 呼び出し側が書き込みを適用した状態を再現
	for _, item := range items {
		item.Status = model.ItemStatusDone
	}

	second := r.Reconcile(items, "2025-03-10", now)
	if len(second) != 0 {
		t.Errorf("second Reconcile = %v, want empty", second)
	}
}

// TestReconcile_EmptyInput は空入力が空出力になることを検証する。
func TestReconcile_EmptyInput(t *testing.T) {
	r := NewReconciler(nil)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, DefaultLocation())
	if got := r.Reconcile(nil, "2025-03-10", now); len(got) != 0 {
		t.Errorf("Reconcile(nil) = %v, want empty", got)
	}
}

// TestReconcile_MalformedOwnerDate は不正な所属日付で安全に空を返すことを検証する。
func TestReconcile_MalformedOwnerDate(t *testing.T) {
	r := NewReconciler(nil)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, DefaultLocation())
	items := []*model.ScheduledItem{notStarted("a", "09:00")}
	for _, date := range []string{"", "not-a-date", "2025/03/10"} {
		if got := r.Reconcile(items, date, now); len(got) != 0 {
			t.Errorf("Reconcile(%q) = %v, want empty", date, got)
		}
	}
}

// TestReconcile_ReferenceTimeZone は判定がUTCではなく基準タイムゾーン
// （UTC+7）で行われることを検証する。
func TestReconcile_ReferenceTimeZone(t *testing.T) {
	r := NewReconciler(nil)
	// UTC 18:00 = ICT翌日01:00。ICT基準では3/11が今日になる。
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

	items := []*model.ScheduledItem{notStarted("a", "00:00")}

	// 3/11はICTでは今日なので対象（01:00 > 00:00+30分）
	if got := r.Reconcile(items, "2025-03-11", now); len(got) != 1 {
		t.Errorf("Reconcile for ICT-today = %v, want 1 id", got)
	}
	// 3/12はICTでも未来なので対象外
	if got := r.Reconcile(items, "2025-03-12", now); len(got) != 0 {
		t.Errorf("Reconcile for ICT-tomorrow = %v, want empty", got)
	}
}

// TestParseClock は時刻パースの境界値を検証する。
func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantOK  bool
	}{
		{"00:00", 0, true},
		{"09:00", 540, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"9:00", 0, false},
		{"0900", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseClock(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("parseClock(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
