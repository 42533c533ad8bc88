// Package model はドメインモデルを定義する。
package model

import "time"

// ItemStatus はデイリータスクの状態を表す。
type ItemStatus string

const (
	// ItemStatusNotStarted は未着手状態。作成直後の初期値。
	ItemStatusNotStarted ItemStatus = "not_started"
	// ItemStatusDone は完了状態。ユーザー操作または自動整合で遷移する。
	ItemStatusDone ItemStatus = "done"
	// ItemStatusMissed は未達成状態。ユーザー操作でのみ遷移する。
	ItemStatusMissed ItemStatus = "missed"
)

// ParseItemStatus は文字列をItemStatusに変換する。未知の値は空を返す。
func ParseItemStatus(s string) ItemStatus {
	switch ItemStatus(s) {
	case ItemStatusNotStarted, ItemStatusDone, ItemStatusMissed:
		return ItemStatus(s)
	default:
		return ItemStatus("")
	}
}

// Valid は状態が定義済みの3値のいずれかであるかを返す。
func (s ItemStatus) Valid() bool {
	return s == ItemStatusNotStarted || s == ItemStatusDone || s == ItemStatusMissed
}

// ScheduledItem は日付に紐付くデイリータスクを表す。
//
// ScheduledStartTimeは"HH:MM"形式の開始予定時刻で、未設定（nil）の
// タスクは自動完了の対象にならない。OwnerDateは基準タイムゾーンで
// 解釈される"YYYY-MM-DD"形式の所属日付。
type ScheduledItem struct {
	ID                 string
	UserID             string
	Title              string
	Note               string
	Status             ItemStatus
	ScheduledStartTime *string
	OwnerDate          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
