// Package model はドメインモデルを定義する。
package model

import "time"

// ClassSession は学校プランナーの授業コマを表す。
// DayOfWeekは0（日曜）〜6（土曜）。StartTime/EndTimeは"HH:MM"形式。
type ClassSession struct {
	ID        string
	UserID    string
	Subject   string
	Room      string
	DayOfWeek int
	StartTime string
	EndTime   string
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assignment は課題を表す。ClassIDがnilの場合は授業に紐付かない課題。
type Assignment struct {
	ID        string
	UserID    string
	ClassID   *string
	Title     string
	DueDate   string // "YYYY-MM-DD"（基準タイムゾーン）
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
