// Package model はドメインモデルを定義する。
package model

import "time"

// ChatAuthor はチャットメッセージの発言者種別を表す。
type ChatAuthor string

const (
	// ChatAuthorUser はユーザーの発言。
	ChatAuthorUser ChatAuthor = "user"
	// ChatAuthorAssistant はアシスタントの応答。
	ChatAuthorAssistant ChatAuthor = "assistant"
)

// ChatMessage はアシスタントとの会話履歴の1件を表す。
type ChatMessage struct {
	ID        string
	UserID    string
	Author    ChatAuthor
	Body      string
	CreatedAt time.Time
}
