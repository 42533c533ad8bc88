// Package chat はアシスタントとの会話履歴のドメインロジックを提供する。
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/repository"
)

// defaultHistoryLimit は履歴取得のデフォルト件数。
const defaultHistoryLimit = 100

// maxMessageLength はメッセージ本文の最大文字数。
const maxMessageLength = 4000

// Responder はユーザーの発言に対する応答を生成するインターフェース。
// 外部のAIサービスへの接続は行わず、実装を差し替え可能にしておく。
type Responder interface {
	Respond(ctx context.Context, userID, message string) (string, error)
}

// EchoResponder は定型応答を返すResponderの実装。
type EchoResponder struct{}

// Respond は受け取ったメッセージを添えた定型応答を返す。
func (EchoResponder) Respond(ctx context.Context, userID, message string) (string, error) {
	return fmt.Sprintf("「%s」について承りました。現在アシスタント機能は準備中です。", truncate(message, 80)), nil
}

// Service はチャット履歴のサービス層。
type Service struct {
	messageRepo repository.ChatMessageRepository
	responder   Responder
	now         func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(messageRepo repository.ChatMessageRepository, responder Responder) *Service {
	return &Service{
		messageRepo: messageRepo,
		responder:   responder,
		now:         time.Now,
	}
}

// PostMessage はユーザーの発言を保存し、アシスタントの応答を生成して保存する。
// ユーザー発言とアシスタント応答の2件を返す。
func (s *Service) PostMessage(ctx context.Context, userID, body string) ([]*model.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, model.NewValidationError("メッセージ本文は必須です")
	}
	if len([]rune(body)) > maxMessageLength {
		return nil, model.NewValidationError("メッセージが長すぎます")
	}

	userMessage := &model.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    userID,
		Author:    model.ChatAuthorUser,
		Body:      body,
		CreatedAt: s.now(),
	}
	if err := s.messageRepo.Create(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("メッセージの保存に失敗しました: %w", err)
	}

	reply, err := s.responder.Respond(ctx, userID, body)
	if err != nil {
		return nil, fmt.Errorf("応答の生成に失敗しました: %w", err)
	}

	assistantMessage := &model.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    userID,
		Author:    model.ChatAuthorAssistant,
		Body:      reply,
		CreatedAt: s.now(),
	}
	if err := s.messageRepo.Create(ctx, assistantMessage); err != nil {
		return nil, fmt.Errorf("応答の保存に失敗しました: %w", err)
	}

	return []*model.ChatMessage{userMessage, assistantMessage}, nil
}

// GetHistory はユーザーの会話履歴を作成日時昇順で返す。
func (s *Service) GetHistory(ctx context.Context, userID string) ([]*model.ChatMessage, error) {
	messages, err := s.messageRepo.ListByUser(ctx, userID, defaultHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("会話履歴の取得に失敗しました: %w", err)
	}
	return messages, nil
}

// truncate は表示用にメッセージを切り詰める。
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
