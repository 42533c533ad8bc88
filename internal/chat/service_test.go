package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hitoshi/planboard/internal/model"
)

// mockMessageRepo はChatMessageRepositoryのモック実装。
type mockMessageRepo struct {
	createFunc     func(ctx context.Context, message *model.ChatMessage) error
	listByUserFunc func(ctx context.Context, userID string, limit int) ([]*model.ChatMessage, error)
}

func (m *mockMessageRepo) Create(ctx context.Context, message *model.ChatMessage) error {
	return m.createFunc(ctx, message)
}

func (m *mockMessageRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ChatMessage, error) {
	return m.listByUserFunc(ctx, userID, limit)
}

// TestPostMessage はユーザー発言と応答の2件が保存されることを検証する。
func TestPostMessage(t *testing.T) {
	var saved []*model.ChatMessage
	repo := &mockMessageRepo{
		createFunc: func(ctx context.Context, message *model.ChatMessage) error {
			saved = append(saved, message)
			return nil
		},
	}

	s := NewService(repo, EchoResponder{})
	messages, err := s.PostMessage(context.Background(), "u1", "今週の予定を教えて")
	if err != nil {
		t.Fatalf("PostMessage failed: %v", err)
	}

	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Author != model.ChatAuthorUser {
		t.Errorf("first author = %q, want user", messages[0].Author)
	}
	if messages[1].Author != model.ChatAuthorAssistant {
		t.Errorf("second author = %q, want assistant", messages[1].Author)
	}
	if len(saved) != 2 {
		t.Errorf("persisted %d messages, want 2", len(saved))
	}
}

// TestPostMessage_Validation は空メッセージと過長メッセージの拒否を検証する。
func TestPostMessage_Validation(t *testing.T) {
	s := NewService(&mockMessageRepo{}, EchoResponder{})

	if _, err := s.PostMessage(context.Background(), "u1", "   "); err == nil {
		t.Error("expected error for blank message")
	}

	long := strings.Repeat("あ", maxMessageLength+1)
	if _, err := s.PostMessage(context.Background(), "u1", long); err == nil {
		t.Error("expected error for overlong message")
	}
}

// TestPostMessage_ResponderError は応答生成の失敗がエラーになることを検証する。
type failingResponder struct{}

func (failingResponder) Respond(ctx context.Context, userID, message string) (string, error) {
	return "", errors.New("responder down")
}

func TestPostMessage_ResponderError(t *testing.T) {
	repo := &mockMessageRepo{
		createFunc: func(ctx context.Context, message *model.ChatMessage) error { return nil },
	}

	s := NewService(repo, failingResponder{})
	if _, err := s.PostMessage(context.Background(), "u1", "hello"); err == nil {
		t.Error("expected error when responder fails")
	}
}

// TestGetHistory は履歴が取得されることを検証する。
func TestGetHistory(t *testing.T) {
	repo := &mockMessageRepo{
		listByUserFunc: func(ctx context.Context, userID string, limit int) ([]*model.ChatMessage, error) {
			if limit != defaultHistoryLimit {
				t.Errorf("limit = %d, want %d", limit, defaultHistoryLimit)
			}
			return []*model.ChatMessage{{ID: "m1"}, {ID: "m2"}}, nil
		},
	}

	messages, err := NewService(repo, EchoResponder{}).GetHistory(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("got %d messages, want 2", len(messages))
	}
}
