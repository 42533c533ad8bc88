package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/planboard/internal/model"
)

// PostgresChatRepo はPostgreSQLを使用したチャット履歴リポジトリ。
type PostgresChatRepo struct {
	db *sql.DB
}

// NewPostgresChatRepo はPostgresChatRepoを生成する。
func NewPostgresChatRepo(db *sql.DB) *PostgresChatRepo {
	return &PostgresChatRepo{db: db}
}

// Create はメッセージを作成する。
func (r *PostgresChatRepo) Create(ctx context.Context, message *model.ChatMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, user_id, author, body, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		message.ID, message.UserID, string(message.Author), message.Body, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

// ListByUser はユーザーの履歴を作成日時昇順で最大limit件返す。
// 直近limit件を取得した上で昇順に並べ替えて返す。
func (r *PostgresChatRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, author, body, created_at FROM (
		     SELECT id, user_id, author, body, created_at
		     FROM chat_messages
		     WHERE user_id = $1
		     ORDER BY created_at DESC
		     LIMIT $2
		 ) recent ORDER BY created_at ASC`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.ChatMessage
	for rows.Next() {
		message := &model.ChatMessage{}
		var author string
		if err := rows.Scan(&message.ID, &message.UserID, &author, &message.Body, &message.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		message.Author = model.ChatAuthor(author)
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat messages: %w", err)
	}

	return messages, nil
}

// compile-time interface check
var _ ChatMessageRepository = (*PostgresChatRepo)(nil)
