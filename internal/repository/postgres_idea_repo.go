package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/planboard/internal/model"
)

// PostgresIdeaRepo はPostgreSQLを使用したビジネスアイデアリポジトリ。
type PostgresIdeaRepo struct {
	db *sql.DB
}

// NewPostgresIdeaRepo はPostgresIdeaRepoを生成する。
func NewPostgresIdeaRepo(db *sql.DB) *PostgresIdeaRepo {
	return &PostgresIdeaRepo{db: db}
}

// FindByID は指定IDのアイデアを取得する。見つからない場合はnilを返す。
func (r *PostgresIdeaRepo) FindByID(ctx context.Context, id string) (*model.BusinessIdea, error) {
	idea := &model.BusinessIdea{}
	var stage string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, body, stage, created_at, updated_at
		 FROM business_ideas WHERE id = $1`,
		id,
	).Scan(&idea.ID, &idea.UserID, &idea.Title, &idea.Body, &stage, &idea.CreatedAt, &idea.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find idea by ID: %w", err)
	}

	idea.Stage = model.ParseIdeaStage(stage)
	return idea, nil
}

// ListByUser はユーザーのアイデア一覧を更新日時降順で返す。
func (r *PostgresIdeaRepo) ListByUser(ctx context.Context, userID string) ([]*model.BusinessIdea, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, body, stage, created_at, updated_at
		 FROM business_ideas
		 WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	var ideas []*model.BusinessIdea
	for rows.Next() {
		idea := &model.BusinessIdea{}
		var stage string
		if err := rows.Scan(&idea.ID, &idea.UserID, &idea.Title, &idea.Body, &stage, &idea.CreatedAt, &idea.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		idea.Stage = model.ParseIdeaStage(stage)
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ideas: %w", err)
	}

	return ideas, nil
}

// Create はアイデアを作成する。
func (r *PostgresIdeaRepo) Create(ctx context.Context, idea *model.BusinessIdea) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO business_ideas (id, user_id, title, body, stage, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		idea.ID, idea.UserID, idea.Title, idea.Body, string(idea.Stage), idea.CreatedAt, idea.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert idea: %w", err)
	}
	return nil
}

// Update はアイデアを更新する。
func (r *PostgresIdeaRepo) Update(ctx context.Context, idea *model.BusinessIdea) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE business_ideas
		 SET title = $1, body = $2, stage = $3, updated_at = now()
		 WHERE id = $4`,
		idea.Title, idea.Body, string(idea.Stage), idea.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update idea: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("idea not found: %s", idea.ID)
	}
	return nil
}

// Delete は指定IDのアイデアを削除する。
func (r *PostgresIdeaRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM business_ideas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("idea not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ BusinessIdeaRepository = (*PostgresIdeaRepo)(nil)
