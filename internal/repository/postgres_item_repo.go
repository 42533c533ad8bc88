package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/schedule"
)

// PostgresItemRepo はPostgreSQLを使用したデイリータスクリポジトリ。
type PostgresItemRepo struct {
	db *sql.DB
}

// NewPostgresItemRepo はPostgresItemRepoを生成する。
func NewPostgresItemRepo(db *sql.DB) *PostgresItemRepo {
	return &PostgresItemRepo{db: db}
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresItemRepo) FindByID(ctx context.Context, id string) (*model.ScheduledItem, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, note, status, scheduled_start_time, owner_date::text, created_at, updated_at
		 FROM scheduled_items WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return item, nil
}

// ListByOwnerDate は指定ユーザー・所属日付のタスク一覧を開始時刻順で返す。
// 開始時刻なしのタスクは末尾に並ぶ。
func (r *PostgresItemRepo) ListByOwnerDate(ctx context.Context, userID, ownerDate string) ([]*model.ScheduledItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, note, status, scheduled_start_time, owner_date::text, created_at, updated_at
		 FROM scheduled_items
		 WHERE user_id = $1 AND owner_date = $2
		 ORDER BY scheduled_start_time NULLS LAST, created_at`,
		userID, ownerDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by owner date: %w", err)
	}
	defer rows.Close()

	var items []*model.ScheduledItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// Create はタスクを作成する。
func (r *PostgresItemRepo) Create(ctx context.Context, item *model.ScheduledItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scheduled_items (id, user_id, title, note, status, scheduled_start_time, owner_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.UserID, item.Title, item.Note, string(item.Status),
		item.ScheduledStartTime, item.OwnerDate, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// Update はタスクの内容を更新する。
func (r *PostgresItemRepo) Update(ctx context.Context, item *model.ScheduledItem) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_items
		 SET title = $1, note = $2, scheduled_start_time = $3, owner_date = $4, updated_at = now()
		 WHERE id = $5`,
		item.Title, item.Note, item.ScheduledStartTime, item.OwnerDate, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item not found: %s", item.ID)
	}
	return nil
}

// UpdateStatus はタスクの状態のみを更新する。
func (r *PostgresItemRepo) UpdateStatus(ctx context.Context, id string, status model.ItemStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_items SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update item status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item not found: %s", id)
	}
	return nil
}

// Delete は指定IDのタスクを削除する。
func (r *PostgresItemRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item not found: %s", id)
	}
	return nil
}

// ListPendingDays はupTo以前の日付で、開始時刻付きのnot_startedタスクが
// 残っている（ユーザー, 日付）の組を列挙する。
func (r *PostgresItemRepo) ListPendingDays(ctx context.Context, upTo string) ([]schedule.PendingDay, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT user_id, owner_date::text
		 FROM scheduled_items
		 WHERE status = 'not_started'
		   AND scheduled_start_time IS NOT NULL
		   AND owner_date <= $1
		 ORDER BY owner_date::text`,
		upTo,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending days: %w", err)
	}
	defer rows.Close()

	var days []schedule.PendingDay
	for rows.Next() {
		var d schedule.PendingDay
		if err := rows.Scan(&d.UserID, &d.OwnerDate); err != nil {
			return nil, fmt.Errorf("failed to scan pending day: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending days: %w", err)
	}

	return days, nil
}

// rowScanner はsql.Rowとsql.Rowsの共通部分。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem は1行をScheduledItemに読み込む。
func scanItem(row rowScanner) (*model.ScheduledItem, error) {
	item := &model.ScheduledItem{}
	var status string
	err := row.Scan(
		&item.ID, &item.UserID, &item.Title, &item.Note, &status,
		&item.ScheduledStartTime, &item.OwnerDate, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Status = model.ParseItemStatus(status)
	return item, nil
}

// compile-time interface check
var _ ScheduledItemRepository = (*PostgresItemRepo)(nil)
