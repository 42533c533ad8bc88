package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/planboard/internal/model"
)

// PostgresSavingRepo はPostgreSQLを使用した夫婦貯金エントリリポジトリ。
type PostgresSavingRepo struct {
	db *sql.DB
}

// NewPostgresSavingRepo はPostgresSavingRepoを生成する。
func NewPostgresSavingRepo(db *sql.DB) *PostgresSavingRepo {
	return &PostgresSavingRepo{db: db}
}

// FindByID は指定IDのエントリを取得する。見つからない場合はnilを返す。
func (r *PostgresSavingRepo) FindByID(ctx context.Context, id string) (*model.SavingEntry, error) {
	entry := &model.SavingEntry{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount, note, entry_date::text, created_at, updated_at
		 FROM saving_entries WHERE id = $1`,
		id,
	).Scan(&entry.ID, &entry.UserID, &entry.Amount, &entry.Note, &entry.EntryDate, &entry.CreatedAt, &entry.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find saving entry by ID: %w", err)
	}

	return entry, nil
}

// ListByUser はユーザーのエントリ一覧を記帳日降順で返す。
func (r *PostgresSavingRepo) ListByUser(ctx context.Context, userID string) ([]*model.SavingEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount, note, entry_date::text, created_at, updated_at
		 FROM saving_entries
		 WHERE user_id = $1
		 ORDER BY entry_date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list saving entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.SavingEntry
	for rows.Next() {
		entry := &model.SavingEntry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Amount, &entry.Note, &entry.EntryDate, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saving entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saving entries: %w", err)
	}

	return entries, nil
}

// SumByUser はユーザーの記帳合計を返す。エントリがない場合はゼロを返す。
func (r *PostgresSavingRepo) SumByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM saving_entries WHERE user_id = $1`,
		userID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum saving entries: %w", err)
	}
	return sum, nil
}

// Create はエントリを作成する。
func (r *PostgresSavingRepo) Create(ctx context.Context, entry *model.SavingEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO saving_entries (id, user_id, amount, note, entry_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.UserID, entry.Amount, entry.Note, entry.EntryDate, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert saving entry: %w", err)
	}
	return nil
}

// Update はエントリを更新する。
func (r *PostgresSavingRepo) Update(ctx context.Context, entry *model.SavingEntry) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE saving_entries
		 SET amount = $1, note = $2, entry_date = $3, updated_at = now()
		 WHERE id = $4`,
		entry.Amount, entry.Note, entry.EntryDate, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update saving entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("saving entry not found: %s", entry.ID)
	}
	return nil
}

// Delete は指定IDのエントリを削除する。
func (r *PostgresSavingRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saving_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete saving entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("saving entry not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ SavingEntryRepository = (*PostgresSavingRepo)(nil)
