package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/planboard/internal/model"
)

// PostgresTradeRepo はPostgreSQLを使用したトレード記録リポジトリ。
type PostgresTradeRepo struct {
	db *sql.DB
}

// NewPostgresTradeRepo はPostgresTradeRepoを生成する。
func NewPostgresTradeRepo(db *sql.DB) *PostgresTradeRepo {
	return &PostgresTradeRepo{db: db}
}

const tradeColumns = `id, user_id, group_id, symbol, side, entry_price, exit_price, quantity, fee, trade_date::text, note, created_at, updated_at`

// FindByID は指定IDのトレード記録を取得する。見つからない場合はnilを返す。
func (r *PostgresTradeRepo) FindByID(ctx context.Context, id string) (*model.TradeEntry, error) {
	trade, err := scanTrade(r.db.QueryRowContext(ctx,
		`SELECT `+tradeColumns+` FROM trade_entries WHERE id = $1`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find trade by ID: %w", err)
	}
	return trade, nil
}

// ListByUser はユーザーの個人ジャーナルを取引日降順で返す。
func (r *PostgresTradeRepo) ListByUser(ctx context.Context, userID string) ([]*model.TradeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tradeColumns+`
		 FROM trade_entries
		 WHERE user_id = $1 AND group_id IS NULL
		 ORDER BY trade_date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades by user: %w", err)
	}
	return collectTrades(rows)
}

// ListByGroup はグループの共有ジャーナルを取引日降順で返す。
func (r *PostgresTradeRepo) ListByGroup(ctx context.Context, groupID string) ([]*model.TradeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tradeColumns+`
		 FROM trade_entries
		 WHERE group_id = $1
		 ORDER BY trade_date DESC, created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades by group: %w", err)
	}
	return collectTrades(rows)
}

// Create はトレード記録を作成する。
func (r *PostgresTradeRepo) Create(ctx context.Context, trade *model.TradeEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO trade_entries (id, user_id, group_id, symbol, side, entry_price, exit_price, quantity, fee, trade_date, note, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		trade.ID, trade.UserID, trade.GroupID, trade.Symbol, string(trade.Side),
		trade.EntryPrice, trade.ExitPrice, trade.Quantity, trade.Fee,
		trade.TradeDate, trade.Note, trade.CreatedAt, trade.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

// Update はトレード記録を更新する。
func (r *PostgresTradeRepo) Update(ctx context.Context, trade *model.TradeEntry) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE trade_entries
		 SET symbol = $1, side = $2, entry_price = $3, exit_price = $4,
		     quantity = $5, fee = $6, trade_date = $7, note = $8, updated_at = now()
		 WHERE id = $9`,
		trade.Symbol, string(trade.Side), trade.EntryPrice, trade.ExitPrice,
		trade.Quantity, trade.Fee, trade.TradeDate, trade.Note, trade.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("trade not found: %s", trade.ID)
	}
	return nil
}

// Delete は指定IDのトレード記録を削除する。
func (r *PostgresTradeRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trade_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("trade not found: %s", id)
	}
	return nil
}

// scanTrade は1行をTradeEntryに読み込む。
func scanTrade(row rowScanner) (*model.TradeEntry, error) {
	trade := &model.TradeEntry{}
	var side string
	err := row.Scan(
		&trade.ID, &trade.UserID, &trade.GroupID, &trade.Symbol, &side,
		&trade.EntryPrice, &trade.ExitPrice, &trade.Quantity, &trade.Fee,
		&trade.TradeDate, &trade.Note, &trade.CreatedAt, &trade.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	trade.Side = model.ParseTradeSide(side)
	return trade, nil
}

// collectTrades は結果セットをTradeEntryのスライスに変換する。
func collectTrades(rows *sql.Rows) ([]*model.TradeEntry, error) {
	defer rows.Close()

	var trades []*model.TradeEntry
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}

	return trades, nil
}

// compile-time interface check
var _ TradeEntryRepository = (*PostgresTradeRepo)(nil)
