package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/planboard/internal/model"
)

// PostgresGroupRepo はPostgreSQLを使用したパートナーグループリポジトリ。
type PostgresGroupRepo struct {
	db *sql.DB
}

// NewPostgresGroupRepo はPostgresGroupRepoを生成する。
func NewPostgresGroupRepo(db *sql.DB) *PostgresGroupRepo {
	return &PostgresGroupRepo{db: db}
}

// FindByID は指定IDのグループを取得する。見つからない場合はnilを返す。
func (r *PostgresGroupRepo) FindByID(ctx context.Context, id string) (*model.PartnerGroup, error) {
	group := &model.PartnerGroup{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, created_at FROM partner_groups WHERE id = $1`,
		id,
	).Scan(&group.ID, &group.Name, &group.OwnerID, &group.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group by ID: %w", err)
	}

	return group, nil
}

// CreateWithOwner はグループとオーナーのメンバーシップを同一トランザクションで作成する。
func (r *PostgresGroupRepo) CreateWithOwner(ctx context.Context, group *model.PartnerGroup) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO partner_groups (id, name, owner_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		group.ID, group.Name, group.OwnerID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, joined_at)
		 VALUES ($1, $2, $3)`,
		group.ID, group.OwnerID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByMember はユーザーが参加しているグループ一覧を返す。
func (r *PostgresGroupRepo) ListByMember(ctx context.Context, userID string) ([]*model.PartnerGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.owner_id, g.created_at
		 FROM partner_groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = $1
		 ORDER BY g.created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by member: %w", err)
	}
	defer rows.Close()

	var groups []*model.PartnerGroup
	for rows.Next() {
		group := &model.PartnerGroup{}
		if err := rows.Scan(&group.ID, &group.Name, &group.OwnerID, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// AddMember はグループにメンバーを追加する。既存メンバーの場合は何もしない。
func (r *PostgresGroupRepo) AddMember(ctx context.Context, groupID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, joined_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (group_id, user_id) DO NOTHING`,
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// IsMember はユーザーがグループのメンバーかを返す。
func (r *PostgresGroupRepo) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return exists, nil
}

// compile-time interface check
var _ PartnerGroupRepository = (*PostgresGroupRepo)(nil)
