package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/planboard/internal/model"
)

// bootstrapLockKey は初回ユーザーブートストラップ用のadvisory lockキー。
// 同時初回サインアップでadminが2人（または0人）になるレースを防ぐ。
const bootstrapLockKey = 0x706c616e // "plan"

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// FindByID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindByID(ctx context.Context, id string) (*model.UserProfile, error) {
	profile := &model.UserProfile{}
	var role string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, role, created_at, updated_at
		 FROM user_profiles WHERE id = $1`,
		id,
	).Scan(&profile.ID, &profile.Email, &profile.DisplayName, &role, &profile.CreatedAt, &profile.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by ID: %w", err)
	}

	profile.Role = model.ParseRole(role)
	return profile, nil
}

// CreateBootstrapped はプロフィールとidentityを同一トランザクションで作成する。
// advisory lockで直列化した上で既存プロフィール数を確認し、システム初の
// ユーザーであればロールをadminに昇格させる。
func (r *PostgresProfileRepo) CreateBootstrapped(ctx context.Context, profile *model.UserProfile, identity *model.Identity) (*model.UserProfile, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 同時初回サインアップを直列化
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, bootstrapLockKey); err != nil {
		return nil, fmt.Errorf("failed to acquire bootstrap lock: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_profiles`).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}

	created := *profile
	if count == 0 {
		// システム初のユーザーは管理者になる
		created.Role = model.RoleAdmin
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_profiles (id, email, display_name, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		created.ID, created.Email, created.DisplayName, string(created.Role), created.CreatedAt, created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO identities (id, user_id, provider, provider_user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		identity.ID, identity.UserID, identity.Provider, identity.ProviderUserID, identity.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert identity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &created, nil
}

// UpdateRole は指定プロフィールのロールを更新する。
func (r *PostgresProfileRepo) UpdateRole(ctx context.Context, id string, role model.Role) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE user_profiles SET role = $1, updated_at = now() WHERE id = $2`,
		string(role), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// ListAll は全プロフィールを作成日時昇順で返す。
func (r *PostgresProfileRepo) ListAll(ctx context.Context) ([]*model.UserProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, display_name, role, created_at, updated_at
		 FROM user_profiles ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*model.UserProfile
	for rows.Next() {
		profile := &model.UserProfile{}
		var role string
		if err := rows.Scan(&profile.ID, &profile.Email, &profile.DisplayName, &role, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profile.Role = model.ParseRole(role)
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
