package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/planboard/internal/model"
)

// PostgresClassRepo はPostgreSQLを使用した学校プランナーリポジトリ。
// 授業コマと課題の2つのテーブルを扱う。
type PostgresClassRepo struct {
	db *sql.DB
}

// NewPostgresClassRepo はPostgresClassRepoを生成する。
func NewPostgresClassRepo(db *sql.DB) *PostgresClassRepo {
	return &PostgresClassRepo{db: db}
}

// FindClassByID は指定IDの授業コマを取得する。見つからない場合はnilを返す。
func (r *PostgresClassRepo) FindClassByID(ctx context.Context, id string) (*model.ClassSession, error) {
	class := &model.ClassSession{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, subject, room, day_of_week, start_time, end_time, note, created_at, updated_at
		 FROM class_sessions WHERE id = $1`,
		id,
	).Scan(&class.ID, &class.UserID, &class.Subject, &class.Room, &class.DayOfWeek,
		&class.StartTime, &class.EndTime, &class.Note, &class.CreatedAt, &class.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find class by ID: %w", err)
	}

	return class, nil
}

// ListClassesByUser はユーザーの授業コマ一覧を曜日・開始時刻順で返す。
func (r *PostgresClassRepo) ListClassesByUser(ctx context.Context, userID string) ([]*model.ClassSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, subject, room, day_of_week, start_time, end_time, note, created_at, updated_at
		 FROM class_sessions
		 WHERE user_id = $1
		 ORDER BY day_of_week, start_time`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	defer rows.Close()

	var classes []*model.ClassSession
	for rows.Next() {
		class := &model.ClassSession{}
		if err := rows.Scan(&class.ID, &class.UserID, &class.Subject, &class.Room, &class.DayOfWeek,
			&class.StartTime, &class.EndTime, &class.Note, &class.CreatedAt, &class.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate classes: %w", err)
	}

	return classes, nil
}

// CreateClass は授業コマを作成する。
func (r *PostgresClassRepo) CreateClass(ctx context.Context, class *model.ClassSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO class_sessions (id, user_id, subject, room, day_of_week, start_time, end_time, note, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		class.ID, class.UserID, class.Subject, class.Room, class.DayOfWeek,
		class.StartTime, class.EndTime, class.Note, class.CreatedAt, class.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert class: %w", err)
	}
	return nil
}

// UpdateClass は授業コマを更新する。
func (r *PostgresClassRepo) UpdateClass(ctx context.Context, class *model.ClassSession) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE class_sessions
		 SET subject = $1, room = $2, day_of_week = $3, start_time = $4, end_time = $5, note = $6, updated_at = now()
		 WHERE id = $7`,
		class.Subject, class.Room, class.DayOfWeek, class.StartTime, class.EndTime, class.Note, class.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update class: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("class not found: %s", class.ID)
	}
	return nil
}

// DeleteClass は指定IDの授業コマを削除する。
func (r *PostgresClassRepo) DeleteClass(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM class_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("class not found: %s", id)
	}
	return nil
}

// FindAssignmentByID は指定IDの課題を取得する。見つからない場合はnilを返す。
func (r *PostgresClassRepo) FindAssignmentByID(ctx context.Context, id string) (*model.Assignment, error) {
	assignment := &model.Assignment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, class_id, title, due_date::text, done, created_at, updated_at
		 FROM assignments WHERE id = $1`,
		id,
	).Scan(&assignment.ID, &assignment.UserID, &assignment.ClassID, &assignment.Title,
		&assignment.DueDate, &assignment.Done, &assignment.CreatedAt, &assignment.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find assignment by ID: %w", err)
	}

	return assignment, nil
}

// ListAssignmentsByUser はユーザーの課題一覧を締切昇順で返す。
func (r *PostgresClassRepo) ListAssignmentsByUser(ctx context.Context, userID string) ([]*model.Assignment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, class_id, title, due_date::text, done, created_at, updated_at
		 FROM assignments
		 WHERE user_id = $1
		 ORDER BY due_date, created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*model.Assignment
	for rows.Next() {
		assignment := &model.Assignment{}
		if err := rows.Scan(&assignment.ID, &assignment.UserID, &assignment.ClassID, &assignment.Title,
			&assignment.DueDate, &assignment.Done, &assignment.CreatedAt, &assignment.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}

	return assignments, nil
}

// CreateAssignment は課題を作成する。
func (r *PostgresClassRepo) CreateAssignment(ctx context.Context, assignment *model.Assignment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assignments (id, user_id, class_id, title, due_date, done, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		assignment.ID, assignment.UserID, assignment.ClassID, assignment.Title,
		assignment.DueDate, assignment.Done, assignment.CreatedAt, assignment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}
	return nil
}

// UpdateAssignment は課題を更新する。
func (r *PostgresClassRepo) UpdateAssignment(ctx context.Context, assignment *model.Assignment) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE assignments
		 SET class_id = $1, title = $2, due_date = $3, done = $4, updated_at = now()
		 WHERE id = $5`,
		assignment.ClassID, assignment.Title, assignment.DueDate, assignment.Done, assignment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("assignment not found: %s", assignment.ID)
	}
	return nil
}

// DeleteAssignment は指定IDの課題を削除する。
func (r *PostgresClassRepo) DeleteAssignment(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("assignment not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ ClassRepository = (*PostgresClassRepo)(nil)
