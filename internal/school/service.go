// Package school は学校プランナー（授業コマ・課題）のドメインロジックを提供する。
package school

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/repository"
	"github.com/hitoshi/planboard/internal/schedule"
)

// ClassInput は授業コマの作成・更新の入力。
type ClassInput struct {
	Subject   string
	Room      string
	DayOfWeek int
	StartTime string
	EndTime   string
	Note      string
}

// AssignmentInput は課題の作成・更新の入力。
type AssignmentInput struct {
	ClassID *string
	Title   string
	DueDate string
	Done    bool
}

// Service は学校プランナーのサービス層。
type Service struct {
	classRepo repository.ClassRepository
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(classRepo repository.ClassRepository) *Service {
	return &Service{
		classRepo: classRepo,
		now:       time.Now,
	}
}

// ListClasses はユーザーの授業コマ一覧を曜日・開始時刻順で返す。
func (s *Service) ListClasses(ctx context.Context, userID string) ([]*model.ClassSession, error) {
	classes, err := s.classRepo.ListClassesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("授業一覧の取得に失敗しました: %w", err)
	}
	return classes, nil
}

// CreateClass は授業コマを作成する。
func (s *Service) CreateClass(ctx context.Context, userID string, input ClassInput) (*model.ClassSession, error) {
	if err := validateClassInput(input); err != nil {
		return nil, err
	}

	now := s.now()
	class := &model.ClassSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Subject:   input.Subject,
		Room:      input.Room,
		DayOfWeek: input.DayOfWeek,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Note:      input.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.classRepo.CreateClass(ctx, class); err != nil {
		return nil, fmt.Errorf("授業の作成に失敗しました: %w", err)
	}

	return class, nil
}

// UpdateClass は授業コマを更新する。
func (s *Service) UpdateClass(ctx context.Context, userID, classID string, input ClassInput) (*model.ClassSession, error) {
	class, err := s.findOwnedClass(ctx, userID, classID)
	if err != nil {
		return nil, err
	}

	if err := validateClassInput(input); err != nil {
		return nil, err
	}

	class.Subject = input.Subject
	class.Room = input.Room
	class.DayOfWeek = input.DayOfWeek
	class.StartTime = input.StartTime
	class.EndTime = input.EndTime
	class.Note = input.Note

	if err := s.classRepo.UpdateClass(ctx, class); err != nil {
		return nil, fmt.Errorf("授業の更新に失敗しました: %w", err)
	}

	return class, nil
}

// DeleteClass は授業コマを削除する。
func (s *Service) DeleteClass(ctx context.Context, userID, classID string) error {
	if _, err := s.findOwnedClass(ctx, userID, classID); err != nil {
		return err
	}

	if err := s.classRepo.DeleteClass(ctx, classID); err != nil {
		return fmt.Errorf("授業の削除に失敗しました: %w", err)
	}

	return nil
}

// ListAssignments はユーザーの課題一覧を締切昇順で返す。
func (s *Service) ListAssignments(ctx context.Context, userID string) ([]*model.Assignment, error) {
	assignments, err := s.classRepo.ListAssignmentsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("課題一覧の取得に失敗しました: %w", err)
	}
	return assignments, nil
}

// CreateAssignment は課題を作成する。授業に紐付ける場合は所有する授業のみ指定できる。
func (s *Service) CreateAssignment(ctx context.Context, userID string, input AssignmentInput) (*model.Assignment, error) {
	if err := s.validateAssignmentInput(ctx, userID, input); err != nil {
		return nil, err
	}

	now := s.now()
	assignment := &model.Assignment{
		ID:        uuid.New().String(),
		UserID:    userID,
		ClassID:   input.ClassID,
		Title:     input.Title,
		DueDate:   input.DueDate,
		Done:      input.Done,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.classRepo.CreateAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("課題の作成に失敗しました: %w", err)
	}

	return assignment, nil
}

// UpdateAssignment は課題を更新する。
func (s *Service) UpdateAssignment(ctx context.Context, userID, assignmentID string, input AssignmentInput) (*model.Assignment, error) {
	assignment, err := s.findOwnedAssignment(ctx, userID, assignmentID)
	if err != nil {
		return nil, err
	}

	if err := s.validateAssignmentInput(ctx, userID, input); err != nil {
		return nil, err
	}

	assignment.ClassID = input.ClassID
	assignment.Title = input.Title
	assignment.DueDate = input.DueDate
	assignment.Done = input.Done

	if err := s.classRepo.UpdateAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("課題の更新に失敗しました: %w", err)
	}

	return assignment, nil
}

// DeleteAssignment は課題を削除する。
func (s *Service) DeleteAssignment(ctx context.Context, userID, assignmentID string) error {
	if _, err := s.findOwnedAssignment(ctx, userID, assignmentID); err != nil {
		return err
	}

	if err := s.classRepo.DeleteAssignment(ctx, assignmentID); err != nil {
		return fmt.Errorf("課題の削除に失敗しました: %w", err)
	}

	return nil
}

// findOwnedClass は授業コマを取得し、所有者を検証する。
func (s *Service) findOwnedClass(ctx context.Context, userID, classID string) (*model.ClassSession, error) {
	class, err := s.classRepo.FindClassByID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("授業の取得に失敗しました: %w", err)
	}
	if class == nil || class.UserID != userID {
		return nil, model.NewClassNotFoundError(classID)
	}
	return class, nil
}

// findOwnedAssignment は課題を取得し、所有者を検証する。
func (s *Service) findOwnedAssignment(ctx context.Context, userID, assignmentID string) (*model.Assignment, error) {
	assignment, err := s.classRepo.FindAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("課題の取得に失敗しました: %w", err)
	}
	if assignment == nil || assignment.UserID != userID {
		return nil, model.NewAssignmentNotFoundError(assignmentID)
	}
	return assignment, nil
}

// validateClassInput は授業コマの入力を検証する。
func validateClassInput(input ClassInput) error {
	if input.Subject == "" {
		return model.NewValidationError("科目名は必須です")
	}
	if input.DayOfWeek < 0 || input.DayOfWeek > 6 {
		return model.NewValidationError("曜日は0（日曜）〜6（土曜）で指定してください")
	}
	if !schedule.ValidClock(input.StartTime) {
		return model.NewInvalidTimeError(input.StartTime)
	}
	if !schedule.ValidClock(input.EndTime) {
		return model.NewInvalidTimeError(input.EndTime)
	}
	if input.EndTime <= input.StartTime {
		return model.NewValidationError("終了時刻は開始時刻より後にしてください")
	}
	return nil
}

// validateAssignmentInput は課題の入力を検証する。
func (s *Service) validateAssignmentInput(ctx context.Context, userID string, input AssignmentInput) error {
	if input.Title == "" {
		return model.NewValidationError("課題名は必須です")
	}
	if !schedule.ValidDate(input.DueDate) {
		return model.NewInvalidDateError(input.DueDate)
	}
	if input.ClassID != nil {
		if _, err := s.findOwnedClass(ctx, userID, *input.ClassID); err != nil {
			return err
		}
	}
	return nil
}
