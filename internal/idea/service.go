// Package idea はビジネスアイデアボードのドメインロジックを提供する。
package idea

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/repository"
	"github.com/hitoshi/planboard/internal/security"
)

// IdeaInput はアイデアの作成・更新の入力。
type IdeaInput struct {
	Title string
	Body  string
	Stage string
}

// Service はアイデアボードのサービス層。
// 本文HTMLは保存前にサニタイズされる。
type Service struct {
	ideaRepo  repository.BusinessIdeaRepository
	sanitizer security.ContentSanitizerService
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(ideaRepo repository.BusinessIdeaRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		ideaRepo:  ideaRepo,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// ListIdeas はユーザーのアイデア一覧を更新日時降順で返す。
func (s *Service) ListIdeas(ctx context.Context, userID string) ([]*model.BusinessIdea, error) {
	ideas, err := s.ideaRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("アイデア一覧の取得に失敗しました: %w", err)
	}
	return ideas, nil
}

// CreateIdea はアイデアを作成する。段階未指定の場合はseedで始まる。
func (s *Service) CreateIdea(ctx context.Context, userID string, input IdeaInput) (*model.BusinessIdea, error) {
	if input.Title == "" {
		return nil, model.NewValidationError("タイトルは必須です")
	}

	stage := model.IdeaStageSeed
	if input.Stage != "" {
		stage = model.ParseIdeaStage(input.Stage)
		if stage == "" {
			return nil, model.NewValidationError("段階には seed、exploring、building、parked のいずれかを指定してください")
		}
	}

	now := s.now()
	idea := &model.BusinessIdea{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     input.Title,
		Body:      s.sanitizer.Sanitize(input.Body),
		Stage:     stage,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		return nil, fmt.Errorf("アイデアの作成に失敗しました: %w", err)
	}

	return idea, nil
}

// UpdateIdea はアイデアを更新する。
func (s *Service) UpdateIdea(ctx context.Context, userID, ideaID string, input IdeaInput) (*model.BusinessIdea, error) {
	idea, err := s.findOwned(ctx, userID, ideaID)
	if err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, model.NewValidationError("タイトルは必須です")
	}

	stage := model.ParseIdeaStage(input.Stage)
	if stage == "" {
		return nil, model.NewValidationError("段階には seed、exploring、building、parked のいずれかを指定してください")
	}

	idea.Title = input.Title
	idea.Body = s.sanitizer.Sanitize(input.Body)
	idea.Stage = stage

	if err := s.ideaRepo.Update(ctx, idea); err != nil {
		return nil, fmt.Errorf("アイデアの更新に失敗しました: %w", err)
	}

	return idea, nil
}

// DeleteIdea はアイデアを削除する。
func (s *Service) DeleteIdea(ctx context.Context, userID, ideaID string) error {
	if _, err := s.findOwned(ctx, userID, ideaID); err != nil {
		return err
	}

	if err := s.ideaRepo.Delete(ctx, ideaID); err != nil {
		return fmt.Errorf("アイデアの削除に失敗しました: %w", err)
	}

	return nil
}

// findOwned はアイデアを取得し、所有者を検証する。
func (s *Service) findOwned(ctx context.Context, userID, ideaID string) (*model.BusinessIdea, error) {
	idea, err := s.ideaRepo.FindByID(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("アイデアの取得に失敗しました: %w", err)
	}
	if idea == nil || idea.UserID != userID {
		return nil, model.NewIdeaNotFoundError(ideaID)
	}
	return idea, nil
}
