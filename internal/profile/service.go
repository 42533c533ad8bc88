// Package profile はユーザープロフィールとロール管理のドメインロジックを提供する。
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/repository"
)

// Service はプロフィール管理のサービス層。
// ロール変更は管理者専用の操作として提供する。
type Service struct {
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
	logger      *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(profileRepo repository.ProfileRepository, sessionRepo repository.SessionRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// GetProfile は指定IDのプロフィールを返す。
func (s *Service) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if profile == nil {
		return nil, model.NewProfileNotFoundError()
	}
	return profile, nil
}

// ListProfiles は全プロフィールを返す。管理者のみ実行できる。
func (s *Service) ListProfiles(ctx context.Context, actor *model.UserProfile) ([]*model.UserProfile, error) {
	if actor.Role != model.RoleAdmin {
		return nil, model.NewAdminOnlyError()
	}

	profiles, err := s.profileRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("プロフィール一覧の取得に失敗しました: %w", err)
	}
	return profiles, nil
}

// SetRole は指定ユーザーのロールを変更する。管理者のみ実行できる。
// 変更は対象ユーザーの次のリクエストから反映される。自分自身の降格は
// 最後の管理者を失わないよう禁止する。
func (s *Service) SetRole(ctx context.Context, actor *model.UserProfile, targetID string, role model.Role) error {
	if actor.Role != model.RoleAdmin {
		return model.NewAdminOnlyError()
	}
	if !role.Valid() {
		return model.NewInvalidRoleError(string(role))
	}
	if actor.ID == targetID && role != model.RoleAdmin {
		return model.NewValidationError("自分自身を管理者以外に変更することはできません")
	}

	target, err := s.profileRepo.FindByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if target == nil {
		return model.NewProfileNotFoundError()
	}

	if err := s.profileRepo.UpdateRole(ctx, targetID, role); err != nil {
		return fmt.Errorf("ロールの更新に失敗しました: %w", err)
	}

	s.logger.Info("user role updated",
		slog.String("actor_id", actor.ID),
		slog.String("target_id", targetID),
		slog.String("old_role", string(target.Role)),
		slog.String("new_role", string(role)),
	)

	return nil
}
