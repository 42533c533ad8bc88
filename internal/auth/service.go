// Package auth はOAuth認証フロー、セッション管理、ロールの初期割り当てを提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/repository"
)

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	Name           string
	Provider       string // "google" 等
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// 将来的に複数IdP（Google, GitHub等）に対応するための抽象化。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// LoginMetrics はログイン処理のメトリクス記録インターフェース。
type LoginMetrics interface {
	// RecordLogin はログイン成功を記録する。newUserは新規作成時にtrue。
	RecordLogin(newUser bool)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）

	// AdminEmails は管理者として扱うメールアドレスのリスト。
	// 照合は大文字小文字を区別せず、ログインのたびに再適用される。
	AdminEmails []string
}

// Service は認証に関するビジネスロジックを提供する。
// 新規ユーザーのロール割り当てと、管理者メール許可リストによる
// 昇格の再適用もここで行う。
type Service struct {
	oauth       OAuthProvider
	profileRepo repository.ProfileRepository
	identRepo   repository.IdentityRepository
	sessionRepo repository.SessionRepository
	metrics     LoginMetrics
	adminEmails map[string]struct{}
	config      ServiceConfig
	logger      *slog.Logger
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(
	oauth OAuthProvider,
	profileRepo repository.ProfileRepository,
	identRepo repository.IdentityRepository,
	sessionRepo repository.SessionRepository,
	metrics LoginMetrics,
	config ServiceConfig,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	// 許可リストは小文字に正規化して保持する
	adminEmails := make(map[string]struct{}, len(config.AdminEmails))
	for _, email := range config.AdminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			adminEmails[email] = struct{}{}
		}
	}

	return &Service{
		oauth:       oauth,
		profileRepo: profileRepo,
		identRepo:   identRepo,
		sessionRepo: sessionRepo,
		metrics:     metrics,
		adminEmails: adminEmails,
		config:      config,
		logger:      logger,
	}
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// isAllowListed はメールアドレスが管理者許可リストに含まれるかを返す。
func (s *Service) isAllowListed(email string) bool {
	_, ok := s.adminEmails[strings.ToLower(email)]
	return ok
}

// HandleCallback はOAuthコールバックを処理し、セッションを発行する。
//
// 未登録ユーザーの場合はプロフィールとidentityを同時に自動作成する。
// 新規ユーザーの初期ロールはrestrictedだが、システム初のユーザーは
// リポジトリ層のブートストラップでadminに昇格する。管理者メール許可
// リストに載るメールは登録済みかどうかにかかわらずログインのたびに
// adminへ昇格される。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	identity, err := s.identRepo.FindByProviderAndProviderUserID(ctx, userInfo.Provider, userInfo.ProviderUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	var userID string

	if identity != nil {
		userID = identity.UserID

		if err := s.reapplyAllowList(ctx, userID, userInfo.Email); err != nil {
			return nil, err
		}

		s.logger.Info("existing user logged in",
			slog.String("user_id", userID),
			slog.String("provider", userInfo.Provider),
		)
		if s.metrics != nil {
			s.metrics.RecordLogin(false)
		}
	} else {
		profile, err := s.registerNewUser(ctx, userInfo)
		if err != nil {
			return nil, err
		}
		userID = profile.ID

		s.logger.Info("new user registered",
			slog.String("user_id", userID),
			slog.String("email", userInfo.Email),
			slog.String("role", string(profile.Role)),
		)
		if s.metrics != nil {
			s.metrics.RecordLogin(true)
		}
	}

	session, err := s.createSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// reapplyAllowList は許可リスト掲載メールのロールをadminに揃える。
// プロフィールが既にadminであれば何もしない。
func (s *Service) reapplyAllowList(ctx context.Context, userID, email string) error {
	if !s.isAllowListed(email) {
		return nil
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("profile not found for identity: %s", userID)
	}
	if profile.Role == model.RoleAdmin {
		return nil
	}

	if err := s.profileRepo.UpdateRole(ctx, userID, model.RoleAdmin); err != nil {
		return fmt.Errorf("failed to promote allow-listed user: %w", err)
	}

	s.logger.Info("allow-listed user promoted to admin", slog.String("user_id", userID))
	return nil
}

// registerNewUser はプロフィールとidentityを作成し、確定後のプロフィールを返す。
func (s *Service) registerNewUser(ctx context.Context, userInfo *OAuthUserInfo) (*model.UserProfile, error) {
	now := time.Now()

	role := model.RoleRestricted
	if s.isAllowListed(userInfo.Email) {
		role = model.RoleAdmin
	}

	profile := &model.UserProfile{
		ID:          uuid.New().String(),
		Email:       userInfo.Email,
		DisplayName: userInfo.Name,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	identity := &model.Identity{
		ID:             uuid.New().String(),
		UserID:         profile.ID,
		Provider:       userInfo.Provider,
		ProviderUserID: userInfo.ProviderUserID,
		CreatedAt:      now,
	}

	created, err := s.profileRepo.CreateBootstrapped(ctx, profile, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile and identity: %w", err)
	}

	return created, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザープロフィールを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.UserProfile, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or expired")
	}

	profile, err := s.profileRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}

	return profile, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
