// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/schedule"
)

// ProfileRepository はユーザープロフィールの永続化インターフェース。
type ProfileRepository interface {
	// FindByID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.UserProfile, error)

	// CreateBootstrapped はプロフィールとidentityを同一トランザクションで作成する。
	// トランザクション内で既存プロフィール数を確認し、システム初のユーザーで
	// あればロールをadminに昇格させる（初回ユーザーのブートストラップ）。
	// 昇格後のプロフィールを返す。
	CreateBootstrapped(ctx context.Context, profile *model.UserProfile, identity *model.Identity) (*model.UserProfile, error)

	// UpdateRole は指定プロフィールのロールを更新する。
	UpdateRole(ctx context.Context, id string, role model.Role) error

	// ListAll は全プロフィールを作成日時昇順で返す。管理画面用。
	ListAll(ctx context.Context) ([]*model.UserProfile, error)
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// ScheduledItemRepository はデイリータスクの永続化インターフェース。
// ListByOwnerDateとUpdateStatusが自動整合コアの必要とする唯一のクエリ形。
type ScheduledItemRepository interface {
	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.ScheduledItem, error)

	// ListByOwnerDate は指定ユーザー・所属日付のタスク一覧を開始時刻順で返す。
	ListByOwnerDate(ctx context.Context, userID, ownerDate string) ([]*model.ScheduledItem, error)

	// Create はタスクを作成する。
	Create(ctx context.Context, item *model.ScheduledItem) error

	// Update はタスクの内容（タイトル、メモ、開始時刻、所属日付）を更新する。
	Update(ctx context.Context, item *model.ScheduledItem) error

	// UpdateStatus はタスクの状態のみを更新する。
	UpdateStatus(ctx context.Context, id string, status model.ItemStatus) error

	// Delete は指定IDのタスクを削除する。
	Delete(ctx context.Context, id string) error

	// ListPendingDays はupTo以前の日付で未処理のスイープ対象が残っている
	// （ユーザー, 日付）の組を列挙する。バックグラウンドワーカー用。
	ListPendingDays(ctx context.Context, upTo string) ([]schedule.PendingDay, error)
}

// SavingEntryRepository は夫婦貯金エントリの永続化インターフェース。
type SavingEntryRepository interface {
	// FindByID は指定IDのエントリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.SavingEntry, error)

	// ListByUser はユーザーのエントリ一覧を記帳日降順で返す。
	ListByUser(ctx context.Context, userID string) ([]*model.SavingEntry, error)

	// SumByUser はユーザーの記帳合計を返す。エントリがない場合はゼロを返す。
	SumByUser(ctx context.Context, userID string) (decimal.Decimal, error)

	// Create はエントリを作成する。
	Create(ctx context.Context, entry *model.SavingEntry) error

	// Update はエントリを更新する。
	Update(ctx context.Context, entry *model.SavingEntry) error

	// Delete は指定IDのエントリを削除する。
	Delete(ctx context.Context, id string) error
}

// TradeEntryRepository はトレード記録の永続化インターフェース。
type TradeEntryRepository interface {
	// FindByID は指定IDのトレード記録を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.TradeEntry, error)

	// ListByUser はユーザーの個人ジャーナル（group_idがNULL）を取引日降順で返す。
	ListByUser(ctx context.Context, userID string) ([]*model.TradeEntry, error)

	// ListByGroup はグループの共有ジャーナルを取引日降順で返す。
	ListByGroup(ctx context.Context, groupID string) ([]*model.TradeEntry, error)

	// Create はトレード記録を作成する。
	Create(ctx context.Context, trade *model.TradeEntry) error

	// Update はトレード記録を更新する。
	Update(ctx context.Context, trade *model.TradeEntry) error

	// Delete は指定IDのトレード記録を削除する。
	Delete(ctx context.Context, id string) error
}

// PartnerGroupRepository はパートナーグループの永続化インターフェース。
type PartnerGroupRepository interface {
	// FindByID は指定IDのグループを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.PartnerGroup, error)

	// CreateWithOwner はグループとオーナーのメンバーシップを同一トランザクションで作成する。
	CreateWithOwner(ctx context.Context, group *model.PartnerGroup) error

	// ListByMember はユーザーが参加しているグループ一覧を返す。
	ListByMember(ctx context.Context, userID string) ([]*model.PartnerGroup, error)

	// AddMember はグループにメンバーを追加する。既存メンバーの場合は何もしない。
	AddMember(ctx context.Context, groupID, userID string) error

	// IsMember はユーザーがグループのメンバーかを返す。
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// BusinessIdeaRepository はビジネスアイデアの永続化インターフェース。
type BusinessIdeaRepository interface {
	// FindByID は指定IDのアイデアを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.BusinessIdea, error)

	// ListByUser はユーザーのアイデア一覧を更新日時降順で返す。
	ListByUser(ctx context.Context, userID string) ([]*model.BusinessIdea, error)

	// Create はアイデアを作成する。
	Create(ctx context.Context, idea *model.BusinessIdea) error

	// Update はアイデアを更新する。
	Update(ctx context.Context, idea *model.BusinessIdea) error

	// Delete は指定IDのアイデアを削除する。
	Delete(ctx context.Context, id string) error
}

// ClassRepository は学校プランナー（授業コマ・課題）の永続化インターフェース。
type ClassRepository interface {
	// FindClassByID は指定IDの授業コマを取得する。見つからない場合はnilを返す。
	FindClassByID(ctx context.Context, id string) (*model.ClassSession, error)

	// ListClassesByUser はユーザーの授業コマ一覧を曜日・開始時刻順で返す。
	ListClassesByUser(ctx context.Context, userID string) ([]*model.ClassSession, error)

	// CreateClass は授業コマを作成する。
	CreateClass(ctx context.Context, class *model.ClassSession) error

	// UpdateClass は授業コマを更新する。
	UpdateClass(ctx context.Context, class *model.ClassSession) error

	// DeleteClass は指定IDの授業コマを削除する。
	DeleteClass(ctx context.Context, id string) error

	// FindAssignmentByID は指定IDの課題を取得する。見つからない場合はnilを返す。
	FindAssignmentByID(ctx context.Context, id string) (*model.Assignment, error)

	// ListAssignmentsByUser はユーザーの課題一覧を締切昇順で返す。
	ListAssignmentsByUser(ctx context.Context, userID string) ([]*model.Assignment, error)

	// CreateAssignment は課題を作成する。
	CreateAssignment(ctx context.Context, assignment *model.Assignment) error

	// UpdateAssignment は課題を更新する。
	UpdateAssignment(ctx context.Context, assignment *model.Assignment) error

	// DeleteAssignment は指定IDの課題を削除する。
	DeleteAssignment(ctx context.Context, id string) error
}

// ChatMessageRepository はチャット履歴の永続化インターフェース。
type ChatMessageRepository interface {
	// Create はメッセージを作成する。
	Create(ctx context.Context, message *model.ChatMessage) error

	// ListByUser はユーザーの履歴を作成日時昇順で最大limit件返す。
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.ChatMessage, error)
}
