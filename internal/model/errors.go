// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, planner, finance, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeItemNotFound       = "ITEM_NOT_FOUND"
	ErrCodeEntryNotFound      = "ENTRY_NOT_FOUND"
	ErrCodeTradeNotFound      = "TRADE_NOT_FOUND"
	ErrCodeGroupNotFound      = "GROUP_NOT_FOUND"
	ErrCodeNotGroupMember     = "NOT_GROUP_MEMBER"
	ErrCodeIdeaNotFound       = "IDEA_NOT_FOUND"
	ErrCodeClassNotFound      = "CLASS_NOT_FOUND"
	ErrCodeAssignmentNotFound = "ASSIGNMENT_NOT_FOUND"
	ErrCodeProfileNotFound    = "PROFILE_NOT_FOUND"
	ErrCodeInvalidRole        = "INVALID_ROLE"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeInvalidDate        = "INVALID_DATE"
	ErrCodeInvalidTime        = "INVALID_TIME"
	ErrCodeInvalidAmount      = "INVALID_AMOUNT"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeAdminOnly          = "ADMIN_ONLY"
)

// NewItemNotFoundError はタスク未検出エラーを生成する。
func NewItemNotFoundError(itemID string) *APIError {
	return &APIError{
		Code:     ErrCodeItemNotFound,
		Message:  fmt.Sprintf("指定されたタスクが見つかりません: %s", itemID),
		Category: "planner",
		Action:   "タスクIDを確認してください。",
	}
}

// NewEntryNotFoundError は貯金エントリ未検出エラーを生成する。
func NewEntryNotFoundError(entryID string) *APIError {
	return &APIError{
		Code:     ErrCodeEntryNotFound,
		Message:  fmt.Sprintf("指定された記帳エントリが見つかりません: %s", entryID),
		Category: "finance",
		Action:   "エントリIDを確認してください。",
	}
}

// NewTradeNotFoundError はトレード記録未検出エラーを生成する。
func NewTradeNotFoundError(tradeID string) *APIError {
	return &APIError{
		Code:     ErrCodeTradeNotFound,
		Message:  fmt.Sprintf("指定されたトレード記録が見つかりません: %s", tradeID),
		Category: "finance",
		Action:   "トレードIDを確認してください。",
	}
}

// NewGroupNotFoundError はパートナーグループ未検出エラーを生成する。
func NewGroupNotFoundError(groupID string) *APIError {
	return &APIError{
		Code:     ErrCodeGroupNotFound,
		Message:  fmt.Sprintf("指定されたグループが見つかりません: %s", groupID),
		Category: "finance",
		Action:   "グループIDを確認してください。",
	}
}

// NewNotGroupMemberError はグループ非所属エラーを生成する。
func NewNotGroupMemberError() *APIError {
	return &APIError{
		Code:     ErrCodeNotGroupMember,
		Message:  "このグループに参加していません。",
		Category: "finance",
		Action:   "グループのオーナーに招待を依頼してください。",
	}
}

// NewIdeaNotFoundError はアイデア未検出エラーを生成する。
func NewIdeaNotFoundError(ideaID string) *APIError {
	return &APIError{
		Code:     ErrCodeIdeaNotFound,
		Message:  fmt.Sprintf("指定されたアイデアが見つかりません: %s", ideaID),
		Category: "planner",
		Action:   "アイデアIDを確認してください。",
	}
}

// NewClassNotFoundError は授業コマ未検出エラーを生成する。
func NewClassNotFoundError(classID string) *APIError {
	return &APIError{
		Code:     ErrCodeClassNotFound,
		Message:  fmt.Sprintf("指定された授業が見つかりません: %s", classID),
		Category: "planner",
		Action:   "授業IDを確認してください。",
	}
}

// NewAssignmentNotFoundError は課題未検出エラーを生成する。
func NewAssignmentNotFoundError(assignmentID string) *APIError {
	return &APIError{
		Code:     ErrCodeAssignmentNotFound,
		Message:  fmt.Sprintf("指定された課題が見つかりません: %s", assignmentID),
		Category: "planner",
		Action:   "課題IDを確認してください。",
	}
}

// NewProfileNotFoundError はプロフィールが見つからない場合のエラーを生成する。
func NewProfileNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotFound,
		Message:  "ユーザープロフィールが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewInvalidRoleError は無効なロール指定エラーを生成する。
func NewInvalidRoleError(role string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("無効なロールです: %s", role),
		Category: "validation",
		Action:   "ロールには admin、restricted、partner のいずれかを指定してください。",
	}
}

// NewInvalidStatusError は無効なタスク状態エラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("無効なタスク状態です: %s", status),
		Category: "validation",
		Action:   "状態には not_started、done、missed のいずれかを指定してください。",
	}
}

// NewInvalidDateError は無効な日付エラーを生成する。
func NewInvalidDateError(date string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("無効な日付です: %s", date),
		Category: "validation",
		Action:   "日付はYYYY-MM-DD形式で指定してください。",
	}
}

// NewInvalidTimeError は無効な時刻エラーを生成する。
func NewInvalidTimeError(t string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTime,
		Message:  fmt.Sprintf("無効な時刻です: %s", t),
		Category: "validation",
		Action:   "時刻はHH:MM形式（24時間表記）で指定してください。",
	}
}

// NewInvalidAmountError は無効な金額エラーを生成する。
func NewInvalidAmountError(amount string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAmount,
		Message:  fmt.Sprintf("無効な金額です: %s", amount),
		Category: "validation",
		Action:   "金額は数値で指定してください。",
	}
}

// NewValidationError は汎用の入力検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力内容に誤りがあります: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewAdminOnlyError は管理者専用操作エラーを生成する。
func NewAdminOnlyError() *APIError {
	return &APIError{
		Code:     ErrCodeAdminOnly,
		Message:  "この操作は管理者のみ実行できます。",
		Category: "auth",
		Action:   "管理者アカウントでログインしてください。",
	}
}
