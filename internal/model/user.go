// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限ロールを表す。
type Role string

const (
	// RoleAdmin は全画面にアクセスできる管理者ロール。
	RoleAdmin Role = "admin"
	// RoleRestricted は夫婦貯金画面のみにアクセスできる制限ロール。
	RoleRestricted Role = "restricted"
	// RolePartner はトレード共有画面のみにアクセスできるパートナーロール。
	RolePartner Role = "partner"
)

// ParseRole は文字列をRoleに変換する。
// 未知の値は空のRoleを返し、アクセス判定では常に拒否される（フェイルクローズ）。
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleRestricted, RolePartner:
		return Role(s)
	default:
		return Role("")
	}
}

// Valid はロールが定義済みの3値のいずれかであるかを返す。
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleRestricted || r == RolePartner
}

// UserProfile はサービス利用ユーザーのプロフィールを表す。
// ロールはルート単位のアクセス制御にのみ使用され、レコード単位の
// 認可には関与しない。
type UserProfile struct {
	ID          string
	Email       string
	DisplayName string
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Identity は外部IdPとの紐付け情報を表す。
// 将来的に複数のIdP（Google, GitHub等）に対応可能な構造。
type Identity struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
