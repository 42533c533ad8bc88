// Package access はロールベースのルートアクセス制御を提供する。
//
// CanAccessとDefaultRouteForは副作用のない純粋関数であり、I/Oを伴う
// ロール解決は呼び出し側（middleware.RoleGate等）の責務とする。
package access

import (
	"strings"

	"github.com/hitoshi/planboard/internal/model"
)

// ロールごとの専用ルートのルートパス。
const (
	// RouteRoot はアプリケーションのルートパス。管理者のデフォルト着地点。
	RouteRoot = "/"
	// RouteCoupleSaving は夫婦貯金画面のルートパス。制限ロールの専用領域。
	RouteCoupleSaving = "/couple_saving"
	// RouteTradingPartner はトレード共有画面のルートパス。パートナーロールの専用領域。
	RouteTradingPartner = "/trading_partner"
)

// CanAccess は指定ロールが指定パスを閲覧できるかを判定する。
//
//   - admin: 常に許可
//   - restricted: /couple_saving とその配下のみ許可
//   - partner: /trading_partner とその配下のみ許可
//   - 未知のロール: 全て拒否（フェイルクローズ）
//
// pathは正規化済みのルートパス文字列（例: "/couple_saving/entries"）を想定する。
func CanAccess(role model.Role, path string) bool {
	switch role {
	case model.RoleAdmin:
		return true
	case model.RoleRestricted:
		return underRoute(path, RouteCoupleSaving)
	case model.RolePartner:
		return underRoute(path, RouteTradingPartner)
	default:
		return false
	}
}

// DefaultRouteFor はロールのデフォルト着地ルートを返す。
// アクセス拒否時のリダイレクト先およびログイン直後の遷移先として使用する。
func DefaultRouteFor(role model.Role) string {
	switch role {
	case model.RoleRestricted:
		return RouteCoupleSaving
	case model.RolePartner:
		return RouteTradingPartner
	default:
		// adminおよび未知のロールはルートへ
		return RouteRoot
	}
}

// underRoute はpathがrootと一致するか、rootの配下にあるかを判定する。
// 前方一致ではなくパス区切りを考慮する（/couple_savingsは配下ではない）。
func underRoute(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+"/")
}
