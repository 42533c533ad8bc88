package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/planboard/internal/access"
	"github.com/hitoshi/planboard/internal/model"
)

// roleContextKey はリクエストコンテキストにロールを格納するためのキー。
var roleContextKey = contextKey("role")

// ProfileFinder はロール解決に必要なインターフェース。
// repository.ProfileRepositoryの部分集合として定義する。
type ProfileFinder interface {
	FindByID(ctx context.Context, id string) (*model.UserProfile, error)
}

// DenialRecorder はアクセス拒否のメトリクス記録インターフェース。
type DenialRecorder interface {
	RecordAccessDenied(role string)
}

// NewRoleGateMiddleware はルート単位のアクセス制御ミドルウェアを返す。
// セッションミドルウェアの後に配置する。リクエストごとにユーザーの
// ロールをDBから解決するため、ロール変更は次のリクエストから反映される。
//
// ロール解決に失敗した場合はrestrictedとして扱う（フェイルクローズ）。
// アクセスが拒否された場合はロールの既定ルートへ303でリダイレクトする。
func NewRoleGateMiddleware(profileFinder ProfileFinder, recorder DenialRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := UserIDFromContext(r.Context())
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			role := resolveRole(r.Context(), profileFinder, userID)

			if !access.CanAccess(role, gatePath(r.URL.Path)) {
				slog.Warn("access denied",
					slog.String("user_id", userID),
					slog.String("role", string(role)),
					slog.String("path", r.URL.Path),
				)
				if recorder != nil {
					recorder.RecordAccessDenied(string(role))
				}
				http.Redirect(w, r, access.DefaultRouteFor(role), http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), roleContextKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveRole はユーザーのロールをDBから解決する。
// プロフィールが見つからない、またはDBエラーの場合はrestrictedを返す。
func resolveRole(ctx context.Context, profileFinder ProfileFinder, userID string) model.Role {
	profile, err := profileFinder.FindByID(ctx, userID)
	if err != nil {
		slog.Error("failed to resolve role, falling back to restricted",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return model.RoleRestricted
	}
	if profile == nil {
		return model.RoleRestricted
	}
	return profile.Role
}

// gatePath はAPIパスをアクセス判定用のルートパスに正規化する。
// "/api/couple_saving/entries" は "/couple_saving/entries" として判定される。
func gatePath(path string) string {
	if path == "/api" {
		return access.RouteRoot
	}
	if rest, ok := strings.CutPrefix(path, "/api/"); ok {
		return "/" + rest
	}
	return path
}

// RoleFromContext はリクエストコンテキストからロールを取得する。
// ロールゲートを通過したリクエストでのみ有効。取得できない場合は
// restrictedを返す。
func RoleFromContext(ctx context.Context) model.Role {
	role, ok := ctx.Value(roleContextKey).(model.Role)
	if !ok {
		return model.RoleRestricted
	}
	return role
}

// ContextWithRole はコンテキストにロールを注入する。テスト用。
func ContextWithRole(ctx context.Context, role model.Role) context.Context {
	return context.WithValue(ctx, roleContextKey, role)
}
