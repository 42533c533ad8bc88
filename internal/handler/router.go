package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/planboard/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	ProfileFinder     middleware.ProfileFinder
	DenialRecorder    middleware.DenialRecorder
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	PlannerService PlannerServiceInterface
	SavingService  SavingServiceInterface
	TradingService TradingServiceInterface
	SchoolService  SchoolServiceInterface
	IdeaService    IdeaServiceInterface
	ChatService    ChatServiceInterface
	ProfileService ProfileServiceInterface

	// 運用エンドポイント
	MetricsHandler http.Handler
	HealthHandler  http.HandlerFunc
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → SessionMiddleware → RoleGateMiddleware → CSRFMiddleware → RateLimitMiddleware(GeneralMiddleware)
//
// 認証ルート（/auth/*）と運用ルート（/health, /metrics）はミドルウェアチェーンの外に配置する。
// ロールゲートは /api 配下のルート先頭をAccessPolicyで判定し、許可されない
// リクエストをロールの既定ルートへリダイレクトする。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS ミドルウェアを最上位に適用（全ルートに効く）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	itemHandler := NewItemHandler(deps.PlannerService)
	savingHandler := NewSavingHandler(deps.SavingService)
	tradeHandler := NewTradeHandler(deps.TradingService)
	schoolHandler := NewSchoolHandler(deps.SchoolService)
	ideaHandler := NewIdeaHandler(deps.IdeaService)
	chatHandler := NewChatHandler(deps.ChatService)
	userHandler := NewUserHandler(deps.ProfileService)

	// --- 認証不要のルート ---

	// 認証ルート（OAuthフロー）
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// 運用エンドポイント
	if deps.HealthHandler != nil {
		r.Get("/health", deps.HealthHandler)
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// CSRFトークン取得（セッション不要、Cookieベース）
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RoleGate → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewRoleGateMiddleware(deps.ProfileFinder, deps.DenialRecorder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// デイリープランナー
		r.Route("/api/planner/items", func(r chi.Router) {
			r.Get("/", itemHandler.ListItems)
			r.Post("/", itemHandler.CreateItem)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", itemHandler.UpdateItem)
				r.Put("/status", itemHandler.UpdateItemStatus)
				r.Delete("/", itemHandler.DeleteItem)
			})
		})

		// 夫婦貯金
		r.Route("/api/couple_saving", func(r chi.Router) {
			r.Get("/summary", savingHandler.GetSummary)

			r.Route("/entries", func(r chi.Router) {
				r.Get("/", savingHandler.ListEntries)
				r.Post("/", savingHandler.CreateEntry)
				r.Put("/{id}", savingHandler.UpdateEntry)
				r.Delete("/{id}", savingHandler.DeleteEntry)
			})
		})

		// トレードジャーナル（個人）
		r.Route("/api/trading", func(r chi.Router) {
			r.Get("/summary", tradeHandler.GetSummary)

			r.Route("/trades", func(r chi.Router) {
				r.Get("/", tradeHandler.ListTrades)
				r.Post("/", tradeHandler.CreateTrade)
				r.Put("/{id}", tradeHandler.UpdateTrade)
				r.Delete("/{id}", tradeHandler.DeleteTrade)
			})
		})

		// トレードジャーナル（パートナーグループ）
		r.Route("/api/trading_partner/groups", func(r chi.Router) {
			r.Get("/", tradeHandler.ListGroups)
			r.Post("/", tradeHandler.CreateGroup)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/members", tradeHandler.AddMember)
				r.Get("/trades", tradeHandler.ListGroupTrades)
				r.Post("/trades", tradeHandler.CreateGroupTrade)
				r.Get("/summary", tradeHandler.GetGroupSummary)
			})
		})

		// 学校プランナー
		r.Route("/api/school", func(r chi.Router) {
			r.Route("/classes", func(r chi.Router) {
				r.Get("/", schoolHandler.ListClasses)
				r.Post("/", schoolHandler.CreateClass)
				r.Put("/{id}", schoolHandler.UpdateClass)
				r.Delete("/{id}", schoolHandler.DeleteClass)
			})

			r.Route("/assignments", func(r chi.Router) {
				r.Get("/", schoolHandler.ListAssignments)
				r.Post("/", schoolHandler.CreateAssignment)
				r.Put("/{id}", schoolHandler.UpdateAssignment)
				r.Delete("/{id}", schoolHandler.DeleteAssignment)
			})
		})

		// アイデアボード
		r.Route("/api/ideas", func(r chi.Router) {
			r.Get("/", ideaHandler.ListIdeas)
			r.Post("/", ideaHandler.CreateIdea)
			r.Put("/{id}", ideaHandler.UpdateIdea)
			r.Delete("/{id}", ideaHandler.DeleteIdea)
		})

		// アシスタントチャット
		r.Route("/api/chat/messages", func(r chi.Router) {
			r.Get("/", chatHandler.GetHistory)

			// POST はチャット専用レート制限を追加
			r.With(deps.RateLimiter.ChatMiddleware()).Post("/", chatHandler.PostMessage)
		})

		// ユーザー・ロール管理（管理者向け）
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Put("/{id}/role", userHandler.UpdateUserRole)
		})
	})

	return r
}
