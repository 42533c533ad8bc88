// Package app はアプリケーションの起動モードごとの初期化とワイヤリングを提供する。
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/planboard/internal/auth"
	"github.com/hitoshi/planboard/internal/chat"
	"github.com/hitoshi/planboard/internal/config"
	"github.com/hitoshi/planboard/internal/database"
	"github.com/hitoshi/planboard/internal/handler"
	"github.com/hitoshi/planboard/internal/idea"
	"github.com/hitoshi/planboard/internal/logger"
	"github.com/hitoshi/planboard/internal/metrics"
	"github.com/hitoshi/planboard/internal/middleware"
	"github.com/hitoshi/planboard/internal/planner"
	"github.com/hitoshi/planboard/internal/profile"
	"github.com/hitoshi/planboard/internal/repository"
	"github.com/hitoshi/planboard/internal/saving"
	"github.com/hitoshi/planboard/internal/schedule"
	"github.com/hitoshi/planboard/internal/school"
	"github.com/hitoshi/planboard/internal/security"
	"github.com/hitoshi/planboard/internal/trading"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// baseLocation は設定のタイムゾーンオフセットから基準タイムゾーンを構築する。
func baseLocation(cfg *config.Config) *time.Location {
	if cfg.TimeZoneOffsetHours == 7 {
		return schedule.DefaultLocation()
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", cfg.TimeZoneOffsetHours), cfg.TimeZoneOffsetHours*60*60)
}

// openDatabase はDB接続を開いて疎通確認する。
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("database connection established")

	// 2. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. リポジトリの初期化
	profileRepo := repository.NewPostgresProfileRepo(db)
	identRepo := repository.NewPostgresIdentityRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	itemRepo := repository.NewPostgresItemRepo(db)
	savingRepo := repository.NewPostgresSavingRepo(db)
	tradeRepo := repository.NewPostgresTradeRepo(db)
	groupRepo := repository.NewPostgresGroupRepo(db)
	ideaRepo := repository.NewPostgresIdeaRepo(db)
	classRepo := repository.NewPostgresClassRepo(db)
	chatRepo := repository.NewPostgresChatRepo(db)

	// 4. ドメインサービスの初期化
	loc := baseLocation(cfg)
	reconciler := schedule.NewReconciler(loc)
	sweeper := schedule.NewSweeper(itemRepo, itemRepo, reconciler, slog.Default(), collector)

	oauthProvider := auth.NewGoogleOAuthProvider(auth.GoogleOAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	authService := auth.NewService(
		oauthProvider, profileRepo, identRepo, sessionRepo, collector,
		auth.ServiceConfig{
			SessionMaxAge: cfg.SessionMaxAge,
			AdminEmails:   cfg.AdminEmails,
		},
		slog.Default(),
	)

	sanitizer := security.NewContentSanitizer()

	plannerService := planner.NewService(itemRepo, sweeper)
	savingService := saving.NewService(savingRepo)
	tradingService := trading.NewService(tradeRepo, groupRepo)
	schoolService := school.NewService(classRepo)
	ideaService := idea.NewService(ideaRepo, sanitizer)
	chatService := chat.NewService(chatRepo, chat.EchoResponder{})
	profileService := profile.NewService(profileRepo, sessionRepo, slog.Default())

	// 5. レート制限の構築（設定はreq/min単位なのでreq/secに変換する）
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     rate.Limit(float64(cfg.RateLimitGeneral) / 60.0),
		GeneralBurst:    cfg.RateLimitGeneral,
		ChatRate:        rate.Limit(float64(cfg.RateLimitChat) / 60.0),
		ChatBurst:       cfg.RateLimitChat,
		CleanupInterval: 5 * time.Minute,
	})
	defer rateLimiter.Stop()

	// 6. ルーターの構築
	csrfConfig := middleware.CSRFConfig{
		CookieSecure: cfg.CookieSecure,
		CookieDomain: cfg.CookieDomain,
	}

	deps := &handler.RouterDeps{
		SessionFinder:     sessionRepo,
		ProfileFinder:     profileRepo,
		DenialRecorder:    collector,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		CSRFConfig:        csrfConfig,
		RateLimiter:       rateLimiter,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			BaseURL:       cfg.BaseURL,
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		PlannerService: plannerService,
		SavingService:  savingService,
		TradingService: tradingService,
		SchoolService:  schoolService,
		IdeaService:    ideaService,
		ChatService:    chatService,
		ProfileService: profileService,

		MetricsHandler: metrics.Handler(registry),
		HealthHandler: func(w http.ResponseWriter, r *http.Request) {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		},
	}

	router := handler.NewRouter(deps)

	// 7. 外側のミドルウェアチェーン（Recovery → SecurityHeaders → Logging）
	var root http.Handler = router
	root = middleware.NewLoggingMiddleware(slog.Default(), collector)(root)
	root = middleware.NewSecurityHeadersMiddleware()(root)
	root = middleware.NewRecoveryMiddleware()(root)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はスイープワーカーモードで起動する。
// 画面からの読み取り時スイープとは独立に、期限超過タスクを定期的に
// 自動完了する。SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	// 1. DB接続
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("database connection established (worker)")

	// 2. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. スイープワーカーの構築
	itemRepo := repository.NewPostgresItemRepo(db)
	loc := baseLocation(cfg)
	reconciler := schedule.NewReconciler(loc)
	sweeper := schedule.NewSweeper(itemRepo, itemRepo, reconciler, slog.Default(), collector)
	worker := schedule.NewWorker(itemRepo, sweeper, slog.Default(), loc)

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("sweep_interval", cfg.SweepInterval),
		slog.Int("time_zone_offset_hours", cfg.TimeZoneOffsetHours),
	)

	// スイープワーカーをメインgoroutineで実行（ブロッキング）
	worker.Start(ctx, cfg.SweepInterval)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
