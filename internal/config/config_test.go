package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/planboard?sslmode=disable")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback")
	t.Setenv("BASE_URL", "http://localhost:3000")
}

// TestLoad_RequiredMissing は必須環境変数の欠落がエラーになることを検証する。
func TestLoad_RequiredMissing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL, got nil")
	}
}

// TestLoad_Defaults はオプション項目のデフォルト値を検証する。
func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.SessionMaxAge != 86400 {
		t.Errorf("SessionMaxAge = %d, want 86400", cfg.SessionMaxAge)
	}
	if cfg.TimeZoneOffsetHours != 7 {
		t.Errorf("TimeZoneOffsetHours = %d, want 7", cfg.TimeZoneOffsetHours)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("SweepInterval = %v, want 5m", cfg.SweepInterval)
	}
	if len(cfg.AdminEmails) != 0 {
		t.Errorf("AdminEmails = %v, want empty", cfg.AdminEmails)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure = true for http BASE_URL, want false")
	}
}

// TestLoad_AdminEmails はカンマ区切りの許可リストが正しく分割されることを検証する。
func TestLoad_AdminEmails(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_EMAILS", "admin@example.com, Boss@Example.com ,,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := []string{"admin@example.com", "Boss@Example.com"}
	if len(cfg.AdminEmails) != len(want) {
		t.Fatalf("AdminEmails = %v, want %v", cfg.AdminEmails, want)
	}
	for i := range want {
		if cfg.AdminEmails[i] != want[i] {
			t.Errorf("AdminEmails[%d] = %q, want %q", i, cfg.AdminEmails[i], want[i])
		}
	}
}

// TestLoad_CookieSecureForHTTPS はhttpsのBASE_URLでSecure Cookieが有効になることを検証する。
func TestLoad_CookieSecureForHTTPS(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BASE_URL", "https://planboard.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure = false for https BASE_URL, want true")
	}
}
