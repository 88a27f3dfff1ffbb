package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var checkinVariables = []string{
	"CHECKIN_HTTP_PORT",
	"CHECKIN_STORE",
	"CHECKIN_SQLITE_DSN",
	"CHECKIN_SHEETS_SPREADSHEET_ID",
	"CHECKIN_SHEETS_CREDENTIALS_FILE",
	"CHECKIN_TIMEZONE",
	"CHECKIN_CODE_WINDOW",
	"CHECKIN_CODE_CACHE_TTL",
	"CHECKIN_ADMIN_PASSWORD_HASH",
	"CHECKIN_ADMIN_LOGIN_RATE",
	"CHECKIN_SESSION_SECRET",
	"CHECKIN_SESSION_TTL",
	"CHECKIN_LOG_FORMAT",
	"CHECKIN_LOG_LEVEL",
}

func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, key := range checkinVariables {
		// Register restoration through Setenv before unsetting.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("CHECKIN_SESSION_SECRET", "super-secret")
		t.Setenv("CHECKIN_ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.Store != StoreSQLite || cfg.SQLiteDSN != "file:attendance.db" {
			t.Fatalf("unexpected default store: %q %q", cfg.Store, cfg.SQLiteDSN)
		}
		if cfg.Location == nil || cfg.Location.String() != "Asia/Kolkata" {
			t.Fatalf("expected Asia/Kolkata, got %v", cfg.Location)
		}
		if cfg.CodeWindow != 2*time.Hour || cfg.CodeCacheTTL != 0 {
			t.Fatalf("unexpected code durations: %s %s", cfg.CodeWindow, cfg.CodeCacheTTL)
		}
		if cfg.SessionTTL != 30*time.Minute || cfg.AdminLoginRate != 5 {
			t.Fatalf("unexpected session defaults: %s %d", cfg.SessionTTL, cfg.AdminLoginRate)
		}
		if cfg.LogFormat != "json" || cfg.LogLevel != "info" {
			t.Fatalf("unexpected log defaults: %q %q", cfg.LogFormat, cfg.LogLevel)
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		clearEnvironment(t)

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "required environment variables are not set: CHECKIN_ADMIN_PASSWORD_HASH, CHECKIN_SESSION_SECRET"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("sheets backend requires spreadsheet settings", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("CHECKIN_SESSION_SECRET", "secret-value")
		t.Setenv("CHECKIN_ADMIN_PASSWORD_HASH", "hash")
		t.Setenv("CHECKIN_STORE", "sheets")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "CHECKIN_SHEETS_SPREADSHEET_ID, CHECKIN_SHEETS_CREDENTIALS_FILE") {
			t.Fatalf("expected sheets settings to be required, got %v", err)
		}
	})

	t.Run("reports invalid values", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("CHECKIN_SESSION_SECRET", "secret-value")
		t.Setenv("CHECKIN_ADMIN_PASSWORD_HASH", "hash")
		t.Setenv("CHECKIN_HTTP_PORT", "-1")
		t.Setenv("CHECKIN_STORE", "postgres")
		t.Setenv("CHECKIN_TIMEZONE", "Mars/Olympus")
		t.Setenv("CHECKIN_CODE_WINDOW", "0s")

		_, err := Load()
		expected := "environment variables have invalid values: CHECKIN_HTTP_PORT, CHECKIN_STORE, CHECKIN_TIMEZONE, CHECKIN_CODE_WINDOW"
		if err == nil || err.Error() != expected {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("CHECKIN_SESSION_SECRET", "secret-value")
		t.Setenv("CHECKIN_ADMIN_PASSWORD_HASH", "hash")
		t.Setenv("CHECKIN_HTTP_PORT", "9090")
		t.Setenv("CHECKIN_STORE", "Memory")
		t.Setenv("CHECKIN_TIMEZONE", "UTC")
		t.Setenv("CHECKIN_CODE_WINDOW", "5h")
		t.Setenv("CHECKIN_CODE_CACHE_TTL", "0s")
		t.Setenv("CHECKIN_SESSION_TTL", "1h")
		t.Setenv("CHECKIN_ADMIN_LOGIN_RATE", "0")
		t.Setenv("CHECKIN_LOG_FORMAT", "TEXT")
		t.Setenv("CHECKIN_LOG_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 || cfg.Store != StoreMemory {
			t.Fatalf("unexpected port/store: %d %q", cfg.HTTPPort, cfg.Store)
		}
		if cfg.Location != time.UTC {
			t.Fatalf("expected UTC, got %v", cfg.Location)
		}
		if cfg.CodeWindow != 5*time.Hour || cfg.CodeCacheTTL != 0 || cfg.SessionTTL != time.Hour {
			t.Fatalf("unexpected durations: %s %s %s", cfg.CodeWindow, cfg.CodeCacheTTL, cfg.SessionTTL)
		}
		if cfg.AdminLoginRate != 0 {
			t.Fatalf("expected login rate 0, got %d", cfg.AdminLoginRate)
		}
		if cfg.LogFormat != "text" || cfg.LogLevel != "debug" {
			t.Fatalf("unexpected log settings: %q %q", cfg.LogFormat, cfg.LogLevel)
		}
	})
}
