package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Store backends selectable through CHECKIN_STORE.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreSheets = "sheets"
)

// Config captures environment driven configuration values for the check-in service.
type Config struct {
	HTTPPort int

	Store                 string
	SQLiteDSN             string
	SheetsSpreadsheetID   string
	SheetsCredentialsFile string

	Location     *time.Location
	CodeWindow   time.Duration
	CodeCacheTTL time.Duration

	AdminPasswordHash string
	AdminLoginRate    int
	SessionSecret     string
	SessionTTL        time.Duration

	LogFormat string
	LogLevel  string
}

// Load parses configuration values from the current process environment after
// merging a .env file from the working directory when one exists. Variables
// already set in the environment win over the file.
//
// Optional fields fall back to defaults. Missing required values and invalid
// values are reported together.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}

	cfg := Config{
		HTTPPort:       8080,
		Store:          StoreSQLite,
		SQLiteDSN:      "file:attendance.db",
		CodeWindow:     2 * time.Hour,
		AdminLoginRate: 5,
		SessionTTL:     30 * time.Minute,
		LogFormat:      "json",
		LogLevel:       "info",
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 2)

	if portValue := env("CHECKIN_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "CHECKIN_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if store := strings.ToLower(env("CHECKIN_STORE")); store != "" {
		switch store {
		case StoreMemory, StoreSQLite, StoreSheets:
			cfg.Store = store
		default:
			invalid = append(invalid, "CHECKIN_STORE")
		}
	}

	if dsn := env("CHECKIN_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	cfg.SheetsSpreadsheetID = env("CHECKIN_SHEETS_SPREADSHEET_ID")
	cfg.SheetsCredentialsFile = env("CHECKIN_SHEETS_CREDENTIALS_FILE")
	if cfg.Store == StoreSheets {
		if cfg.SheetsSpreadsheetID == "" {
			missing = append(missing, "CHECKIN_SHEETS_SPREADSHEET_ID")
		}
		if cfg.SheetsCredentialsFile == "" {
			missing = append(missing, "CHECKIN_SHEETS_CREDENTIALS_FILE")
		}
	}

	zone := env("CHECKIN_TIMEZONE")
	if zone == "" {
		zone = "Asia/Kolkata"
	}
	if loc, err := time.LoadLocation(zone); err != nil {
		invalid = append(invalid, "CHECKIN_TIMEZONE")
	} else {
		cfg.Location = loc
	}

	if d, ok := parseDuration("CHECKIN_CODE_WINDOW", false, &invalid); ok {
		cfg.CodeWindow = d
	}
	if d, ok := parseDuration("CHECKIN_CODE_CACHE_TTL", true, &invalid); ok {
		cfg.CodeCacheTTL = d
	}
	if d, ok := parseDuration("CHECKIN_SESSION_TTL", false, &invalid); ok {
		cfg.SessionTTL = d
	}

	if hash := env("CHECKIN_ADMIN_PASSWORD_HASH"); hash == "" {
		missing = append(missing, "CHECKIN_ADMIN_PASSWORD_HASH")
	} else {
		cfg.AdminPasswordHash = hash
	}

	if secret := env("CHECKIN_SESSION_SECRET"); secret == "" {
		missing = append(missing, "CHECKIN_SESSION_SECRET")
	} else {
		cfg.SessionSecret = secret
	}

	if rateValue := env("CHECKIN_ADMIN_LOGIN_RATE"); rateValue != "" {
		perMinute, err := strconv.Atoi(rateValue)
		if err != nil || perMinute < 0 {
			invalid = append(invalid, "CHECKIN_ADMIN_LOGIN_RATE")
		} else {
			cfg.AdminLoginRate = perMinute
		}
	}

	if format := strings.ToLower(env("CHECKIN_LOG_FORMAT")); format != "" {
		if format != "json" && format != "text" {
			invalid = append(invalid, "CHECKIN_LOG_FORMAT")
		} else {
			cfg.LogFormat = format
		}
	}
	if level := strings.ToLower(env("CHECKIN_LOG_LEVEL")); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		default:
			invalid = append(invalid, "CHECKIN_LOG_LEVEL")
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseDuration(key string, allowZero bool, invalid *[]string) (time.Duration, bool) {
	value := env(key)
	if value == "" {
		return 0, false
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		*invalid = append(*invalid, key)
		return 0, false
	}
	return d, true
}
