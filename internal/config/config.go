package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port, LogLevel string }
type DBCfg struct {
	DSN      string
	MaxConns int32
}
type RedisCfg struct {
	Addr, Password string
	DB             int
}

type SessionCfg struct {
	Secret string
	TTL    time.Duration
}

type SecurityCfg struct {
	RateLimitPerMin int
	AdminToken      string // guards session issuance
}

type ListCfg struct {
	MaxItemsPerPage int
	SearchDebounce  time.Duration
}

// ClientCfg is read by deskctl.
type ClientCfg struct {
	APIURL         string
	Token          string
	RetryMaxWait   time.Duration
	RequestTimeout time.Duration
}

type Cfg struct {
	App     AppCfg
	DB      DBCfg
	Redis   RedisCfg
	Session SessionCfg
	Sec     SecurityCfg
	List    ListCfg
	Client  ClientCfg
}

var (
	ErrMissingDSN    = errors.New("DB_DSN is required")
	ErrMissingSecret = errors.New("SESSION_SECRET is required")
)

// Load reads .env (if present) and the process environment.
func Load() Cfg {
	_ = godotenv.Overload(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("RATE_LIMIT_PER_MIN", 300)
	v.SetDefault("ADMIN_TOKEN", "")
	v.SetDefault("LIST_MAX_ITEMS_PER_PAGE", 100)
	v.SetDefault("LIST_SEARCH_DEBOUNCE", "300ms")
	v.SetDefault("DESK_API_URL", "http://localhost:8080")
	v.SetDefault("HTTP_RETRY_MAX_ELAPSED", "10s")
	v.SetDefault("HTTP_TIMEOUT", "15s")

	return Cfg{
		App: AppCfg{
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
		DB: DBCfg{
			DSN:      v.GetString("DB_DSN"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisCfg{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionCfg{
			Secret: v.GetString("SESSION_SECRET"),
			TTL:    v.GetDuration("SESSION_TTL"),
		},
		Sec: SecurityCfg{
			RateLimitPerMin: v.GetInt("RATE_LIMIT_PER_MIN"),
			AdminToken:      strings.TrimSpace(v.GetString("ADMIN_TOKEN")),
		},
		List: ListCfg{
			MaxItemsPerPage: v.GetInt("LIST_MAX_ITEMS_PER_PAGE"),
			SearchDebounce:  v.GetDuration("LIST_SEARCH_DEBOUNCE"),
		},
		Client: ClientCfg{
			APIURL:         strings.TrimRight(v.GetString("DESK_API_URL"), "/"),
			Token:          strings.TrimSpace(v.GetString("DESK_TOKEN")),
			RetryMaxWait:   v.GetDuration("HTTP_RETRY_MAX_ELAPSED"),
			RequestTimeout: v.GetDuration("HTTP_TIMEOUT"),
		},
	}
}

// ValidateServer checks the settings the API server cannot start without.
func (c Cfg) ValidateServer() error {
	if c.DB.DSN == "" {
		return ErrMissingDSN
	}
	if c.Session.Secret == "" {
		return ErrMissingSecret
	}
	return nil
}

func (c Cfg) IsDev() bool { return c.App.Env == "dev" }
