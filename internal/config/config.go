// 환경변수 기반 설정 로딩
//
// .env 파일이 있으면 먼저 읽고(godotenv), 이후 viper로 환경변수와 기본값을 합친다.
// PORTAL_HMAC_KEY, JWT_SECRET 이 없으면 기동에 실패한다.

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MinHMACKeyLength is the minimum accepted length of PORTAL_HMAC_KEY in bytes.
const MinHMACKeyLength = 32

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Postgres PostgresConfig
	Portal   PortalConfig
	Auth     AuthConfig
}

// ServerConfig - HTTP 서버 설정. TrustedProxies 가 비어 있으면 X-Forwarded-For 를 신뢰하지 않는다.
type ServerConfig struct {
	Addr               string
	Env                string
	CORSAllowedOrigins []string
	TrustedProxies     []string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

// PortalConfig holds the settings of the client portal access layer.
// HMACKey keys both the IP hasher and the session token signer.
type PortalConfig struct {
	HMACKey       []byte
	PinIterations int
	CookiePath    string
	CookieDomain  string
	CookieSecure  bool
	ThrottleRPS   float64
	ThrottleBurst int
}

type AuthConfig struct {
	JWTSecret      string
	JWTAccessTTL   string
	JWTRefreshTTL  string
	AllowSignup    string
	CookieSecure   string
	CookieSameSite string
	CookiePath     string
	CookieDomain   string
	AdminUsername  string
	AdminPassword  string
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

func Load() (Config, error) {
	// .env 는 선택 사항
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("PGHOST", "localhost")
	v.SetDefault("PGPORT", "5432")
	v.SetDefault("PGSSLMODE", "disable")
	v.SetDefault("PORTAL_PIN_ITERATIONS", 600000)
	v.SetDefault("PORTAL_COOKIE_PATH", "/api/v1/portal")
	v.SetDefault("PORTAL_THROTTLE_RPS", 5.0)
	v.SetDefault("PORTAL_THROTTLE_BURST", 10)
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h")
	v.SetDefault("ALLOW_SIGNUP", "false")
	v.SetDefault("AUTH_COOKIE_PATH", "/api/v1/auth")

	env := v.GetString("APP_ENV")
	production := strings.EqualFold(env, "production")

	portalSecure, err := parseBool(v.GetString("PORTAL_COOKIE_SECURE"), production)
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid PORTAL_COOKIE_SECURE", ErrInvalidConfig)
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:               v.GetString("HTTP_ADDR"),
			Env:                env,
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			TrustedProxies:     splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("PGHOST"),
			Port:        v.GetString("PGPORT"),
			User:        v.GetString("PGUSER"),
			Password:    v.GetString("PGPASSWORD"),
			Database:    v.GetString("PGDATABASE"),
			SSLMode:     v.GetString("PGSSLMODE"),
		},
		Portal: PortalConfig{
			HMACKey:       []byte(v.GetString("PORTAL_HMAC_KEY")),
			PinIterations: v.GetInt("PORTAL_PIN_ITERATIONS"),
			CookiePath:    v.GetString("PORTAL_COOKIE_PATH"),
			CookieDomain:  v.GetString("PORTAL_COOKIE_DOMAIN"),
			CookieSecure:  portalSecure,
			ThrottleRPS:   v.GetFloat64("PORTAL_THROTTLE_RPS"),
			ThrottleBurst: v.GetInt("PORTAL_THROTTLE_BURST"),
		},
		Auth: AuthConfig{
			JWTSecret:      v.GetString("JWT_SECRET"),
			JWTAccessTTL:   v.GetString("JWT_ACCESS_TTL"),
			JWTRefreshTTL:  v.GetString("JWT_REFRESH_TTL"),
			AllowSignup:    v.GetString("ALLOW_SIGNUP"),
			CookieSecure:   v.GetString("AUTH_COOKIE_SECURE"),
			CookieSameSite: v.GetString("AUTH_COOKIE_SAMESITE"),
			CookiePath:     v.GetString("AUTH_COOKIE_PATH"),
			CookieDomain:   v.GetString("AUTH_COOKIE_DOMAIN"),
			AdminUsername:  v.GetString("ADMIN_USERNAME"),
			AdminPassword:  v.GetString("ADMIN_PASSWORD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the service must not start with. There is no
// fallback signing key: an unset or short PORTAL_HMAC_KEY is fatal.
func (c Config) Validate() error {
	if len(strings.TrimSpace(string(c.Portal.HMACKey))) == 0 {
		return fmt.Errorf("%w: PORTAL_HMAC_KEY is required", ErrInvalidConfig)
	}
	if len(c.Portal.HMACKey) < MinHMACKeyLength {
		return fmt.Errorf("%w: PORTAL_HMAC_KEY must be at least %d bytes", ErrInvalidConfig, MinHMACKeyLength)
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("%w: JWT_SECRET is required", ErrInvalidConfig)
	}
	if c.Portal.PinIterations <= 0 {
		return fmt.Errorf("%w: PORTAL_PIN_ITERATIONS must be positive", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Portal.CookiePath, "/") {
		return fmt.Errorf("%w: PORTAL_COOKIE_PATH must start with /", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: HTTP_ADDR must not be empty", ErrInvalidConfig)
	}
	return nil
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
