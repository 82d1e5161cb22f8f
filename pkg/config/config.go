package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AccessKey     AccessKeyConfig
	AuthRateLimit AuthRateLimitConfig
	Webhooks      WebhooksConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EVRS_APP_ENV" required:"true"`
	Port         string `envconfig:"EVRS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"EVRS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EVRS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"EVRS_DB_DSN"`
	Driver string `envconfig:"EVRS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EVRS_DB_HOST"`
	LegacyPort     int    `envconfig:"EVRS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EVRS_DB_USER"`
	LegacyPassword string `envconfig:"EVRS_DB_PASSWORD"`
	LegacyName     string `envconfig:"EVRS_DB_NAME"`
	LegacySSLMode  string `envconfig:"EVRS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EVRS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EVRS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EVRS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EVRS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EVRS_REDIS_URL"`
	Address      string        `envconfig:"EVRS_REDIS_ADDR"`
	Password     string        `envconfig:"EVRS_REDIS_PASSWORD"`
	DB           int           `envconfig:"EVRS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EVRS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EVRS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EVRS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EVRS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EVRS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint is configured at all. The login
// rate limiter degrades to a no-op without one.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"EVRS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"EVRS_JWT_ISSUER" default:"elitevinewoodrs"`
	ExpirationMinutes int    `envconfig:"EVRS_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type AccessKeyConfig struct {
	ArgonMemoryKB    int `envconfig:"EVRS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EVRS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EVRS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EVRS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EVRS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"EVRS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"EVRS_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"EVRS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type WebhooksConfig struct {
	GenericURL string        `envconfig:"EVRS_WEBHOOK_URL"`
	DiscordURL string        `envconfig:"EVRS_DISCORD_WEBHOOK_URL"`
	Timeout    time.Duration `envconfig:"EVRS_WEBHOOK_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EVRS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
