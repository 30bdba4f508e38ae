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
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Verification  VerificationConfig
	FeatureFlags  FeatureFlagsConfig
	Sendgrid      SendgridConfig
	CORS          CORSConfig
}

// Load reads every setting from the environment. Missing required variables
// fail fast here instead of surfacing later as nil dereferences.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPSTACK_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPSTACK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPSTACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPSTACK_LOG_WARN_STACK" default:"false"`
	ClientURL    string `envconfig:"SHOPSTACK_CLIENT_URL" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPSTACK_DB_DSN"`
	Driver string `envconfig:"SHOPSTACK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPSTACK_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPSTACK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPSTACK_DB_USER"`
	LegacyPassword string `envconfig:"SHOPSTACK_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPSTACK_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPSTACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPSTACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPSTACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPSTACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPSTACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPSTACK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPSTACK_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPSTACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPSTACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPSTACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPSTACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPSTACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPSTACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPSTACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHOPSTACK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHOPSTACK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SHOPSTACK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SHOPSTACK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPSTACK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPSTACK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPSTACK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPSTACK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPSTACK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHOPSTACK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SHOPSTACK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHOPSTACK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SHOPSTACK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SHOPSTACK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SHOPSTACK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type VerificationConfig struct {
	CodeTTL       time.Duration `envconfig:"SHOPSTACK_VERIFICATION_CODE_TTL" default:"15m"`
	ResetTokenTTL time.Duration `envconfig:"SHOPSTACK_RESET_TOKEN_TTL" default:"15m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOPSTACK_AUTO_MIGRATE" default:"false"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"SHOPSTACK_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"SHOPSTACK_SENDGRID_FROM_EMAIL"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SHOPSTACK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// ensureDSN resolves the connection string. A full DSN wins; otherwise the
// discrete host/user/name variables are assembled into one.
func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	required := []struct{ env, value string }{
		{EnvDBHost, db.LegacyHost},
		{EnvDBUser, db.LegacyUser},
		{EnvDBName, db.LegacyName},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}
	u := url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}
	if db.LegacySSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {db.LegacySSLMode}}.Encode()
	}

	db.DSN = u.String()
	return nil
}
