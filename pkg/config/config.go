package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	OpenAI    OpenAIConfig
	Stripe    StripeConfig
	Sendgrid  SendgridConfig
	Slack     SlackConfig
	Quota     QuotaConfig
	RateLimit RateLimitConfig
	Eventing  EventingConfig
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
	Env          string `envconfig:"INSTAPROMPT_APP_ENV" required:"true"`
	Port         string `envconfig:"INSTAPROMPT_APP_PORT" default:"3000"`
	Domain       string `envconfig:"INSTAPROMPT_DOMAIN" required:"true"`
	LogLevel     string `envconfig:"INSTAPROMPT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INSTAPROMPT_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"INSTAPROMPT_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BaseURL returns the public domain without a trailing slash, used when
// building checkout redirect and rating link URLs.
func (a AppConfig) BaseURL() string {
	return strings.TrimRight(a.Domain, "/")
}

type DBConfig struct {
	DSN    string `envconfig:"INSTAPROMPT_DB_DSN"`
	Driver string `envconfig:"INSTAPROMPT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"INSTAPROMPT_DB_HOST"`
	LegacyPort     int    `envconfig:"INSTAPROMPT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"INSTAPROMPT_DB_USER"`
	LegacyPassword string `envconfig:"INSTAPROMPT_DB_PASSWORD"`
	LegacyName     string `envconfig:"INSTAPROMPT_DB_NAME"`
	LegacySSLMode  string `envconfig:"INSTAPROMPT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"INSTAPROMPT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INSTAPROMPT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INSTAPROMPT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INSTAPROMPT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"INSTAPROMPT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"INSTAPROMPT_REDIS_ADDR"`
	Password     string        `envconfig:"INSTAPROMPT_REDIS_PASSWORD"`
	DB           int           `envconfig:"INSTAPROMPT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INSTAPROMPT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INSTAPROMPT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INSTAPROMPT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INSTAPROMPT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INSTAPROMPT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type OpenAIConfig struct {
	APIKey string `envconfig:"INSTAPROMPT_OPENAI_API_KEY"`
	Model  string `envconfig:"INSTAPROMPT_OPENAI_MODEL" default:"gpt-4"`
}

type StripeConfig struct {
	APIKey       string `envconfig:"INSTAPROMPT_STRIPE_API_KEY"`
	Secret       string `envconfig:"INSTAPROMPT_STRIPE_WEBHOOK_SECRET"`
	Env          string `envconfig:"INSTAPROMPT_STRIPE_ENV" default:"test"`
	ProPriceID   string `envconfig:"INSTAPROMPT_STRIPE_PRO_PRICE_ID"`
	TrialPriceID string `envconfig:"INSTAPROMPT_STRIPE_TRIAL_PRICE_ID"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type SendgridConfig struct {
	APIKey      string `envconfig:"INSTAPROMPT_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"INSTAPROMPT_SENDGRID_FROM_EMAIL"`
}

type SlackConfig struct {
	WebhookURL string        `envconfig:"INSTAPROMPT_SLACK_WEBHOOK_URL"`
	Timeout    time.Duration `envconfig:"INSTAPROMPT_SLACK_TIMEOUT" default:"5s"`
}

type QuotaConfig struct {
	// Step is the number of units one delivered caption set consumes.
	Step       int `envconfig:"INSTAPROMPT_QUOTA_STEP" default:"1"`
	TrialLimit int `envconfig:"INSTAPROMPT_QUOTA_TRIAL_LIMIT" default:"10"`
	FreeLimit  int `envconfig:"INSTAPROMPT_QUOTA_FREE_LIMIT" default:"3"`
}

type RateLimitConfig struct {
	// WebhookIPLimit of zero disables throttling on the form webhook.
	WebhookIPLimit int           `envconfig:"INSTAPROMPT_RATE_LIMIT_WEBHOOK_IP_LIMIT" default:"30"`
	WebhookWindow  time.Duration `envconfig:"INSTAPROMPT_RATE_LIMIT_WEBHOOK_WINDOW" default:"1m"`
}

type EventingConfig struct {
	StripeIdempotencyTTL time.Duration `envconfig:"INSTAPROMPT_STRIPE_IDEMPOTENCY_TTL" default:"720h"`
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
