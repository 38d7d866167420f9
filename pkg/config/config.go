package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Admin         AdminConfig
	Crypto        CryptoConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
	Kafka         KafkaConfig
	Outbox        OutboxConfig
	Activity      ActivityConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Admin.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FOGUEL_APP_ENV" required:"true"`
	Port         string `envconfig:"FOGUEL_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"FOGUEL_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"FOGUEL_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"FOGUEL_LOG_WARN_STACK" default:"false"`
	TimeZone     string `envconfig:"FOGUEL_TIME_ZONE" default:"America/Sao_Paulo"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the business time zone used for "today" and date rendering.
func (a AppConfig) Location() *time.Location {
	name := strings.TrimSpace(a.TimeZone)
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

type ServiceConfig struct {
	Kind string `envconfig:"FOGUEL_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FOGUEL_DB_DSN"`
	Driver string `envconfig:"FOGUEL_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"FOGUEL_DB_HOST"`
	Port     int    `envconfig:"FOGUEL_DB_PORT" default:"5432"`
	User     string `envconfig:"FOGUEL_DB_USER"`
	Password string `envconfig:"FOGUEL_DB_PASSWORD"`
	Name     string `envconfig:"FOGUEL_DB_NAME"`
	SSLMode  string `envconfig:"FOGUEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOGUEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOGUEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOGUEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOGUEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOGUEL_REDIS_URL"`
	Address      string        `envconfig:"FOGUEL_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"FOGUEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOGUEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOGUEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOGUEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOGUEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOGUEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOGUEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FOGUEL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FOGUEL_JWT_ISSUER" default:"foguel-api"`
	ExpirationMinutes int    `envconfig:"FOGUEL_JWT_EXPIRATION_MINUTES" default:"480"`
}

// TokenTTL returns the access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FOGUEL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FOGUEL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FOGUEL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FOGUEL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FOGUEL_ARGON_KEY_LEN" default:"32"`
}

// AdminConfig holds the single console administrator. PasswordHash is an
// argon2id encoded hash and takes precedence over Password when both are set.
type AdminConfig struct {
	Username     string `envconfig:"FOGUEL_ADMIN_USERNAME" required:"true"`
	Password     string `envconfig:"FOGUEL_ADMIN_PASSWORD"`
	PasswordHash string `envconfig:"FOGUEL_ADMIN_PASSWORD_HASH"`
}

func (a AdminConfig) validate() error {
	if strings.TrimSpace(a.Password) == "" && strings.TrimSpace(a.PasswordHash) == "" {
		return fmt.Errorf("either %s or %s is required", EnvAdminPassword, EnvAdminPasswordHash)
	}
	return nil
}

type CryptoConfig struct {
	AccessCodeSecret string `envconfig:"FOGUEL_ACCESS_CODE_SECRET" required:"true"`
	AccessCodeSalt   string `envconfig:"FOGUEL_ACCESS_CODE_SALT" default:"foguel-access-code"`
}

type AuthRateLimitConfig struct {
	LoginWindow  time.Duration `envconfig:"FOGUEL_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit int           `envconfig:"FOGUEL_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FOGUEL_CORS_ALLOWED_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FOGUEL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FOGUEL_AUTO_MIGRATE" default:"false"`
}

type KafkaConfig struct {
	Brokers      []string      `envconfig:"FOGUEL_KAFKA_BROKERS"`
	Topic        string        `envconfig:"FOGUEL_KAFKA_ROUTE_EVENTS_TOPIC" default:"foguel.route-events"`
	ClientID     string        `envconfig:"FOGUEL_KAFKA_CLIENT_ID" default:"foguel-outbox-publisher"`
	WriteTimeout time.Duration `envconfig:"FOGUEL_KAFKA_WRITE_TIMEOUT" default:"10s"`
}

// Enabled reports whether at least one broker is configured.
func (k KafkaConfig) Enabled() bool {
	for _, broker := range k.Brokers {
		if strings.TrimSpace(broker) != "" {
			return true
		}
	}
	return false
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FOGUEL_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FOGUEL_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FOGUEL_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionDays  int `envconfig:"FOGUEL_OUTBOX_RETENTION_DAYS" default:"30"`
}

type ActivityConfig struct {
	FeedLimit     int `envconfig:"FOGUEL_ACTIVITY_FEED_LIMIT" default:"5"`
	RetentionDays int `envconfig:"FOGUEL_ACTIVITY_RETENTION_DAYS" default:"90"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"FOGUEL_CRON_INTERVAL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
