package config

const (
	EnvPrefix = "FOGUEL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DefaultTimeZone = "America/Sao_Paulo"

	// DriverSQLite selects the gorm sqlite dialector.
	DriverSQLite = "sqlite"

	EnvAppEnv            = "FOGUEL_APP_ENV"
	EnvPort              = "FOGUEL_APP_PORT"
	EnvDBDSN             = "FOGUEL_DB_DSN"
	EnvDBHost            = "FOGUEL_DB_HOST"
	EnvDBUser            = "FOGUEL_DB_USER"
	EnvDBName            = "FOGUEL_DB_NAME"
	EnvDBPassword        = "FOGUEL_DB_PASSWORD"
	EnvRedisURL          = "FOGUEL_REDIS_URL"
	EnvJWTSecret         = "FOGUEL_JWT_SECRET"
	EnvJWTIssuer         = "FOGUEL_JWT_ISSUER"
	EnvJWTExpMins        = "FOGUEL_JWT_EXPIRATION_MINUTES"
	EnvAdminUsername     = "FOGUEL_ADMIN_USERNAME"
	EnvAdminPassword     = "FOGUEL_ADMIN_PASSWORD"
	EnvAdminPasswordHash = "FOGUEL_ADMIN_PASSWORD_HASH"
	EnvAccessCodeSecret  = "FOGUEL_ACCESS_CODE_SECRET"
	EnvKafkaBrokers      = "FOGUEL_KAFKA_BROKERS"
	EnvTimeZone          = "FOGUEL_TIME_ZONE"
	EnvUseSQLite         = "FOGUEL_USE_SQLITE"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
