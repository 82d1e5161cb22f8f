package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "EVRS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv    = "EVRS_APP_ENV"
	EnvPort      = "EVRS_APP_PORT"
	EnvDBDSN     = "EVRS_DB_DSN"
	EnvDBHost    = "EVRS_DB_HOST"
	EnvDBUser    = "EVRS_DB_USER"
	EnvDBName    = "EVRS_DB_NAME"
	EnvRedisURL  = "EVRS_REDIS_URL"
	EnvJWTSecret = "EVRS_JWT_SECRET"
	EnvJWTIssuer = "EVRS_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
