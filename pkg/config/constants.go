package config

// EnvPrefix is the envconfig prefix shared by every DOCUDESK_* variable.
const EnvPrefix = "docudesk"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "DOCUDESK_APP_ENV"
	EnvAppPort    = "DOCUDESK_APP_PORT"
	EnvDBDSN      = "DOCUDESK_DB_DSN"
	EnvDBHost     = "DOCUDESK_DB_HOST"
	EnvDBUser     = "DOCUDESK_DB_USER"
	EnvDBName     = "DOCUDESK_DB_NAME"
	EnvDBPassword = "DOCUDESK_DB_PASSWORD"
	EnvDBSSLMode  = "DOCUDESK_DB_SSLMODE"
	EnvRedisURL   = "DOCUDESK_REDIS_URL"
	EnvJWTSecret  = "DOCUDESK_JWT_SECRET"
	EnvJWTIssuer  = "DOCUDESK_JWT_ISSUER"
	EnvJWTExpMins = "DOCUDESK_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
