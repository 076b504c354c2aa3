package config

const EnvPrefix = "WISHLIST"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "WISHLIST_APP_ENV"
	EnvPort     = "WISHLIST_APP_PORT"
	EnvLogLevel = "WISHLIST_LOG_LEVEL"

	EnvDBDSN    = "WISHLIST_DB_DSN"
	EnvDBDriver = "WISHLIST_DB_DRIVER"
	EnvDBHost   = "WISHLIST_DB_HOST"
	EnvDBUser   = "WISHLIST_DB_USER"
	EnvDBName   = "WISHLIST_DB_NAME"

	EnvRedisURL = "WISHLIST_REDIS_URL"

	EnvJWTSecret  = "WISHLIST_JWT_SECRET"
	EnvJWTIssuer  = "WISHLIST_JWT_ISSUER"
	EnvJWTExpMins = "WISHLIST_JWT_EXPIRATION_MINUTES"

	EnvCatalogBaseURL = "WISHLIST_CATALOG_BASE_URL"
	EnvCatalogTimeout = "WISHLIST_CATALOG_TIMEOUT"
)

var splitDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
