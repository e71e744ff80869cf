package config

// EnvPrefix is passed to envconfig; individual fields carry fully
// qualified names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv      = "DUKAHUB_APP_ENV"
	EnvPort        = "DUKAHUB_APP_PORT"
	EnvDBDSN       = "DUKAHUB_DB_DSN"
	EnvDBHost      = "DUKAHUB_DB_HOST"
	EnvDBUser      = "DUKAHUB_DB_USER"
	EnvDBName      = "DUKAHUB_DB_NAME"
	EnvRedisURL    = "DUKAHUB_REDIS_URL"
	EnvJWTSecret   = "DUKAHUB_JWT_SECRET"
	EnvJWTIssuer   = "DUKAHUB_JWT_ISSUER"
	EnvJWTExpMins  = "DUKAHUB_JWT_EXPIRATION_MINUTES"
	EnvSiteBaseURL = "DUKAHUB_SITE_BASE_URL"
	EnvGCPProject  = "DUKAHUB_GCP_PROJECT_ID"
	EnvGCSBucket   = "DUKAHUB_GCS_BUCKET_NAME"
)

var dbEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
