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
	Site          SiteConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	Checkout      CheckoutConfig
	Affiliates    AffiliatesConfig
	WhatsApp      WhatsAppConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
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
	Env          string `envconfig:"DUKAHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"DUKAHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DUKAHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DUKAHUB_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"DUKAHUB_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SiteConfig carries the storefront identity used when building absolute
// links (affiliate slugs, referral links) so preview and production deploys
// render the same URLs.
type SiteConfig struct {
	BaseURL  string `envconfig:"DUKAHUB_SITE_BASE_URL" required:"true"`
	Currency string `envconfig:"DUKAHUB_SITE_CURRENCY" default:"KES"`
}

// AffiliateURL returns the absolute short link for an affiliate slug.
func (s SiteConfig) AffiliateURL(slug string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/p/" + url.PathEscape(slug)
}

// ShopProductURL returns the storefront URL a resolved affiliate link
// redirects to.
func (s SiteConfig) ShopProductURL(productID string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/shop?product=" + url.QueryEscape(productID)
}

type DBConfig struct {
	DSN    string `envconfig:"DUKAHUB_DB_DSN"`
	Driver string `envconfig:"DUKAHUB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DUKAHUB_DB_HOST"`
	Port     int    `envconfig:"DUKAHUB_DB_PORT" default:"5432"`
	User     string `envconfig:"DUKAHUB_DB_USER"`
	Password string `envconfig:"DUKAHUB_DB_PASSWORD"`
	Name     string `envconfig:"DUKAHUB_DB_NAME"`
	SSLMode  string `envconfig:"DUKAHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DUKAHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DUKAHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DUKAHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DUKAHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DUKAHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DUKAHUB_REDIS_ADDR"`
	Password     string        `envconfig:"DUKAHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"DUKAHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DUKAHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DUKAHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DUKAHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DUKAHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DUKAHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DUKAHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DUKAHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DUKAHUB_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"DUKAHUB_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session registry TTL.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DUKAHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DUKAHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DUKAHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DUKAHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DUKAHUB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"DUKAHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"DUKAHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"DUKAHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// CartConfig controls session cart persistence.
type CartConfig struct {
	TTL time.Duration `envconfig:"DUKAHUB_CART_TTL" default:"168h"`
}

// CheckoutConfig controls order submission behaviour.
type CheckoutConfig struct {
	// IdempotencyTTL bounds how long a submitted checkout key blocks a
	// duplicate submission of the same order.
	IdempotencyTTL time.Duration `envconfig:"DUKAHUB_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

// AffiliatesConfig controls referral attribution.
type AffiliatesConfig struct {
	// AttributionTTL bounds how long a resolved affiliate touch keeps
	// crediting orders placed from the same session.
	AttributionTTL time.Duration `envconfig:"DUKAHUB_ATTRIBUTION_TTL" default:"720h"`
}

// WhatsAppConfig holds the business number consultations and product
// inquiries are handed off to.
type WhatsAppConfig struct {
	BusinessNumber string `envconfig:"DUKAHUB_WHATSAPP_NUMBER" default:"254700000000"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"DUKAHUB_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"DUKAHUB_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"DUKAHUB_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"DUKAHUB_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry   time.Duration `envconfig:"DUKAHUB_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"DUKAHUB_GCS_DOWNLOAD_URL_EXPIRY" default:"24h"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"DUKAHUB_MAX_UPLOAD_MB" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbEnvVars {
		if parts[env] == "" {
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
