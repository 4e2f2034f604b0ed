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
	Attendance    AttendanceConfig
	Payroll       PayrollConfig
	Gmail         GmailConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.EnsureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DOCUDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"DOCUDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DOCUDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DOCUDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DOCUDESK_DB_DSN"`
	Driver string `envconfig:"DOCUDESK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DOCUDESK_DB_HOST"`
	Port     int    `envconfig:"DOCUDESK_DB_PORT" default:"5432"`
	User     string `envconfig:"DOCUDESK_DB_USER"`
	Password string `envconfig:"DOCUDESK_DB_PASSWORD"`
	Name     string `envconfig:"DOCUDESK_DB_NAME"`
	SSLMode  string `envconfig:"DOCUDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DOCUDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DOCUDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DOCUDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DOCUDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DOCUDESK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DOCUDESK_REDIS_ADDR"`
	Password     string        `envconfig:"DOCUDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"DOCUDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DOCUDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DOCUDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DOCUDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DOCUDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DOCUDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"DOCUDESK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"DOCUDESK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"DOCUDESK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"DOCUDESK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"DOCUDESK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"DOCUDESK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"DOCUDESK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DOCUDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DOCUDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DOCUDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DOCUDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DOCUDESK_ARGON_KEY_LEN" default:"32"`
}

// AttendanceConfig carries the office attendance policy applied at clock-in
// and clock-out time. ClockInDeadline is the local wall-clock time (HH:MM)
// after which a clock-in is marked late.
type AttendanceConfig struct {
	WorkingHoursPerDay float64 `envconfig:"DOCUDESK_WORKING_HOURS_PER_DAY" default:"8"`
	ClockInDeadline    string  `envconfig:"DOCUDESK_CLOCK_IN_DEADLINE" default:"10:15"`
	Timezone           string  `envconfig:"DOCUDESK_OFFICE_TIMEZONE" default:"Asia/Kolkata"`
}

type PayrollConfig struct {
	Currency string `envconfig:"DOCUDESK_PAYROLL_CURRENCY" default:"INR"`
}

type GmailConfig struct {
	ClientID     string `envconfig:"DOCUDESK_GMAIL_CLIENT_ID"`
	ClientSecret string `envconfig:"DOCUDESK_GMAIL_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"DOCUDESK_GMAIL_REDIRECT_URL" default:"http://localhost:8080/api/v1/mailbox/oauth/callback"`
}

// Enabled reports whether the mailbox integration is configured.
func (g GmailConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DOCUDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DOCUDESK_AUTO_MIGRATE" default:"false"`
}

// EnsureDSN backfills DSN from the discrete connection fields. Exposed so
// the admin connection tester can assemble throwaway configs the same way.
func (db *DBConfig) EnsureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	discreteValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range legacyDBEnvVars {
		if discreteValues[env] == "" {
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
