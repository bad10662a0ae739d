package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Store StoreConfig
	Print PrintConfig
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
	Env          string `envconfig:"POS_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"POS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"POS_DB_DSN"`
	Driver string `envconfig:"POS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POS_DB_HOST"`
	LegacyPort     int    `envconfig:"POS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POS_DB_USER"`
	LegacyPassword string `envconfig:"POS_DB_PASSWORD"`
	LegacyName     string `envconfig:"POS_DB_NAME"`
	LegacySSLMode  string `envconfig:"POS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"POS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"POS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// StoreConfig carries the fixed store identity printed on receipts.
type StoreConfig struct {
	Name string `envconfig:"POS_STORE_NAME" default:"My Restaurant"`
}

// PrintConfig configures the receipt print channels.
type PrintConfig struct {
	// Named printer for the native spooler and the bridge. When set, the
	// native channel submits without a dialog.
	PrinterName string `envconfig:"POS_PRINTER_NAME"`
	SilentPrint bool   `envconfig:"POS_SILENT_PRINT" default:"false"`

	BridgeEnabled bool   `envconfig:"POS_PRINT_BRIDGE_ENABLED" default:"false"`
	BridgeURL     string `envconfig:"POS_PRINT_BRIDGE_URL" default:"ws://localhost:8182/"`
	// Accepting unsigned bridge responses is a development posture. Production
	// deployments must set this to false and configure a certificate.
	BridgeAllowUnsigned bool          `envconfig:"POS_PRINT_BRIDGE_ALLOW_UNSIGNED" default:"true"`
	BridgeCertificate   string        `envconfig:"POS_PRINT_BRIDGE_CERTIFICATE"`
	BridgeDialTimeout   time.Duration `envconfig:"POS_PRINT_BRIDGE_DIAL_TIMEOUT" default:"5s"`
	BridgePrintTimeout  time.Duration `envconfig:"POS_PRINT_BRIDGE_PRINT_TIMEOUT" default:"15s"`

	// Settle delay applied after handing a document to a renderer-backed
	// channel (native spooler, browser) before reporting the outcome.
	SettleDelay time.Duration `envconfig:"POS_PRINT_SETTLE_DELAY" default:"500ms"`
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
