package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/carebridge/opsnotify/pkg/config"
	"github.com/carebridge/opsnotify/pkg/email"
	"github.com/carebridge/opsnotify/pkg/environment"
	"github.com/carebridge/opsnotify/pkg/httpserver"
	"github.com/carebridge/opsnotify/pkg/logger"
	"github.com/carebridge/opsnotify/svc/alerts"
)

// Store backends selectable with ALERTS_STORE.
const (
	StoreMemory     = "memory"
	StorePostgres   = "postgres"
	StoreMongo      = "mongo"
	StoreCassandra  = "cassandra"
	StoreOpenSearch = "opensearch"
)

var storeKinds = []string{StoreMemory, StorePostgres, StoreMongo, StoreCassandra, StoreOpenSearch}

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the service-level configuration. Adapter settings (PG_*,
// MONGODB_*, REDIS_*, ...) are loaded separately, only for the adapters in use.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"opsnotify"`

	Store          string        `env:"ALERTS_STORE" envDefault:"memory"`
	AutoMigrate    bool          `env:"ALERTS_AUTO_MIGRATE" envDefault:"false"`
	PrivilegedRole string        `env:"ALERTS_PRIVILEGED_ROLE" envDefault:"SUPER_ADMIN"`
	QueueSize      int           `env:"ALERTS_QUEUE_SIZE" envDefault:"256"`
	Workers        int           `env:"ALERTS_WORKERS" envDefault:"4"`
	StepTimeout    time.Duration `env:"ALERTS_STEP_TIMEOUT" envDefault:"5s"`
	HubBuffer      int           `env:"ALERTS_HUB_BUFFER" envDefault:"16"`
	LinksFile      string        `env:"ALERTS_LINKS_FILE"`
	Lookback       time.Duration `env:"ALERTS_CASSANDRA_LOOKBACK" envDefault:"720h"`

	GatewayURL     string        `env:"ALERTS_GATEWAY_URL"`
	GatewaySecret  string        `env:"ALERTS_GATEWAY_SECRET"`
	GatewayTimeout time.Duration `env:"ALERTS_GATEWAY_TIMEOUT" envDefault:"3s"`

	RedisFanout bool   `env:"ALERTS_REDIS_FANOUT" envDefault:"false"`
	RedisPrefix string `env:"ALERTS_REDIS_PREFIX" envDefault:"opsnotify:alerts"`

	EscalationEmails    []string `env:"ALERTS_ESCALATION_EMAILS" envSeparator:","`
	EscalationThreshold string   `env:"ALERTS_ESCALATION_THRESHOLD" envDefault:"CRITICAL"`
	ConsoleURL          string   `env:"ALERTS_CONSOLE_URL"`

	MonitorInterval time.Duration `env:"ALERTS_MONITOR_INTERVAL" envDefault:"30s"`

	HTTP  httpserver.Config
	Log   logger.Config
	Email email.Config
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(storeKinds, c.Store) {
		errs = append(errs, fmt.Errorf("ALERTS_STORE must be one of %s, got %q", strings.Join(storeKinds, "|"), c.Store))
	}
	if strings.TrimSpace(c.PrivilegedRole) == "" {
		errs = append(errs, errors.New("ALERTS_PRIVILEGED_ROLE is empty"))
	}
	if c.QueueSize <= 0 || c.Workers <= 0 {
		errs = append(errs, errors.New("ALERTS_QUEUE_SIZE and ALERTS_WORKERS must be positive"))
	}
	if c.GatewayURL != "" && c.GatewaySecret == "" {
		errs = append(errs, errors.New("ALERTS_GATEWAY_URL requires ALERTS_GATEWAY_SECRET"))
	}
	if len(c.EscalationEmails) > 0 {
		if _, err := alerts.ParsePriority(c.EscalationThreshold); err != nil {
			errs = append(errs, fmt.Errorf("ALERTS_ESCALATION_THRESHOLD: %w", err))
		}
		if environment.IsProduction(c.AppEnv) && !c.Email.UsePostmark() {
			errs = append(errs, errors.New("ALERTS_ESCALATION_EMAILS in production requires POSTMARK_SERVER_TOKEN"))
		}
	}
	if environment.IsProduction(c.AppEnv) && c.Store == StoreMemory {
		errs = append(errs, errors.New("ALERTS_STORE=memory is not allowed in production"))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}
