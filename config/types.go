package config

import (
	"errors"
	"fmt"
	"regexp"
)

type Config struct {
	Database       DatabaseConfig       `mapstructure:"database"`
	CasbinDatabase DatabaseConfig       `mapstructure:"casbin_database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Server         ServerConfig         `mapstructure:"server"`
	Authentication AuthenticationConfig `mapstructure:"authentication"`
	Authorization  AuthorizationConfig  `mapstructure:"authorization"`
	Password       PasswordConfig       `mapstructure:"password"`
	Observability  ObservabilityConfig  `mapstructure:"observability"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Nats           NatsConfig           `mapstructure:"nats"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Locking        LockingConfig        `mapstructure:"locking"`
	Seeding        SeedingConfig        `mapstructure:"seeding"`
}

type NatsConfig struct {
	Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
	URL           string `mapstructure:"url" yaml:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix" yaml:"subject_prefix"`
}

type DatabaseConfig struct {
	Host       string                  `mapstructure:"host"`
	Port       int                     `mapstructure:"port"`
	User       string                  `mapstructure:"user"`
	Password   string                  `mapstructure:"password"`
	DBName     string                  `mapstructure:"dbname"`
	SSLMode    string                  `mapstructure:"sslmode"`
	Pool       DatabasePoolConfig      `mapstructure:"pool"`
	Migrations DatabaseMigrationConfig `mapstructure:"migrations"`
	Logging    DatabaseLoggingConfig   `mapstructure:"logging"`
}

type DatabasePoolConfig struct {
	MaxOpenConns       int `mapstructure:"max_open_conns"`
	MaxIdleConns       int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes"`
}

type DatabaseMigrationConfig struct {
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

type DatabaseLoggingConfig struct {
	Enabled              bool `mapstructure:"enabled"`
	SlowQueryThresholdMs int  `mapstructure:"slow_query_threshold_ms"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type RateLimitConfig struct {
	Max               int `mapstructure:"max"`
	ExpirationSeconds int `mapstructure:"expiration_seconds"`
}

type ServerConfig struct {
	Port           int             `mapstructure:"port"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds"`
	Environment    string          `mapstructure:"environment"`
	Databases      []string        `mapstructure:"databases"`
	CORS           CORSConfig      `mapstructure:"cors"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAgeSeconds    int      `mapstructure:"max_age_seconds"`
}

type AuthenticationConfig struct {
	Paseto PasetoConfig `mapstructure:"paseto"`
}

type PasetoConfig struct {
	Mode             string `mapstructure:"mode"`
	LocalKeyHex      string `mapstructure:"local_key_hex"`
	SecretKeyHex     string `mapstructure:"secret_key_hex"`
	PublicKeyHex     string `mapstructure:"public_key_hex"`
	Issuer           string `mapstructure:"issuer"`
	Audience         string `mapstructure:"audience"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
}

type AuthorizationConfig struct {
	CasbinModelPath    string `mapstructure:"casbin_model_path"`
	EnableAudit        bool   `mapstructure:"enable_audit"`
	HealthCheckEnabled bool   `mapstructure:"health_check_enabled"`
}

type PasswordConfig struct {
	MemoryKiB     uint32 `mapstructure:"memory_kib"`
	Iterations    uint32 `mapstructure:"iterations"`
	Parallelism   uint8  `mapstructure:"parallelism"`
	SaltLength    uint32 `mapstructure:"salt_length"`
	KeyLength     uint32 `mapstructure:"key_length"`
	LowMemoryMode bool   `mapstructure:"low_memory_mode"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/app.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	TenantID string `mapstructure:"tenant_id"`
	Username string `mapstructure:"username"` // for Grafana Cloud basic auth
	Password string `mapstructure:"password"`
}

// CacheConfig controls the in-process schedule read cache.
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	Size       int  `mapstructure:"size"`
	TTLSeconds int  `mapstructure:"ttl_seconds"`
}

// LockingConfig tunes the distributed locks that serialize slot writes
// per (weekday, week) scope and default seeding per week.
type LockingConfig struct {
	ScopeTTLSeconds int `mapstructure:"scope_ttl_seconds"`
	WaitTimeoutMs   int `mapstructure:"wait_timeout_ms"`
	PollIntervalMs  int `mapstructure:"poll_interval_ms"`
}

type SeedingConfig struct {
	Enabled   bool           `mapstructure:"enabled"`
	CheckSpec string         `mapstructure:"check_spec"` // cron spec, e.g. "@every 1m"
	Weekday   int            `mapstructure:"weekday"`    // 0 = Sunday
	Hour      int            `mapstructure:"hour"`
	Minute    int            `mapstructure:"minute"`
	Timezone  string         `mapstructure:"timezone"` // IANA name, "Local" or "UTC"
	Template  TemplateConfig `mapstructure:"template"`
}

type TemplateConfig struct {
	Doctor       string `mapstructure:"doctor"`
	Room         string `mapstructure:"room"`
	SundayNote   string `mapstructure:"sunday_note"`
	Capacity     int    `mapstructure:"capacity"`
	SundayStart  string `mapstructure:"sunday_start"`
	SundayEnd    string `mapstructure:"sunday_end"`
	WeekdayStart string `mapstructure:"weekday_start"`
	WeekdayEnd   string `mapstructure:"weekday_end"`
}

var reClock = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	s := c.Seeding
	if s.Weekday < 0 || s.Weekday > 6 {
		errs = append(errs, fmt.Errorf("seeding.weekday must be 0-6, got %d", s.Weekday))
	}
	if s.Hour < 0 || s.Hour > 23 {
		errs = append(errs, fmt.Errorf("seeding.hour must be 0-23, got %d", s.Hour))
	}
	if s.Minute < 0 || s.Minute > 59 {
		errs = append(errs, fmt.Errorf("seeding.minute must be 0-59, got %d", s.Minute))
	}
	if s.Template.Capacity < 0 {
		errs = append(errs, errors.New("seeding.template.capacity must not be negative"))
	}
	for name, v := range map[string]string{
		"sunday_start":  s.Template.SundayStart,
		"sunday_end":    s.Template.SundayEnd,
		"weekday_start": s.Template.WeekdayStart,
		"weekday_end":   s.Template.WeekdayEnd,
	} {
		if v != "" && !reClock.MatchString(v) {
			errs = append(errs, fmt.Errorf("seeding.template.%s must be HH:MM, got %q", name, v))
		}
	}

	return errors.Join(errs...)
}
