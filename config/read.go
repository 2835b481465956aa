package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/thanhyclinic/schedule_backend/pkg/constants"
)

var GlobalConf *Config

func ReadConfig(configPath string) (*Config, error) {
	viper.SetConfigName(constants.ConfigName)
	viper.SetConfigType(constants.ConfigFormat)
	viper.AddConfigPath(configPath)

	setDefaults()

	// Allow env vars to override config values.
	// e.g. SCHEDULE_DATABASE_HOST overrides database.host
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The config file is optional in container deployments.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if os.Getenv(constants.EnvPrefix+"_DATABASE_HOST") == "" {
				return nil, fmt.Errorf("error reading config file: %v", err)
			}
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}

func setDefaults() {
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.timeout_seconds", 30)
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("server.rate_limit.max", 20)
	viper.SetDefault("server.rate_limit.expiration_seconds", 30)

	viper.SetDefault("authentication.paseto.mode", "local")
	viper.SetDefault("authentication.paseto.issuer", constants.ServiceName)
	viper.SetDefault("authentication.paseto.audience", constants.ServiceName)
	viper.SetDefault("authentication.paseto.access_ttl_minutes", 7*24*60)

	viper.SetDefault("authorization.casbin_model_path", "casbin_model.conf")
	viper.SetDefault("authorization.enable_audit", true)
	viper.SetDefault("authorization.health_check_enabled", true)

	viper.SetDefault("observability.service_name", constants.ServiceName)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output.stdout", true)

	viper.SetDefault("nats.subject_prefix", "clinic.schedule")

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.size", 64)
	viper.SetDefault("cache.ttl_seconds", 30)

	viper.SetDefault("locking.scope_ttl_seconds", 10)
	viper.SetDefault("locking.wait_timeout_ms", 5000)
	viper.SetDefault("locking.poll_interval_ms", 50)

	viper.SetDefault("seeding.enabled", true)
	viper.SetDefault("seeding.check_spec", "@every 1m")
	viper.SetDefault("seeding.weekday", 0)
	viper.SetDefault("seeding.hour", 23)
	viper.SetDefault("seeding.minute", 59)
	viper.SetDefault("seeding.timezone", "Local")
	viper.SetDefault("seeding.template.doctor", "Ths BSNT Phan Thị Minh Ý")
	viper.SetDefault("seeding.template.room", "PK SPK Thành Ý")
	viper.SetDefault("seeding.template.sunday_note", "CN có Test tiểu đường thai kì, các Bầu lưu ý phải nhịn ăn trước đó 8 tiếng.")
	viper.SetDefault("seeding.template.capacity", 10)
	viper.SetDefault("seeding.template.sunday_start", "07:00")
	viper.SetDefault("seeding.template.sunday_end", "11:00")
	viper.SetDefault("seeding.template.weekday_start", "17:00")
	viper.SetDefault("seeding.template.weekday_end", "20:00")
}
