package constants

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"

	// EnvPrefix is prepended to every environment override,
	// e.g. SCHEDULE_DATABASE_HOST overrides database.host.
	EnvPrefix = "SCHEDULE"

	ServiceName = "schedule_backend"
)
