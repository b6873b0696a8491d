package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"       validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database"     validate:"required"`
	Auth         AuthConfig         `mapstructure:"auth"         validate:"required"`
	Task         TaskConfig         `mapstructure:"task"         validate:"required"`
	NATS         NATSConfig         `mapstructure:"nats"`
	Provisioning ProvisioningConfig `mapstructure:"provisioning"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// AuthConfig holds the shared secret used to verify bearer tokens issued by
// account management. This service never issues tokens itself.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// TaskConfig contains settings for the background task runner.
type TaskConfig struct {
	WorkerCount         int `mapstructure:"worker_count"           validate:"gte=1"`
	QueueSize           int `mapstructure:"queue_size"             validate:"gte=1"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"gte=1"`
}

// NATSConfig configures the optional account-events subscriber.
// An empty URL disables it.
type NATSConfig struct {
	URL                  string `mapstructure:"url"                    validate:"omitempty,url"`
	UserActivatedSubject string `mapstructure:"user_activated_subject" validate:"required_with=URL"`
	QueueGroup           string `mapstructure:"queue_group"`
}

// ProvisioningConfig controls starter radar provisioning for new users.
type ProvisioningConfig struct {
	// Disabled turns off the provisioning event emitted on user creation.
	Disabled bool `mapstructure:"disabled"`
}

// Enabled reports whether the NATS subscriber should run.
func (c NATSConfig) Enabled() bool {
	return c.URL != ""
}
