package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MESSENGER_SCHEDULER_TOP.
const EnvPrefix = "MESSENGER"

// AppConfig is the complete messenger configuration.
type AppConfig struct {
	Server    ServerSettings    `mapstructure:"server"`
	Logger    LoggerSettings    `mapstructure:"logger"`
	Database  DatabaseSettings  `mapstructure:"database"`
	YouTrack  YouTrackSettings  `mapstructure:"youtrack"`
	Telegram  TelegramSettings  `mapstructure:"telegram"`
	Scheduler SchedulerSettings `mapstructure:"scheduler"`
	Storage   StorageSettings   `mapstructure:"storage"`
}

// Validate runs the validation of every settings group.
func (c *AppConfig) Validate() error {
	validators := []interface{ Validate() error }{
		&c.Server,
		&c.Logger,
		&c.Database,
		&c.YouTrack,
		&c.Telegram,
		&c.Scheduler,
		&c.Storage,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// legacyEnvKeys maps the plain .env names used by existing deployments.
var legacyEnvKeys = map[string]string{
	"youtrack.base_url":      "YT_BASE_URL",
	"youtrack.token":         "YT_TOKEN",
	"telegram.bot_token":     "TG_BOT_TOKEN",
	"telegram.group_chat_id": "TG_GROUP_CHAT_ID",
	"telegram.pm_chat_id":    "TG_PM_CHAT_ID",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)

	v.SetDefault("database.type", DatabaseTypeSqlite)
	v.SetDefault("database.dsn", "youtrack-messenger.db")
	v.SetDefault("database.name", "youtrack_messenger")

	v.SetDefault("youtrack.base_url", "")
	v.SetDefault("youtrack.token", "")
	v.SetDefault("youtrack.timeout", 30*time.Second)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.group_chat_id", "")
	v.SetDefault("telegram.pm_chat_id", "")
	v.SetDefault("telegram.api_base_url", DefaultTelegramAPIURL)
	v.SetDefault("telegram.webhook_secret", "")
	v.SetDefault("telegram.timeout", 30*time.Second)
	v.SetDefault("telegram.max_retries", 3)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.auto_start", false)
	v.SetDefault("scheduler.fixed_delay", 10*time.Minute)
	v.SetDefault("scheduler.initial_delay", time.Duration(0))
	v.SetDefault("scheduler.top", 20)
	v.SetDefault("scheduler.pagination.enabled", false)
	v.SetDefault("scheduler.pagination.page_size", 10)
	v.SetDefault("scheduler.pagination.delay_between_messages", time.Second)
	v.SetDefault("scheduler.circuit_breaker.max_consecutive_failures", 3)
	v.SetDefault("scheduler.circuit_breaker.auto_pause", true)
	v.SetDefault("scheduler.circuit_breaker.pause_duration", time.Hour)
	v.SetDefault("scheduler.circuit_breaker.send_single_alert", true)

	v.SetDefault("storage.cleanup.enabled", true)
	v.SetDefault("storage.cleanup.days_to_keep", 30)
	v.SetDefault("storage.cleanup.interval", 24*time.Hour)
}

// InitializeAppConfig loads configuration like ReadAppConfig and validates
// every settings group.
func InitializeAppConfig(path, profile string) (*AppConfig, error) {
	cfg, err := ReadAppConfig(path, profile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadAppConfig loads configuration from path, merges the overlay for
// profile when one exists and applies environment overrides. An empty path
// yields defaults plus environment. Callers validate the groups they use.
func ReadAppConfig(path, profile string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if err := mergeFile(v, path, true); err != nil {
			return nil, err
		}
		if profile != "" {
			if err := mergeFile(v, ProfilePath(path, profile), false); err != nil {
				return nil, err
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnvKeys {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.YouTrack.BaseURL = cfg.YouTrack.NormalizedBaseURL()
	return &cfg, nil
}

// ProfilePath derives the overlay file for profile, e.g. app.yaml -> app-local.yaml.
func ProfilePath(path, profile string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + profile + ext
}

func mergeFile(v *viper.Viper, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found: %w", path, err)
		}
		return fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}
