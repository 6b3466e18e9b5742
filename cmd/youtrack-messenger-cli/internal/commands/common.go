package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/infrastructure/persistence"
	"github.com/zxxqaq/YouTrack-Messenger/internal/infrastructure/telegram"
	"github.com/zxxqaq/YouTrack-Messenger/internal/infrastructure/youtrack"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
)

const (
	configFlag  = "config"
	profileFlag = "profile"

	defaultConfigPath = "configs/app.yaml"
)

// AddPersistentFlags registers the flags shared by every command.
func AddPersistentFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String(configFlag, defaultConfigPath, "Path to the configuration file")
	rootCmd.PersistentFlags().String(profileFlag, os.Getenv("APP_PROFILE"), "Profile overlay, e.g. local for app-local.yaml")
}

// environment is what a command needs to reach the outside world.
type environment struct {
	cfg    *config.AppConfig
	logger logger.Logger
}

// loadEnvironment reads the configuration named by the persistent flags.
// A missing default config file falls back to defaults plus environment.
func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	path, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid %s flag: %w", configFlag, err)
	}
	profile, err := cmd.Flags().GetString(profileFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid %s flag: %w", profileFlag, err)
	}

	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) && !cmd.Flags().Changed(configFlag) {
		path = ""
	}

	cfg, err := config.ReadAppConfig(path, profile)
	if err != nil {
		return nil, err
	}

	log, err := setupLogger(&cfg.Logger)
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, logger: log}, nil
}

func setupLogger(settings *config.LoggerSettings) (logger.Logger, error) {
	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

func (env *environment) youTrack() (*youtrack.Client, error) {
	client, err := youtrack.NewClient(&env.cfg.YouTrack, env.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTrack client: %w", err)
	}
	return client, nil
}

func (env *environment) telegram() (*telegram.Client, error) {
	client, err := telegram.NewClient(&env.cfg.Telegram, env.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram client: %w", err)
	}
	return client, nil
}

// storage opens and migrates the sent-notification store. The returned
// func closes the connection.
func (env *environment) storage() (notifications.NotificationStorage, func(), error) {
	db, err := persistence.NewDBConnection(env.cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create db connection: %w", err)
	}
	closeDB := func() {
		if err := persistence.CloseDB(db); err != nil {
			env.logger.Warn("failed to close database", "error", err)
		}
	}

	if err := persistence.AutoMigrate(db); err != nil {
		closeDB()
		return nil, nil, err
	}

	storage, err := persistence.NewGormNotificationStorage(db, env.logger)
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("failed to create notification storage: %w", err)
	}
	return storage, closeDB, nil
}
