package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-shop/pkg/aisles"
	"github.com/mattsolo1/grove-shop/pkg/blob"
	"github.com/mattsolo1/grove-shop/pkg/models"
	"github.com/mattsolo1/grove-shop/pkg/persistence"
	"github.com/mattsolo1/grove-shop/pkg/service"
)

var cfgFile string

// Settings is the decoded configuration.
type Settings struct {
	DataDir       string   `mapstructure:"data_dir"`
	LogLevel      string   `mapstructure:"log_level"`
	DefaultAisles []string `mapstructure:"default_aisles"`
	Storage       Storage  `mapstructure:"storage"`
}

// Storage selects the blob driver. Options is passed to the driver as is.
type Storage struct {
	Driver  string         `mapstructure:"driver"`
	Timeout time.Duration  `mapstructure:"timeout"`
	Options map[string]any `mapstructure:"options"`
}

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "shop")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SHOP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	SetDefaults(viper.GetViper())

	// A missing config file is normal; everything has a default.
	_ = viper.ReadInConfig()
}

// SetDefaults registers the default value of every known key.
func SetDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()
	v.SetDefault("data_dir", filepath.Join(home, ".local", "share", "shop"))
	v.SetDefault("log_level", "warn")
	v.SetDefault("default_aisles", []string(aisles.Defaults))
	v.SetDefault("storage.driver", string(blob.DriverFilesystem))
	v.SetDefault("storage.timeout", persistence.DefaultTimeout.String())
	v.SetDefault("storage.options", map[string]any{})
}

// Load decodes the configuration held by v.
func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if s.Storage.Timeout <= 0 {
		s.Storage.Timeout = persistence.DefaultTimeout
	}
	return &s, nil
}

// InitService opens the configured store and returns a hydrated service.
func InitService(ctx context.Context, settings *Settings, logger *logrus.Logger) (*service.Service, error) {
	store, err := blob.Open(ctx, blob.Config{
		Driver:  blob.Driver(settings.Storage.Driver),
		DataDir: settings.DataDir,
		Options: settings.Storage.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", settings.Storage.Driver, err)
	}

	logger.WithFields(logrus.Fields{
		"driver":   store.Driver(),
		"data_dir": settings.DataDir,
	}).Debug("Opened blob store")

	svc := service.New(&service.Config{
		DataDir:       settings.DataDir,
		DefaultAisles: models.Aisles(settings.DefaultAisles),
		Timeout:       settings.Storage.Timeout,
	}, store, logger)

	if err := svc.Initialize(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return svc, nil
}

func AddGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/shop/config.yaml)")
	flags.String("data-dir", "", "Directory holding the shopping list data")
	flags.String("driver", "", "Storage driver: fs, sqlite, s3 or memory")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	_ = viper.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = viper.BindPFlag("storage.driver", flags.Lookup("driver"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
}
