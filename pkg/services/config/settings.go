package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "CLOUDSYNC"

type Settings struct {
	Server  ServerSettings  `mapstructure:"server"`
	AWS     AWSSettings     `mapstructure:"aws"`
	Storage StorageSettings `mapstructure:"storage"`
	Sync    SyncSettings    `mapstructure:"sync"`
	Log     LogSettings     `mapstructure:"log"`
}

type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type AWSSettings struct {
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region"`
}

type StorageSettings struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type SyncSettings struct {
	LookbackDays int    `mapstructure:"lookback_days"`
	Start        string `mapstructure:"start"`
	End          string `mapstructure:"end"`
	Granularity  string `mapstructure:"granularity"`
	CostRegion   string `mapstructure:"cost_region"`
	Placeholders string `mapstructure:"placeholders"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
}

const (
	DriverDuckDB = "duckdb"
	DriverMySQL  = "mysql"
)

func defaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.region", "")
	v.SetDefault("storage.driver", DriverDuckDB)
	v.SetDefault("storage.dsn", "cloud-sync.db")
	v.SetDefault("sync.lookback_days", 30)
	v.SetDefault("sync.start", "")
	v.SetDefault("sync.end", "")
	v.SetDefault("sync.granularity", "MONTHLY")
	v.SetDefault("sync.cost_region", "")
	v.SetDefault("sync.placeholders", "null")
	v.SetDefault("log.level", "info")
}

// LoadSettings reads an optional config file, then applies CLOUDSYNC_* environment
// overrides (for example CLOUDSYNC_STORAGE_DSN for storage.dsn).
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Settings) Validate() error {
	var errs []error
	switch s.Storage.Driver {
	case DriverDuckDB, DriverMySQL:
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be %q or %q, got %q", DriverDuckDB, DriverMySQL, s.Storage.Driver))
	}
	if s.Storage.DSN == "" && s.Storage.Driver == DriverMySQL {
		errs = append(errs, errors.New("storage.dsn is required for mysql"))
	}
	switch s.Sync.Placeholders {
	case "null", "zero":
	default:
		errs = append(errs, fmt.Errorf("sync.placeholders must be \"null\" or \"zero\", got %q", s.Sync.Placeholders))
	}
	if s.Sync.LookbackDays < 0 {
		errs = append(errs, fmt.Errorf("sync.lookback_days must not be negative, got %d", s.Sync.LookbackDays))
	}
	return errors.Join(errs...)
}
