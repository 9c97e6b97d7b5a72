package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/geo/s2"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultDataSource      string        = "hyderabad_traffic.csv"
	DefaultListenAddress   string        = ":8080"
	DefaultMetroLatitude   float64       = 17.3850
	DefaultMetroLongitude  float64       = 78.4867
	DefaultShutdownTimeout time.Duration = 10 * time.Second
	DefaultLogFormat       string        = "json"
)

// EnvPrefix is prepended to every key when read from the environment, e.g.
// TRAFFIC_DATA_SOURCE.
const EnvPrefix string = "TRAFFIC"

type Config struct {
	DataSource      string        `mapstructure:"data_source"`
	ListenAddress   string        `mapstructure:"listen_address"`
	MetroLatitude   float64       `mapstructure:"metro_latitude"`
	MetroLongitude  float64       `mapstructure:"metro_longitude"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	LogFormat       string        `mapstructure:"log_format"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_source", DefaultDataSource)
	v.SetDefault("listen_address", DefaultListenAddress)
	v.SetDefault("metro_latitude", DefaultMetroLatitude)
	v.SetDefault("metro_longitude", DefaultMetroLongitude)
	v.SetDefault("shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("log_format", DefaultLogFormat)
}

// Load reads defaults, the optional config file, the environment and any
// flags already bound to v, in increasing order of precedence.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(cfg.DataSource) == "" {
		errs = append(errs, errors.New("data_source must not be empty"))
	}
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		errs = append(errs, errors.New("listen_address must not be empty"))
	}
	if !s2.LatLngFromDegrees(cfg.MetroLatitude, cfg.MetroLongitude).IsValid() {
		errs = append(errs, fmt.Errorf("metro coordinate (%v, %v) is not a valid latitude/longitude", cfg.MetroLatitude, cfg.MetroLongitude))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return nil
}
