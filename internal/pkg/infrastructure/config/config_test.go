package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)

	cfg, err := Load(viper.New(), "")
	is.NoErr(err)
	is.Equal(cfg.DataSource, "hyderabad_traffic.csv")
	is.Equal(cfg.ListenAddress, ":8080")
	is.Equal(cfg.MetroLatitude, 17.3850)
	is.Equal(cfg.MetroLongitude, 78.4867)
	is.Equal(cfg.ShutdownTimeout, 10*time.Second)
	is.Equal(cfg.LogFormat, "json")
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	is := is.New(t)

	t.Setenv("TRAFFIC_DATA_SOURCE", "https://example.org/traffic.csv")
	t.Setenv("TRAFFIC_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("TRAFFIC_METRO_LATITUDE", "12.9716")

	cfg, err := Load(viper.New(), "")
	is.NoErr(err)
	is.Equal(cfg.DataSource, "https://example.org/traffic.csv")
	is.Equal(cfg.ShutdownTimeout, 3*time.Second)
	is.Equal(cfg.MetroLatitude, 12.9716)
}

func TestConfigFile(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	is.NoErr(os.WriteFile(path, []byte("data_source: /data/traffic.csv\nlisten_address: \":9090\"\nshutdown_timeout: 30s\n"), 0o644))

	cfg, err := Load(viper.New(), path)
	is.NoErr(err)
	is.Equal(cfg.DataSource, "/data/traffic.csv")
	is.Equal(cfg.ListenAddress, ":9090")
	is.Equal(cfg.ShutdownTimeout, 30*time.Second)
}

func TestMissingConfigFile(t *testing.T) {
	is := is.New(t)

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	is.True(err != nil)
}

func TestThatInvalidMetroCoordinateIsRejected(t *testing.T) {
	is := is.New(t)

	v := viper.New()
	v.Set("metro_latitude", 123.0)

	_, err := Load(v, "")
	is.True(err != nil)
}
