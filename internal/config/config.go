package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hperssn/studyboard/internal/domain"
)

type ServerConfig struct {
	Address   string `mapstructure:"address"`
	Port      int    `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	// PrefsDir holds the preference store. Empty keeps preferences in memory.
	PrefsDir string `mapstructure:"prefs_dir"`
}

type LeaderboardConfig struct {
	Limit    int    `mapstructure:"limit"`
	Timezone string `mapstructure:"timezone"`
}

type TimerConfig struct {
	Enabled  bool                 `mapstructure:"enabled"`
	Cycles   int                  `mapstructure:"cycles"`
	Defaults domain.TimerSettings `mapstructure:"defaults"`
}

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Timer       TimerConfig       `mapstructure:"timer"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.static_dir", "")

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "data/studyboard.db")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.prefs_dir", "data/prefs")

	v.SetDefault("leaderboard.limit", 50)
	v.SetDefault("leaderboard.timezone", "UTC")

	d := domain.DefaultTimerSettings()
	v.SetDefault("timer.enabled", true)
	v.SetDefault("timer.cycles", 4)
	v.SetDefault("timer.defaults.work_minutes", d.WorkMinutes)
	v.SetDefault("timer.defaults.short_break_minutes", d.ShortBreakMinutes)
	v.SetDefault("timer.defaults.long_break_minutes", d.LongBreakMinutes)
	v.SetDefault("timer.defaults.sessions_for_long_break", d.SessionsForLongBreak)
}

// Load reads configuration from path. With an empty path it looks for
// config.yaml in the working directory and falls back to defaults when
// there is none. Environment variables override the file, e.g.
// STUDYBOARD_SERVER_PORT=9000.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("STUDYBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Storage.Driver == "postgres" && c.Storage.PostgresDSN == "" {
		return errors.New("storage.postgres_dsn is required for the postgres driver")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := c.Timer.Defaults.Validate(); err != nil {
		return fmt.Errorf("timer.defaults: %w", err)
	}
	return nil
}

// Location is the zone whose midnight starts a leaderboard day.
func (c *Config) Location() (*time.Location, error) {
	if c.Leaderboard.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Leaderboard.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid leaderboard.timezone: %w", err)
	}
	return loc, nil
}

// DSN returns the connection string for the configured storage driver.
func (c *Config) DSN() string {
	if c.Storage.Driver == "postgres" {
		return c.Storage.PostgresDSN
	}
	return c.Storage.SQLitePath
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
