package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Zuo-Peng/wa-stats/internal/parse"
	"github.com/Zuo-Peng/wa-stats/internal/stats"
	"github.com/Zuo-Peng/wa-stats/internal/textnorm"
)

type Config struct {
	ChatsDir         string `toml:"chats_dir"`
	DBPath           string `toml:"db_path"`
	Language         string `toml:"language"`
	MediaPlaceholder string `toml:"media_placeholder"`
	Timezone         string `toml:"timezone"` // "" = wall clock (UTC), "Local" = system zone
	Strict           bool   `toml:"strict"`
	LogLevel         string `toml:"log_level"`
	Wait             Wait   `toml:"wait"`
}

type Wait struct {
	FirstIndex int    `toml:"first_index"`
	SleepGap   string `toml:"sleep_gap"`
	WakeHour   int    `toml:"wake_hour"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(home, ".config", "wast", "config.toml"), home)
}

// LoadFile reads cfgPath over the defaults. A missing file is not an error.
func LoadFile(cfgPath, home string) (*Config, error) {
	cfg := Default(home)

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.ChatsDir = expandHome(cfg.ChatsDir, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}
	return cfg, nil
}

func Default(home string) *Config {
	w := stats.DefaultWaitOptions()
	return &Config{
		ChatsDir:         filepath.Join(home, "WhatsApp"),
		DBPath:           filepath.Join(home, ".config", "wast", "wast.db"),
		Language:         "german",
		MediaPlaceholder: parse.DefaultMediaPlaceholder,
		LogLevel:         "info",
		Wait: Wait{
			FirstIndex: w.FirstIndex,
			SleepGap:   w.SleepGap.String(),
			WakeHour:   w.WakeHour,
		},
	}
}

func (c *Config) Validate() error {
	if c.ChatsDir == "" {
		return fmt.Errorf("chats_dir is empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is empty")
	}
	if c.MediaPlaceholder == "" {
		return fmt.Errorf("media_placeholder is empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := textnorm.Lookup(c.Language); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.WaitOptions(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) {
	// exports carry no zone; a named zone is opt-in
	switch c.Timezone {
	case "", "UTC":
		return time.UTC, nil
	case "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func (c *Config) WaitOptions() (stats.WaitOptions, error) {
	gap, err := time.ParseDuration(c.Wait.SleepGap)
	if err != nil {
		return stats.WaitOptions{}, fmt.Errorf("wait.sleep_gap: %w", err)
	}
	if gap <= 0 {
		return stats.WaitOptions{}, fmt.Errorf("wait.sleep_gap must be positive, got %s", gap)
	}
	if c.Wait.FirstIndex < 1 {
		return stats.WaitOptions{}, fmt.Errorf("wait.first_index must be >= 1, got %d", c.Wait.FirstIndex)
	}
	if c.Wait.WakeHour < 0 || c.Wait.WakeHour > 23 {
		return stats.WaitOptions{}, fmt.Errorf("wait.wake_hour must be 0-23, got %d", c.Wait.WakeHour)
	}
	return stats.WaitOptions{
		FirstIndex: c.Wait.FirstIndex,
		SleepGap:   gap,
		WakeHour:   c.Wait.WakeHour,
	}, nil
}

// ParseOptions builds parser options. Validate must have passed.
func (c *Config) ParseOptions() parse.Options {
	loc, _ := c.Location()
	return parse.Options{
		Location:         loc,
		MediaPlaceholder: c.MediaPlaceholder,
		Strict:           c.Strict,
	}
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
