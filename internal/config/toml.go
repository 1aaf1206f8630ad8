// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Generate GenerateConfig `toml:"generate"`
	History  HistoryConfig  `toml:"history"`
	Sync     SyncConfig     `toml:"sync"`
	Serve    ServeConfig    `toml:"serve"`
	Log      LogConfig      `toml:"log"`
}

// GenerateConfig maps play generation settings.
type GenerateConfig struct {
	Alpha        *float64 `toml:"alpha"`
	Beta         *float64 `toml:"beta"`
	Floor        *float64 `toml:"floor"`
	SumCheck     *bool    `toml:"sum-check"`
	SumMin       *int     `toml:"sum-min"`
	SumMax       *int     `toml:"sum-max"`
	OddCheck     *bool    `toml:"odd-check"`
	OddMin       *int     `toml:"odd-min"`
	OddMax       *int     `toml:"odd-max"`
	RunCheck     *bool    `toml:"run-check"`
	MaxRun       *int     `toml:"max-run"`
	OverlapCheck *bool    `toml:"overlap-check"`
	MaxOverlap   *int     `toml:"max-overlap"`
	MaxAttempts  *int     `toml:"max-attempts"`
	Plays        *int     `toml:"plays"`
	Distinct     *bool    `toml:"distinct"`
	Workers      *int     `toml:"workers"`
}

// HistoryConfig maps draw history settings.
type HistoryConfig struct {
	DB   *string `toml:"db"`
	Last *int    `toml:"last"`
}

// SyncConfig maps results API settings.
type SyncConfig struct {
	APIURL  *string   `toml:"api-url"`
	Rate    *float64  `toml:"rate"`
	Timeout *Duration `toml:"timeout"`
}

// ServeConfig maps HTTP API settings.
type ServeConfig struct {
	Addr *string `toml:"addr"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// Duration decodes TOML strings such as "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
