// Package config loads reftree settings from a TOML file.
//
// Every section is optional. Keys that are absent keep their defaults, so an
// empty file and a missing file both yield [Default]:
//
//	[simulation]
//	initial_referrers = 100
//	capacity = 10
//	max_days = 100000
//
//	[bonus]
//	max_bonus = 1000
//	increment = 50
//
//	[adoption]
//	base = 0.01
//	slope = 0.0002
//	ceiling = 1.0
//
//	[server]
//	addr = ":8080"
//	max_days = 36500
//	max_top_k = 1000
//
// Unknown keys are rejected to catch typos early.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/reftree/pkg/bonus"
	"github.com/matzehuels/reftree/pkg/growth"
)

// Server defaults used by "reftree serve".
const (
	DefaultAddr    = ":8080"
	DefaultMaxDays = 36_500
	DefaultMaxTopK = 1_000
)

// Config is the root of the configuration file.
type Config struct {
	Simulation growth.Config `toml:"simulation"`
	Bonus      bonus.Config  `toml:"bonus"`
	Adoption   Adoption      `toml:"adoption"`
	Server     Server        `toml:"server"`
}

// Adoption parameterises the linear bonus-to-probability model used by the
// CLI and API when no explicit model is supplied.
type Adoption struct {
	Base    float64 `toml:"base"`
	Slope   float64 `toml:"slope"`
	Ceiling float64 `toml:"ceiling"`
}

// Func returns the adoption model described by a.
func (a Adoption) Func() bonus.AdoptionFunc {
	return bonus.LinearAdoption(a.Base, a.Slope, a.Ceiling)
}

// Server holds HTTP server settings. MaxDays bounds the horizon a request
// may ask to simulate; MaxTopK caps the ranking size of /analytics/top.
type Server struct {
	Addr    string `toml:"addr"`
	MaxDays int    `toml:"max_days"`
	MaxTopK int    `toml:"max_top_k"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Simulation: growth.DefaultConfig(),
		Bonus:      bonus.DefaultConfig(),
		Adoption:   Adoption{Base: 0.01, Slope: 0.0002, Ceiling: 1},
		Server:     Server{Addr: DefaultAddr, MaxDays: DefaultMaxDays, MaxTopK: DefaultMaxTopK},
	}
}

// Load reads path on top of [Default]. An empty path or a missing file
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if err := c.Bonus.Validate(); err != nil {
		return err
	}
	if c.Adoption.Base < 0 || c.Adoption.Slope < 0 {
		return fmt.Errorf("adoption: base and slope must not be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server: addr must not be empty")
	}
	if c.Server.MaxDays <= 0 || c.Server.MaxTopK <= 0 {
		return fmt.Errorf("server: max_days and max_top_k must be positive")
	}
	return nil
}

// Save writes c to path as TOML.
func Save(c Config, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return Write(f, c)
}

// Write encodes c as TOML to w.
func Write(w io.Writer, c Config) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
