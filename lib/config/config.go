// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/nposix/lib/random"
	"github.com/bureau-foundation/nposix/lib/sequence"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "NPOSIX_CONFIG"

// Config is the configuration for the nposix command.
type Config struct {
	// Random configures the random and digest subcommands.
	Random RandomConfig `yaml:"random"`

	// Wait configures the wait subcommand.
	Wait WaitConfig `yaml:"wait"`

	// Uniformity configures the uniformity subcommand.
	Uniformity UniformityConfig `yaml:"uniformity"`
}

// RandomConfig describes a sequence batch to generate.
type RandomConfig struct {
	// Seed is the starting seed in decimal or 0x hex. Quote hex values
	// in YAML so they stay strings. Default: "0x1234ABCD330E".
	Seed string `yaml:"seed"`

	// Kind is int32, uint32, or double. Default: int32.
	Kind string `yaml:"kind"`

	// Count is how many values to draw. Default: 10.
	Count int `yaml:"count"`

	// Format is text, json, or cbor. Default: text.
	Format string `yaml:"format"`

	// Compression is none, zstd, or lz4. Default: none.
	Compression string `yaml:"compression"`

	// Output is the file to write. Empty means standard output.
	// ${HOME} and ${VAR:-default} are expanded.
	Output string `yaml:"output"`
}

// RandomSettings is a RandomConfig with every field parsed.
type RandomSettings struct {
	Seed        random.Seed
	Kind        sequence.Kind
	Count       int
	Format      sequence.Format
	Compression sequence.Compression
	Output      string
}

// WaitConfig configures a demonstration bounded wait.
type WaitConfig struct {
	// Timeout is the relative timeout passed to TimedWait.
	// Default: 2s.
	Timeout time.Duration `yaml:"timeout"`

	// SignalAfter is how long a second goroutine waits before
	// signaling. Zero means nothing signals and the wait times out.
	SignalAfter time.Duration `yaml:"signal_after"`

	// ProcessClock selects the clock the early-wake check measures
	// against: "monotonic" or "process_cpu". Default: monotonic.
	ProcessClock string `yaml:"process_clock"`
}

// UniformityConfig configures the uniformity check.
type UniformityConfig struct {
	// Draws is the number of doubles to bin. Default: 1000000.
	Draws int `yaml:"draws"`

	// Bins is the number of equal-width bins. Default: 100.
	Bins int `yaml:"bins"`

	// Tolerance is the largest acceptable relative deviation of any
	// bin from the expected count. Default: 0.05.
	Tolerance float64 `yaml:"tolerance"`
}

// Default returns the configuration used when no file is given. A file
// loaded with LoadFile is merged over these values.
func Default() *Config {
	return &Config{
		Random: RandomConfig{
			Seed:        random.InitialSeed.String(),
			Kind:        "int32",
			Count:       10,
			Format:      "text",
			Compression: "none",
		},
		Wait: WaitConfig{
			Timeout:      2 * time.Second,
			ProcessClock: "monotonic",
		},
		Uniformity: UniformityConfig{
			Draws:     1_000_000,
			Bins:      100,
			Tolerance: 0.05,
		},
	}
}

// Load loads configuration from the file named by NPOSIX_CONFIG. It
// fails if the variable is not set; there is no search path.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of an nposix.yaml config file, or use --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path over Default and validates
// the result. Unknown keys are errors.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile decodes one YAML file into c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Random.Output = expandVars(c.Random.Output, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${VAR} and ${VAR:-default}, looking in vars
// first and then the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Resolve parses every field of r.
func (r RandomConfig) Resolve() (RandomSettings, error) {
	var errs []error
	settings := RandomSettings{Count: r.Count, Output: r.Output}

	var err error
	if settings.Seed, err = random.ParseSeed(r.Seed); err != nil {
		errs = append(errs, fmt.Errorf("random.seed: %w", err))
	}
	if settings.Kind, err = sequence.ParseKind(r.Kind); err != nil {
		errs = append(errs, fmt.Errorf("random.kind: %w", err))
	}
	if settings.Format, err = sequence.ParseFormat(r.Format); err != nil {
		errs = append(errs, fmt.Errorf("random.format: %w", err))
	}
	if settings.Compression, err = sequence.ParseCompression(r.Compression); err != nil {
		errs = append(errs, fmt.Errorf("random.compression: %w", err))
	}
	if r.Count < 0 || r.Count > sequence.MaxCount {
		errs = append(errs, fmt.Errorf("random.count must be in [0, %d], got %d", sequence.MaxCount, r.Count))
	}

	if len(errs) > 0 {
		return RandomSettings{}, errors.Join(errs...)
	}
	return settings, nil
}

// processClocks lists the accepted wait.process_clock values.
var processClocks = []string{"monotonic", "process_cpu"}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Random.Resolve(); err != nil {
		errs = append(errs, err)
	}

	if c.Wait.Timeout < 0 {
		errs = append(errs, fmt.Errorf("wait.timeout must not be negative, got %s", c.Wait.Timeout))
	}
	if c.Wait.SignalAfter < 0 {
		errs = append(errs, fmt.Errorf("wait.signal_after must not be negative, got %s", c.Wait.SignalAfter))
	}
	if !contains(processClocks, c.Wait.ProcessClock) {
		errs = append(errs, fmt.Errorf("wait.process_clock must be one of: %v", processClocks))
	}

	if c.Uniformity.Draws < 1 {
		errs = append(errs, fmt.Errorf("uniformity.draws must be positive, got %d", c.Uniformity.Draws))
	}
	if c.Uniformity.Bins < 1 {
		errs = append(errs, fmt.Errorf("uniformity.bins must be positive, got %d", c.Uniformity.Bins))
	}
	if !(c.Uniformity.Tolerance > 0 && c.Uniformity.Tolerance <= 1) {
		errs = append(errs, fmt.Errorf("uniformity.tolerance must be in (0, 1], got %v", c.Uniformity.Tolerance))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
