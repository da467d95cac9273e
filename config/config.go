// Package config loads retrospec settings from retrospec.toml and
// RETROSPEC_* environment variables.
//
// Precedence (lowest to highest): defaults < config file < env vars.
// Nested keys map to env vars with "." replaced by "_", so logger.level is
// RETROSPEC_LOGGER_LEVEL.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/retrospec/errors"
)

// FileName is the project config file searched for upward from the
// working directory.
const FileName = "retrospec.toml"

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "RETROSPEC"

// Config is the full retrospec configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" toml:"logger"`
	Output   OutputConfig   `mapstructure:"output" toml:"output"`
	Generate GenerateConfig `mapstructure:"generate" toml:"generate"`

	// Path is the config file that was read, empty when none was found.
	Path string `mapstructure:"-" toml:"-"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	JSON  bool   `mapstructure:"json" toml:"json"`
}

type OutputConfig struct {
	// Dir is the module root spec files are written below
	Dir       string `mapstructure:"dir" toml:"dir"`
	Overwrite bool   `mapstructure:"overwrite" toml:"overwrite"`
	Header    string `mapstructure:"header" toml:"header"`
}

type GenerateConfig struct {
	Parallelism int `mapstructure:"parallelism" toml:"parallelism"`
}

// Load reads the configuration. An empty path searches for retrospec.toml
// from the working directory upward; finding none is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = findProjectConfig()
	}

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	return unmarshal(v, path)
}

// LoadFromFile reads one config file without consulting the environment.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return unmarshal(v, path)
}

func unmarshal(v *viper.Viper, path string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Path = path
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// findProjectConfig walks up from the working directory looking for
// retrospec.toml. Returns empty string if none is found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
