package config

import (
	"sort"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.overwrite", false) // Generated stubs get edited by hand
	v.SetDefault("output.header", "require 'spec_helper'")

	v.SetDefault("generate.parallelism", 1)
}

// Default returns the configuration used when no file or env var is set.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, _ := unmarshal(v, "")
	return cfg
}

// Keys returns every known configuration key, sorted.
func Keys() []string {
	v := viper.New()
	SetDefaults(v)
	keys := v.AllKeys()
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is a configuration option.
func IsKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}
