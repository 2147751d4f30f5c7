package backend

import (
	"github.com/spf13/viper"
)

// Config holds backend process settings, read from the environment with
// OVERPASS_ prefixed variables.
type Config struct {
	Addr     string
	LogLevel string
}

// FromEnv loads the backend configuration with defaults.
func FromEnv() Config {
	v := viper.New()
	v.SetDefault("addr", ":8731")
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix("overpass")
	v.AutomaticEnv()

	return Config{
		Addr:     v.GetString("addr"),
		LogLevel: v.GetString("log_level"),
	}
}
