package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	RedisAddr         string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	TokenSecret       string        `mapstructure:"token_secret" yaml:"token_secret"`
	TokenIssuer       string        `mapstructure:"token_issuer" yaml:"token_issuer"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		RedisAddr:         "localhost:6379",
		LogLevel:          "info",
		TokenSecret:       "change-me",
		TokenIssuer:       "roomchat",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}
