package api

import (
	"fmt"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP server settings, loaded from YAML
type ServerConfig struct {
	Server struct {
		Addr string
	}
	BotService struct {
		URL string
	}
}

// LoadConfig reads the server config file, falling back to defaults when
// the file is absent.
func LoadConfig(path string) (ServerConfig, error) {
	v := viper.New()
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("botservice.url", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return ServerConfig{}, fmt.Errorf("read server config: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parse server config: %w", err)
	}
	return cfg, nil
}
