package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"waveline/pkg/logger"
)

// Config holds all client configuration
type Config struct {
	Server ServerConfig  `yaml:"server"`
	UI     UIConfig      `yaml:"ui"`
	Log    logger.Config `yaml:"log"`
}

// ServerConfig contains server connection settings
type ServerConfig struct {
	Host string     `yaml:"host"`
	HTTP HTTPConfig `yaml:"http"`
	WS   WSConfig   `yaml:"ws"`
}

// HTTPConfig for the REST API
type HTTPConfig struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

// WSConfig for the notification and livestream channels
type WSConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
}

// UIConfig for UI preferences. Theme-level preferences live server-side in
// the settings bag; these are purely local terminal knobs.
type UIConfig struct {
	PageSize         int  `yaml:"page_size"`
	EnableAnimations bool `yaml:"enable_animations"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			HTTP: HTTPConfig{
				Port:    8080,
				BaseURL: "http://localhost:8080/api/v1",
			},
			WS: WSConfig{
				Port: 8080,
				Path: "/ws",
				URL:  "ws://localhost:8080/ws",
			},
		},
		UI: UIConfig{
			PageSize:         20,
			EnableAnimations: true,
		},
		Log: logger.Config{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from file, falling back to defaults
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return Default(), nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Detect if host is a public domain (HTTPS/WSS) vs localhost (HTTP/WS)
	httpScheme := "http"
	wsScheme := "ws"
	if cfg.Server.Host != "localhost" && cfg.Server.Host != "127.0.0.1" {
		httpScheme = "https"
		wsScheme = "wss"
	}

	cfg.Server.HTTP.BaseURL = fmt.Sprintf("%s://%s:%d/api/v1",
		httpScheme, cfg.Server.Host, cfg.Server.HTTP.Port)
	if cfg.Server.WS.Path == "" {
		cfg.Server.WS.Path = "/ws"
	}
	cfg.Server.WS.URL = fmt.Sprintf("%s://%s:%d%s",
		wsScheme, cfg.Server.Host, cfg.Server.WS.Port, cfg.Server.WS.Path)

	return &cfg, nil
}

// Save saves configuration to file
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// findConfigFile searches for config in standard locations
func findConfigFile() string {
	locations := []string{
		"./waveline.yaml",
		"./config/waveline.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "waveline", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".waveline.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// GetHTTPBaseURL returns the computed HTTP base URL
func (c *Config) GetHTTPBaseURL() string {
	if c.Server.HTTP.BaseURL != "" {
		return c.Server.HTTP.BaseURL
	}
	return fmt.Sprintf("http://%s:%d/api/v1", c.Server.Host, c.Server.HTTP.Port)
}

// GetWebSocketURL returns the computed WebSocket base URL
func (c *Config) GetWebSocketURL() string {
	if c.Server.WS.URL != "" {
		return c.Server.WS.URL
	}
	return fmt.Sprintf("ws://%s:%d%s", c.Server.Host, c.Server.WS.Port, c.Server.WS.Path)
}
