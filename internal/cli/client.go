// Package cli holds shared plumbing for the waveline command line tool.
// Connection settings come from viper (~/.waveline/config.yaml); tokens live
// in the same SQLite session store the TUI uses, so a CLI login carries over.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"waveline/internal/api"
	"waveline/internal/session"
)

// InitConfig seeds viper defaults and reads the config file if present
func InitConfig() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.http_port", 8080)

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(home, ".waveline"))
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("WAVELINE")
	viper.AutomaticEnv()

	// Missing config file is fine; defaults apply
	_ = viper.ReadInConfig()
}

// SaveConfig writes the current viper state to ~/.waveline/config.yaml
func SaveConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	configDir := filepath.Join(home, ".waveline")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	return viper.WriteConfigAs(filepath.Join(configDir, "config.yaml"))
}

// BaseURL builds the REST base URL from viper settings
func BaseURL() string {
	return fmt.Sprintf("http://%s:%d/api/v1",
		viper.GetString("server.host"),
		viper.GetInt("server.http_port"))
}

// NewClient opens the session store and returns an API client on it.
// The caller owns the store and must Close it.
func NewClient() (*api.Client, *session.Store, error) {
	dbPath, err := session.DefaultPath()
	if err != nil {
		return nil, nil, err
	}
	store, err := session.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}
	return api.NewClient(BaseURL(), store), store, nil
}
