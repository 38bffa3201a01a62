// Package streamlitcfg reads the application's own .streamlit/config.toml
// so synthesis can cross-check it against the deployment configuration.
package streamlitcfg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ServerConfig is the subset of Streamlit's [server] section we care about.
type ServerConfig struct {
	Port     int  `toml:"port"`
	Headless bool `toml:"headless"`
}

// Config is the subset of Streamlit's config.toml we care about.
type Config struct {
	Server ServerConfig `toml:"server"`
}

// Load reads <appDir>/.streamlit/config.toml. A missing file is not an
// error; it returns a nil config and the caller proceeds without checks.
func Load(appDir string) (*Config, error) {
	path := filepath.Join(appDir, ".streamlit", "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading streamlit config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling streamlit config %s: %w", path, err)
	}
	return &cfg, nil
}

// PortMismatch reports whether the app pins server.port to a value other
// than the deployed container port. A zero port means unset.
func (c *Config) PortMismatch(port int) bool {
	if c == nil || c.Server.Port == 0 {
		return false
	}
	return c.Server.Port != port
}
