package api

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is used when no other configuration source yields an address.
const DefaultBaseURL = "http://localhost:3000"

// DefaultConfigFileName is the config file looked up in the working directory
// when MEDINV_CONFIG does not name one.
const DefaultConfigFileName = "medinv.yaml"

// FileConfig is the on-disk client configuration.
type FileConfig struct {
	// APIURL is the base address of the inventory server.
	APIURL string `yaml:"api_url"`
}

// loadFileConfig reads a yaml config file. A missing file is not an error;
// it simply contributes nothing to resolution.
func loadFileConfig(path string) (FileConfig, error) {
	var cfg FileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ResolveBaseURL resolves the server base address once at startup.
// Precedence: explicit value, config file (MEDINV_CONFIG or ./medinv.yaml),
// MEDINV_API_URL, API_URL, and finally DefaultBaseURL. The trailing slash is
// always stripped so paths can be joined with a single "/".
func ResolveBaseURL(explicit string) string {
	if explicit != "" {
		return normalizeBaseURL(explicit)
	}

	configPath := os.Getenv("MEDINV_CONFIG")
	if configPath == "" {
		configPath = filepath.Join(".", DefaultConfigFileName)
	}
	if cfg, err := loadFileConfig(configPath); err == nil && cfg.APIURL != "" {
		return normalizeBaseURL(cfg.APIURL)
	}

	if v := os.Getenv("MEDINV_API_URL"); v != "" {
		return normalizeBaseURL(v)
	}
	if v := os.Getenv("API_URL"); v != "" {
		return normalizeBaseURL(v)
	}

	return DefaultBaseURL
}

func normalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
