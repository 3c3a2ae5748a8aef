package models

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default settings applied when neither the config file nor the
// environment overrides them.
var DefaultCountries = []string{"us", "tr", "jp", "ca", "gb", "de", "fr"}

const (
	DefaultLanguage    = "en"
	DefaultOutputDir   = "app_store_assets"
	DefaultDBName      = "appstore-assets.db"
	DefaultWorkerCount = 4
)

// Config holds runtime configuration for a download run. It is built
// once in main and passed down explicitly; nothing reads it as ambient
// state.
type Config struct {
	Countries       []string          `yaml:"countries"`
	DefaultLanguage string            `yaml:"default_language"`
	Languages       map[string]string `yaml:"languages"` // country code -> locale override
	OutputDir       string            `yaml:"output_dir"`
	DBPath          string            `yaml:"db_path"`
	HTTPProxy       string            `yaml:"http_proxy"`
	WorkerCount     int               `yaml:"workers"`
}

// LoadConfig reads an optional YAML config file and layers ASA_*
// environment variables on top. A missing file is not an error; the
// defaults apply.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Countries:       append([]string(nil), DefaultCountries...),
		DefaultLanguage: DefaultLanguage,
		OutputDir:       DefaultOutputDir,
		DBPath:          DefaultDBName,
		WorkerCount:     DefaultWorkerCount,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	for i, c := range cfg.Countries {
		cfg.Countries[i] = strings.ToLower(strings.TrimSpace(c))
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := envValue("ASA_COUNTRIES"); v != "" {
		c.Countries = strings.Split(v, ",")
	}
	if v := envValue("ASA_DEFAULT_LANGUAGE"); v != "" {
		c.DefaultLanguage = v
	}
	if v := envValue("ASA_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := envValue("ASA_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := envValue("ASA_HTTP_PROXY"); v != "" {
		c.HTTPProxy = v
	}
	if v := envValue("ASA_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.WorkerCount = n
		}
	}
}

func envValue(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}
