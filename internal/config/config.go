package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (APKEDITOR_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: APKEDITOR_SERVER_PORT -> server.port, etc.
	if err := k.Load(env.Provider("APKEDITOR_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "APKEDITOR_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	c.mu.RLock()
	data, err := yamlv3.Marshal(c)
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Storage.ProjectsDir == "" {
		return fmt.Errorf("storage.projects_dir is required")
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path is required")
	}
	if c.Upload.MaxSizeBytes <= 0 {
		return fmt.Errorf("upload.max_size_bytes must be positive")
	}
	if c.Upload.Extension == "" || !strings.HasPrefix(c.Upload.Extension, ".") {
		return fmt.Errorf("upload.extension must start with a dot")
	}
	if c.Tools.Timeouts.DecompileSec <= 0 || c.Tools.Timeouts.CompileSec <= 0 ||
		c.Tools.Timeouts.SignSec <= 0 || c.Tools.Timeouts.AITestSec <= 0 {
		return fmt.Errorf("tools.timeouts values must be positive")
	}
	return nil
}

// AISettings returns a snapshot of the AI settings that is safe to use while
// the settings form mutates them.
func (c *Config) AISettings() AIConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AI
}

// UpdateAI applies the given overrides to the AI settings. Empty values keep
// the current setting.
func (c *Config) UpdateAI(apiKey, model, baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if apiKey != "" {
		c.AI.APIKey = apiKey
	}
	if model != "" {
		c.AI.Model = model
	}
	if baseURL != "" {
		c.AI.BaseURL = baseURL
	}
}

// APIKey resolves the AI API key: an explicit key in the config wins,
// otherwise the configured environment variable is consulted.
func (c *Config) APIKey() string {
	ai := c.AISettings()
	if ai.APIKey != "" {
		return ai.APIKey
	}
	if ai.APIKeyEnv != "" {
		return os.Getenv(ai.APIKeyEnv)
	}
	return ""
}

// DecompileTimeout returns the decompile timeout as a duration.
func (c *Config) DecompileTimeout() time.Duration {
	return time.Duration(c.Tools.Timeouts.DecompileSec) * time.Second
}

// CompileTimeout returns the compile timeout as a duration.
func (c *Config) CompileTimeout() time.Duration {
	return time.Duration(c.Tools.Timeouts.CompileSec) * time.Second
}

// SignTimeout returns the sign timeout as a duration.
func (c *Config) SignTimeout() time.Duration {
	return time.Duration(c.Tools.Timeouts.SignSec) * time.Second
}

// AITestTimeout returns the AI capability check timeout as a duration.
func (c *Config) AITestTimeout() time.Duration {
	return time.Duration(c.Tools.Timeouts.AITestSec) * time.Second
}
