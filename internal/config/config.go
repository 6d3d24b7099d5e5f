package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const configFile = "config.json"

// Load reads config from dir (or creates defaults). dir defaults to ~/.dappai.
// Environment variables override values read from the file.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".dappai")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.configDir = dir
	cfg.fillDefaults()
	cfg.applyEnv(os.LookupEnv)

	if err := ValidateOutput(cfg.Output); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk. Environment overrides are not persisted.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	out := *c
	out.Endpoint = c.persisted(EndpointEnv, c.Endpoint)
	out.ModelURL = c.persisted(ModelURLEnv, c.ModelURL)
	out.ModelName = c.persisted(ModelNameEnv, c.ModelName)
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ValidateOutput reports whether format is a supported output format.
func ValidateOutput(format string) error {
	switch format {
	case OutputTable, OutputJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q — choose: %s, %s", format, OutputTable, OutputJSON)
	}
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		Endpoint:       DefaultEndpoint,
		ModelURL:       DefaultModelURL,
		ModelName:      DefaultModelName,
		TimeoutSeconds: int(DefaultTimeout / time.Second),
		Output:         DefaultOutput,
		configDir:      dir,
	}
}

// fillDefaults restores defaults for fields a config file left empty.
func (c *Config) fillDefaults() {
	d := defaults(c.configDir)
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
	}
	if c.ModelURL == "" {
		c.ModelURL = d.ModelURL
	}
	if c.ModelName == "" {
		c.ModelName = d.ModelName
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = d.TimeoutSeconds
	}
	if c.Output == "" {
		c.Output = d.Output
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	c.env = make(map[string]envOverride)
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			c.env[key] = envOverride{file: *dst, env: v}
			*dst = v
		}
	}
	set(EndpointEnv, &c.Endpoint)
	set(ModelURLEnv, &c.ModelURL)
	set(ModelNameEnv, &c.ModelName)
	set(APIKeyEnv, &c.APIKey)
}

// persisted returns the value Save should write for a field that key may
// have overridden: the file value while the override is still in effect.
func (c *Config) persisted(key, current string) string {
	if o, ok := c.env[key]; ok && current == o.env {
		return o.file
	}
	return current
}
