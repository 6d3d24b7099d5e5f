package config

// Config holds all dappai configuration.
type Config struct {
	Endpoint       string `json:"endpoint"`
	ModelURL       string `json:"model_url"`
	ModelName      string `json:"model_name"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Output         string `json:"output"` // "table" | "json"

	// APIKey is only ever populated from the environment; the key is kept in
	// the OS keychain, never in config.json.
	APIKey string `json:"-"`

	// internal: config dir path used for Save()
	configDir string
	// internal: environment overrides, kept out of config.json
	env map[string]envOverride
}

type envOverride struct {
	file string
	env  string
}
