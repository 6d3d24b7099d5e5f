package config

import "time"

// Defaults applied when config.json is absent or leaves a field empty.
const (
	DefaultEndpoint  = "https://blockchain-node.com/api"
	DefaultModelURL  = "http://localhost:8501"
	DefaultModelName = "AIAnalyzer"
	DefaultTimeout   = 15 * time.Second
	DefaultOutput    = OutputTable
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Environment variables. DirEnv is read by the CLI before Load; the others
// override values from config.json.
const (
	DirEnv       = "DAPPAI_CONFIG_DIR"
	EndpointEnv  = "DAPPAI_ENDPOINT"
	ModelURLEnv  = "DAPPAI_MODEL_URL"
	ModelNameEnv = "DAPPAI_MODEL_NAME"
	APIKeyEnv    = "DAPPAI_API_KEY"
)
