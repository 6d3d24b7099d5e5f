package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Mohsinsiddi/dappai/internal/analyzer"
	"github.com/Mohsinsiddi/dappai/internal/config"
	"github.com/Mohsinsiddi/dappai/internal/secrets"
	"github.com/Mohsinsiddi/dappai/internal/ui"
	"github.com/spf13/cobra"
)

var (
	analyzeEndpoint  string
	analyzeAPIKey    string
	analyzeModelURL  string
	analyzeModelName string
	analyzeOutput    string
	analyzeTimeout   time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fetch transactions and score them with the model",
	Long: `Fetch the transaction list from the node API, run the model over the
gas usage of every record and print the predictions.

Entries that do not match the transaction schema are skipped; the number
skipped is reported after the results. A network, decode or inference
failure aborts the run with a non-zero exit status. Nothing is retried.

Examples:
  dappai analyze
  dappai analyze --endpoint https://node.example/api --api-key $KEY
  dappai analyze --model-url http://localhost:8501 --model-name AIAnalyzer
  dappai analyze --output json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, output, err := analyzeOptions(cmd)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner(os.Stderr, fmt.Sprintf("Analyzing transactions with %s...", ui.ModelName(opts.ModelName)))
		spin.Start()
		report, err := analyzer.Run(cmd.Context(), opts)
		spin.Stop()
		if err != nil {
			return describeRunError(err)
		}

		if err := printReport(os.Stdout, report, output); err != nil {
			return err
		}
		if warn := ui.SkippedSummary(report.Records, report.Skipped); warn != "" {
			fmt.Fprintln(os.Stderr, warn)
		}
		return nil
	},
}

// analyzeOptions merges flags over the loaded config.
func analyzeOptions(cmd *cobra.Command) (analyzer.Options, string, error) {
	opts := analyzer.Options{
		Endpoint:  cfg.Endpoint,
		ModelURL:  cfg.ModelURL,
		ModelName: cfg.ModelName,
		Timeout:   cfg.Timeout(),
		Logger:    logger,
	}
	output := cfg.Output

	if analyzeEndpoint != "" {
		opts.Endpoint = analyzeEndpoint
	}
	if analyzeModelURL != "" {
		opts.ModelURL = analyzeModelURL
	}
	if analyzeModelName != "" {
		opts.ModelName = analyzeModelName
	}
	if cmd.Flags().Changed("timeout") {
		if analyzeTimeout <= 0 {
			return opts, "", fmt.Errorf("--timeout must be positive, got %s", analyzeTimeout)
		}
		opts.Timeout = analyzeTimeout
	}
	if analyzeOutput != "" {
		output = analyzeOutput
	}
	if err := config.ValidateOutput(output); err != nil {
		return opts, "", err
	}

	opts.APIKey = resolveAPIKey(analyzeAPIKey, cfg.APIKey, keychainAPIKey)
	return opts, output, nil
}

// resolveAPIKey picks the first non-empty key: flag, environment, keychain.
// The keychain is only consulted when neither of the others is set.
func resolveAPIKey(flag, env string, keychain func() string) string {
	if flag != "" {
		return flag
	}
	if env != "" {
		return env
	}
	return keychain()
}

// keychainAPIKey returns the stored key, or "" when none is stored or the
// keychain is unavailable. A missing key is not an error: the node API may
// not require one.
func keychainAPIKey() string {
	ks, err := openKeystore()
	if err != nil {
		logger.Debug("keychain unavailable", "error", err)
		return ""
	}
	key, err := ks.APIKey()
	if err != nil {
		if !errors.Is(err, secrets.ErrNotFound) {
			logger.Debug("keychain lookup failed", "error", err)
		}
		return ""
	}
	return key
}

// describeRunError prefixes err with its class so the user can tell a node
// failure from a model failure.
func describeRunError(err error) error {
	switch analyzer.KindOf(err) {
	case analyzer.KindNetwork:
		return fmt.Errorf("fetching transactions failed: %w", err)
	case analyzer.KindDecode:
		return fmt.Errorf("node response could not be decoded: %w", err)
	case analyzer.KindInference:
		return fmt.Errorf("model inference failed: %w", err)
	default:
		return err
	}
}

// printReport writes the prediction mapping as a table or as a JSON object
// whose keys follow model output order.
func printReport(w io.Writer, report *analyzer.Report, output string) error {
	if output == config.OutputJSON {
		data, err := json.MarshalIndent(report.Predictions, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding predictions: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintln(w, ui.KeyValueBlock("Analysis", [][2]string{
		{"Model", report.Model},
		{"Records", fmt.Sprintf("%d", report.Records)},
		{"Skipped", fmt.Sprintf("%d", len(report.Skipped))},
		{"Predictions", fmt.Sprintf("%d", len(report.Predictions))},
	}))
	fmt.Fprintln(w)
	if len(report.Predictions) == 0 {
		fmt.Fprintln(w, ui.Meta("The model returned no predictions."))
		return nil
	}
	fmt.Fprint(w, ui.PredictionTable(report.Predictions))
	return nil
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeEndpoint, "endpoint", "", "node API endpoint (default from config)")
	f.StringVar(&analyzeAPIKey, "api-key", "", "node API key (default: $DAPPAI_API_KEY, then keychain)")
	f.StringVar(&analyzeModelURL, "model-url", "", "model server base URL (default from config)")
	f.StringVar(&analyzeModelName, "model-name", "", "served model name (default from config)")
	f.StringVarP(&analyzeOutput, "output", "o", "", "output format: table | json (default from config)")
	f.DurationVar(&analyzeTimeout, "timeout", 0, "per-request timeout, e.g. 10s (default from config)")
}
