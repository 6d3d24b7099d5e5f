package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/Mohsinsiddi/dappai/internal/config"
	"github.com/Mohsinsiddi/dappai/internal/logging"
	"github.com/Mohsinsiddi/dappai/internal/ui"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/dappai/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir    string
	cfg       *config.Config
	verbose   bool
	logFormat string
	logger    *slog.Logger
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "dappai",
	Short: "AI-powered dApp transaction analyzer",
	Long: `dappai — fetch recent transactions from a blockchain node API and score
them with a served machine-learning model.

  Each run fetches the transaction list once, turns every record's gas usage
  into a model feature, and prints the model output as "Prediction i" scores.

Configure the node endpoint and model server with ` + "`dappai init`" + ` or
` + "`dappai config`" + `. Environment variables DAPPAI_ENDPOINT, DAPPAI_MODEL_URL,
DAPPAI_MODEL_NAME and DAPPAI_API_KEY override the config file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger = logging.New(os.Stderr, logging.Config{Level: level, Format: logFormat})

		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger.Debug("config loaded", "dir", cfg.Dir(), "endpoint", cfg.Endpoint, "model_url", cfg.ModelURL)
		return nil
	},
}

// Execute runs the root command. Any error is printed once and the process
// exits with status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		os.Exit(1)
	}
}

func init() {
	// DAPPAI_CONFIG_DIR env var overrides the --config default.
	if envDir := os.Getenv(config.DirEnv); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.dappai)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text | json")

	rootCmd.SetVersionTemplate("dappai {{.Version}}\n")

	// Register all sub-commands.
	rootCmd.AddCommand(
		initCmd,
		analyzeCmd,
		fetchCmd,
		configCmd,
	)
}
