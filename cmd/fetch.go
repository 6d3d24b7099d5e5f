package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Mohsinsiddi/dappai/internal/chain"
	"github.com/Mohsinsiddi/dappai/internal/config"
	"github.com/Mohsinsiddi/dappai/internal/ui"
	"github.com/spf13/cobra"
)

var (
	fetchEndpoint string
	fetchAPIKey   string
	fetchOutput   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and list transactions without running the model",
	Long: `Fetch the transaction list from the node API and print the decoded
records, followed by every entry that was skipped and why.

Use this to diagnose a node whose payload does not match the transaction
schema.

Examples:
  dappai fetch
  dappai fetch --endpoint https://node.example/api --output json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := cfg.Endpoint
		if fetchEndpoint != "" {
			endpoint = fetchEndpoint
		}
		output := cfg.Output
		if fetchOutput != "" {
			output = fetchOutput
		}
		if err := config.ValidateOutput(output); err != nil {
			return err
		}

		f, err := chain.NewFetcher(endpoint, resolveAPIKey(fetchAPIKey, cfg.APIKey, keychainAPIKey),
			chain.WithTimeout(cfg.Timeout()),
			chain.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner(os.Stderr, "Fetching transactions from "+ui.Hash(f.Endpoint())+"...")
		spin.Start()
		res, err := f.Fetch(cmd.Context())
		spin.Stop()
		if err != nil {
			return describeRunError(err)
		}

		if output == config.OutputJSON {
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("%s\n\n", ui.StyleTitle.Render(fmt.Sprintf("Transactions (%d)", len(res.Records))))
		if len(res.Records) == 0 {
			fmt.Println(ui.Meta("No transaction records."))
		} else {
			fmt.Print(ui.TransactionTable(res.Records))
		}

		if len(res.Skipped) > 0 {
			fmt.Println()
			fmt.Printf("%s\n\n", ui.StyleWarning.Render(fmt.Sprintf("Skipped entries (%d)", len(res.Skipped))))
			fmt.Print(ui.SkippedTable(res.Skipped))
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchEndpoint, "endpoint", "", "node API endpoint (default from config)")
	fetchCmd.Flags().StringVar(&fetchAPIKey, "api-key", "", "node API key (default: $DAPPAI_API_KEY, then keychain)")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "output format: table | json (default from config)")
}
