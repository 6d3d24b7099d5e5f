package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
	"github.com/Mohsinsiddi/dappai/internal/chain"
	"github.com/Mohsinsiddi/dappai/internal/config"
	"github.com/Mohsinsiddi/dappai/internal/model"
	"github.com/Mohsinsiddi/dappai/internal/secrets"
	"github.com/Mohsinsiddi/dappai/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Config directory: ") + ui.Val(cfg.Dir()))
		fmt.Println(ui.Meta("API key: ") + ui.Val(apiKeySource()))
		return nil
	},
}

var configSetEndpointCmd = &cobra.Command{
	Use:   "set-endpoint <url>",
	Short: "Set the node API endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := chain.NewFetcher(args[0], ""); err != nil {
			return err
		}
		cfg.Endpoint = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Endpoint set to %s", args[0])))
		return nil
	},
}

var configSetModelCmd = &cobra.Command{
	Use:   "set-model <url> [name]",
	Short: "Set the model server URL and, optionally, the model name",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := cfg.ModelName
		if len(args) == 2 {
			name = args[1]
		}
		// NewHTTPModel rejects anything the analyze run would reject.
		if _, err := model.NewHTTPModel(args[0], name); err != nil {
			return err
		}
		cfg.ModelURL = args[0]
		cfg.ModelName = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Model set to %s at %s", name, args[0])))
		return nil
	},
}

var configSetOutputCmd = &cobra.Command{
	Use:   "set-output <table|json>",
	Short: "Set the default output format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateOutput(args[0]); err != nil {
			return err
		}
		cfg.Output = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Output format set to %q", args[0])))
		return nil
	},
}

var configSetAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key <key>",
	Short: "Store the node API key in the OS keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		if err := ks.SetAPIKey(args[0]); err != nil {
			return err
		}
		fmt.Println(ui.Success("API key stored in keychain"))
		return nil
	},
}

var configDeleteAPIKeyCmd = &cobra.Command{
	Use:   "delete-api-key",
	Short: "Remove the node API key from the OS keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !configYes && !ui.ConfirmDanger(os.Stdin, os.Stdout, "Delete the stored API key?") {
			fmt.Println(ui.Meta("Aborted."))
			return nil
		}
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		if err := ks.DeleteAPIKey(); err != nil {
			if errors.Is(err, secrets.ErrNotFound) {
				fmt.Println(ui.Warn("No API key stored."))
				return nil
			}
			return err
		}
		fmt.Println(ui.Success("API key removed from keychain"))
		return nil
	},
}

var configYes bool

// openKeystore opens the keychain for the current config dir. The file
// backend password comes from DAPPAI_KEYRING_PASSWORD, or is asked for on
// the terminal.
func openKeystore() (*secrets.Keystore, error) {
	var prompt keyring.PromptFunc = keyring.TerminalPrompt
	if pw, ok := os.LookupEnv(secrets.PasswordEnv); ok {
		prompt = keyring.FixedStringPrompt(pw)
	}
	return secrets.Open(cfg.Dir(), prompt)
}

// apiKeySource describes where the analyze run would take its API key from,
// without revealing the key.
func apiKeySource() string {
	if cfg.APIKey != "" {
		return "from $" + config.APIKeyEnv
	}
	if keychainAPIKey() != "" {
		return "stored in keychain"
	}
	return "not set"
}

func init() {
	configDeleteAPIKeyCmd.Flags().BoolVarP(&configYes, "yes", "y", false, "skip the confirmation prompt")
	configCmd.AddCommand(
		configListCmd,
		configSetEndpointCmd,
		configSetModelCmd,
		configSetOutputCmd,
		configSetAPIKeyCmd,
		configDeleteAPIKeyCmd,
	)
}
