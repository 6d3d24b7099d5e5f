package cmd

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/dappai/internal/chain"
	"github.com/Mohsinsiddi/dappai/internal/model"
	"github.com/Mohsinsiddi/dappai/internal/ui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup wizard",
	Long:  "Launch the interactive setup wizard to configure the node endpoint, the model server and the API key.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.Banner(Version))

		result, err := ui.RunWizard(ui.WizardResult{
			Endpoint:  cfg.Endpoint,
			ModelURL:  cfg.ModelURL,
			ModelName: cfg.ModelName,
			Output:    cfg.Output,
		})
		if errors.Is(err, ui.ErrWizardCancelled) {
			fmt.Println(ui.Meta("Setup cancelled; nothing was saved."))
			return nil
		}
		if err != nil {
			return err
		}

		if _, err := chain.NewFetcher(result.Endpoint, ""); err != nil {
			return err
		}
		if _, err := model.NewHTTPModel(result.ModelURL, result.ModelName); err != nil {
			return err
		}

		// Apply wizard results to config.
		cfg.Endpoint = result.Endpoint
		cfg.ModelURL = result.ModelURL
		cfg.ModelName = result.ModelName
		cfg.Output = result.Output

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		// Store API key if provided.
		if result.APIKey != "" {
			ks, err := openKeystore()
			if err == nil {
				err = ks.SetAPIKey(result.APIKey)
			}
			if err != nil {
				fmt.Println(ui.Warn(fmt.Sprintf("Could not store API key: %v", err)))
			}
		}

		fmt.Println(ui.Success("dappai configured! Run `dappai analyze` to score the latest transactions."))
		return nil
	},
}
