package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDeleteYes bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by docfill.

Without --yes the command asks for confirmation and only proceeds on "Y".
If no configuration file is active, the command returns an error.`,
	Example: `
  # Delete active config
  docfill config delete

  # Delete config at a custom path without prompting
  docfill --configFile ./custom-docfill.yaml config delete --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			return fmt.Errorf("no configuration file found")
		}

		if !configDeleteYes {
			confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, fmt.Sprintf("config file %q", configPath))
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("delete aborted: confirmation was not 'Y'")
			}
		}

		if err := deleteConfigFile(configPath); err != nil {
			return err
		}
		fmt.Printf("Configuration file successfully deleted: %s\n", configPath)
		return nil
	},
}

func deleteConfigFile(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("configuration file not found: %s", path)
		}
		return fmt.Errorf("delete configuration file: %w", err)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVarP(&configDeleteYes, "yes", "y", false, "Delete without confirmation prompt")
}
