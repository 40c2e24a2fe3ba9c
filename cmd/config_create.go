package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write the example docfill configuration.",
	Long: `Write the example configuration used by "config edit" to the active config path.

The target is --configFile when given, otherwise the loaded config file, otherwise
$HOME/.docfill.yaml. An existing file is left untouched.`,
	Example: `
  # Create default config at $HOME/.docfill.yaml
  docfill config create

  # Create a project local config
  docfill --configFile ./.docfill.yaml config create
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig(os.Stdout)
	},
}

func saveDefaultConfig(out io.Writer) error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(out, "Config file already exists at: %s\n", configPath)
		return nil
	}

	fmt.Fprintf(out, "New config file created at: %s\n", configPath)
	fmt.Fprintln(out, "Adjust anchor labels and end markers with: docfill config edit")
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)
}
