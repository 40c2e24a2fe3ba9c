package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"docfill/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Without a config file
the built-in defaults are shown.`,
	Example: `
  # Show active configuration
  docfill config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, using defaults.")
		}
		fmt.Println("Configuration:")
		printConfig(os.Stdout, cfg)
	},
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "source.anchor_labels: %s\n", strings.Join(cfg.Source.AnchorLabels, ", "))
	fmt.Fprintf(out, "source.end_markers: %s\n", strings.Join(cfg.Source.EndMarkers, ", "))
	fmt.Fprintf(out, "source.max_anchor_column: %d\n", cfg.Source.MaxAnchorColumn)
	fmt.Fprintf(out, "source.max_anchor_row: %d\n", cfg.Source.MaxAnchorRow)
	printStyle(out, "template.title_style", cfg.Template.TitleStyle)
	printStyle(out, "template.cell_style", cfg.Template.CellStyle)
	fmt.Fprintf(out, "template.apply_cell_style: %t\n", cfg.Template.ApplyCellStyle)
	fmt.Fprintf(out, "output.dir: %s\n", cfg.Output.Dir)
	fmt.Fprintf(out, "history.enabled: %t\n", cfg.History.Enabled)
	fmt.Fprintf(out, "history.db_path: %s\n", cfg.History.DBPath)
	fmt.Fprintf(out, "log.level: %s\n", cfg.Log.Level)
}

func printStyle(out io.Writer, key string, style config.StyleConfig) {
	fmt.Fprintf(out, "%s.name: %s\n", key, style.Name)
	fmt.Fprintf(out, "%s.font: %s\n", key, style.Font)
	fmt.Fprintf(out, "%s.size: %d\n", key, style.Size)
	fmt.Fprintf(out, "%s.bold: %t\n", key, style.Bold)
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
