package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage docfill configuration file values.",
	Long: `Create, edit, display, and delete the docfill configuration file.

The configuration stores how tables are found and how documents are written:
- source.anchor_labels / source.end_markers / source.max_anchor_column / source.max_anchor_row
- template.title_style / template.cell_style / template.apply_cell_style
- output.dir
- history.enabled / history.db_path
- log.level`,
	Example: `
  # Create default config in $HOME/.docfill.yaml
  docfill config create

  # Show active config and source file
  docfill config show

  # Open active config in editor (creates example if missing)
  docfill config edit

  # Delete active config file
  docfill config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
