/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"docfill/config"
	"docfill/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	logger  = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docfill",
	Short: "Fill yearly report templates from spreadsheet tables, one document per entity.",
	Long: `
**********************************************
*                 DOCFILL                    *
**********************************************

This CLI reads a workbook with one sheet per year, finds the entity-by-header table on
each sheet, and writes the values into the year-by-header tables of a Word template.
Every entity gets its own document, titled with the entity name.

Supported source formats:
- Excel: .xlsx, .xlsm
- CSV: a directory of <year>.csv files, or a single <year>.csv

Supported templates:
- Word: .docx
`,
	Example: `
  # Create configuration file
  docfill config create

  # Check which headers and cells need attention
  docfill inspect -i clients.xlsx -t report.docx

  # Export empty/dodgy cells and missing template headers
  docfill review -i clients.xlsx -t report.docx -o review.xlsx

  # Generate documents for two entities
  docfill generate -i clients.xlsx -t report.docx -e "Angus" -e "Moray"

  # Generate documents for every entity of the first year
  docfill generate -i clients.xlsx -t report.docx --all

  # List previous generate runs
  docfill history
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(viper.GetString(config.KeyLogLevel))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.docfill.yaml, then ./.docfill.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override: debug|info|warn|error (default: log.level from config)")
	cobra.CheckErr(viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level")))
}

// initConfig reads in the config file if there is one.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".docfill" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".docfill")
	}

	// Defaults cover every key, so running without a config file is fine.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: docfill config create")
	}
}
