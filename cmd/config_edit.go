package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"docfill/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active docfill config file in your editor ($VISUAL, then $EDITOR, then vi).

A missing config file is created from the example first. After the editor exits the file
is validated. An invalid edit is kept next to the config as <file>.rejected and the
previous content is restored, so generate keeps working with the last valid config.`,
	Example: `
  # Edit active config
  docfill config edit

  # Edit with a specific editor
  EDITOR="code --wait" docfill config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		editor := resolveEditorValue(os.Getenv("VISUAL"), os.Getenv("EDITOR"))
		return editConfigFile(configPath, func(path string) error {
			editorCommand, err := buildEditorCommand(editor, path)
			if err != nil {
				return err
			}
			editorCommand.Stdin = os.Stdin
			editorCommand.Stdout = os.Stdout
			editorCommand.Stderr = os.Stderr
			return editorCommand.Run()
		}, os.Stdout)
	},
}

// editConfigFile runs edit on path and validates the result. A rejected edit
// is moved to path+".rejected" and the previous content is written back.
func editConfigFile(path string, edit func(path string) error, out io.Writer) error {
	created, err := ensureConfigFileWithTemplate(path)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "No config file found. Created example config at: %s\n", path)
	}

	previous, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config before edit: %w", err)
	}

	if err := edit(path); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read edited config: %w", err)
	}
	cfg, validationErr := config.ValidateYAMLContent(edited)
	if validationErr != nil {
		rejected := path + ".rejected"
		if err := os.WriteFile(rejected, edited, 0o600); err != nil {
			return errors.Join(validationErr, fmt.Errorf("keep rejected config: %w", err))
		}
		if err := os.WriteFile(path, previous, 0o600); err != nil {
			return errors.Join(validationErr, fmt.Errorf("restore config: %w", err))
		}
		return fmt.Errorf("config validation failed, previous config restored and edit kept in %s: %w", rejected, validationErr)
	}

	fmt.Fprintf(out, "Configuration saved and validated: %s\n", path)
	fmt.Fprintf(out, "Tables start at: %s\n", strings.Join(cfg.Source.AnchorLabels, ", "))
	fmt.Fprintf(out, "Tables end at: %s\n", strings.Join(cfg.Source.EndMarkers, ", "))
	return nil
}

func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	for _, candidate := range []string{configFileFlag, configFileUsed} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".docfill.yaml"), nil
}

// ensureConfigFileWithTemplate writes the example config to path unless a
// file is already there. It reports whether a file was created.
func ensureConfigFileWithTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("write example config: %w", err)
	}
	return true, nil
}

func resolveEditorValue(visual, editor string) string {
	for _, candidate := range []string{visual, editor} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

func buildEditorCommand(editorValue, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(editorValue)
	if len(fields) == 0 {
		return nil, errors.New("editor command is empty")
	}
	return exec.Command(fields[0], append(fields[1:], configPath)...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
