package config

import (
	"bytes"
	"fmt"
	"strings"

	"docfill/doctemplate"
	"docfill/extract"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeySourceAnchorLabels    = "source.anchor_labels"
	KeySourceEndMarkers      = "source.end_markers"
	KeySourceMaxAnchorColumn = "source.max_anchor_column"
	KeySourceMaxAnchorRow    = "source.max_anchor_row"
	KeyTemplateTitleStyle    = "template.title_style"
	KeyTemplateCellStyle     = "template.cell_style"
	KeyTemplateApplyCell     = "template.apply_cell_style"
	KeyOutputDir             = "output.dir"
	KeyHistoryEnabled        = "history.enabled"
	KeyHistoryDBPath         = "history.db_path"
	KeyLogLevel              = "log.level"
)

type Config struct {
	Source   SourceConfig   `mapstructure:"source" validate:"required"`
	Template TemplateConfig `mapstructure:"template" validate:"required"`
	Output   OutputConfig   `mapstructure:"output" validate:"required"`
	History  HistoryConfig  `mapstructure:"history"`
	Log      LogConfig      `mapstructure:"log"`
}

type SourceConfig struct {
	AnchorLabels    []string `mapstructure:"anchor_labels" validate:"required,min=1"`
	EndMarkers      []string `mapstructure:"end_markers" validate:"required,min=1"`
	MaxAnchorColumn int      `mapstructure:"max_anchor_column" validate:"min=1"`
	MaxAnchorRow    int      `mapstructure:"max_anchor_row" validate:"min=1"`
}

type TemplateConfig struct {
	TitleStyle     StyleConfig `mapstructure:"title_style"`
	CellStyle      StyleConfig `mapstructure:"cell_style"`
	ApplyCellStyle bool        `mapstructure:"apply_cell_style"`
}

type StyleConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	Font string `mapstructure:"font"`
	Size int    `mapstructure:"size" validate:"min=1,max=400"`
	Bold bool   `mapstructure:"bold"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path" validate:"required_if=Enabled true"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Locator builds the region locator described by the source settings.
func (c *Config) Locator() extract.Locator {
	return extract.Locator{
		AnchorLabels:   trimAll(c.Source.AnchorLabels),
		EndMarkers:     trimAll(c.Source.EndMarkers),
		MaxStartColumn: c.Source.MaxAnchorColumn,
		MaxStartRow:    c.Source.MaxAnchorRow,
	}
}

func (c *Config) TemplateOptions() doctemplate.Options {
	return doctemplate.Options{
		TitleStyle:     c.Template.TitleStyle.style(),
		CellStyle:      c.Template.CellStyle.style(),
		ApplyCellStyle: c.Template.ApplyCellStyle,
	}
}

func (s StyleConfig) style() doctemplate.Style {
	return doctemplate.Style{Name: s.Name, Font: s.Font, Size: s.Size, Bold: s.Bold}
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# docfill configuration
source:
  # Text of the top-left cell of each year's table.
  anchor_labels: ["Constituency", "Local Authority"]
  # Anchor-column text of the row that closes a table.
  end_markers: ["Total Clients", "All Constituents"]
  max_anchor_column: 8
  max_anchor_row: 16

template:
  title_style:
    name: "Title"
    font: "Arial"
    size: 18
    bold: true
  cell_style:
    name: "CellStyle"
    font: "Arial"
    size: 16
    bold: false
  apply_cell_style: true

output:
  dir: "Constituencies"

history:
  enabled: true
  db_path: "./docfill.db"

log:
  level: "info"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateLabels("source.anchor_labels", cfg.Source.AnchorLabels); err != nil {
		return nil, err
	}
	if err := validateLabels("source.end_markers", cfg.Source.EndMarkers); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := extract.DefaultLocator()
	v.SetDefault(KeySourceAnchorLabels, def.AnchorLabels)
	v.SetDefault(KeySourceEndMarkers, def.EndMarkers)
	v.SetDefault(KeySourceMaxAnchorColumn, def.MaxStartColumn)
	v.SetDefault(KeySourceMaxAnchorRow, def.MaxStartRow)

	opts := doctemplate.DefaultOptions()
	setStyleDefaults(v, KeyTemplateTitleStyle, opts.TitleStyle)
	setStyleDefaults(v, KeyTemplateCellStyle, opts.CellStyle)
	v.SetDefault(KeyTemplateApplyCell, opts.ApplyCellStyle)

	v.SetDefault(KeyOutputDir, "Constituencies")
	v.SetDefault(KeyHistoryEnabled, true)
	v.SetDefault(KeyHistoryDBPath, "./docfill.db")
	v.SetDefault(KeyLogLevel, "info")
}

func setStyleDefaults(v *viper.Viper, key string, s doctemplate.Style) {
	v.SetDefault(key+".name", s.Name)
	v.SetDefault(key+".font", s.Font)
	v.SetDefault(key+".size", s.Size)
	v.SetDefault(key+".bold", s.Bold)
}

func validateLabels(key string, labels []string) error {
	seen := make(map[string]struct{}, len(labels))
	for i, label := range labels {
		trimmed := strings.TrimSpace(label)
		if trimmed == "" {
			return fmt.Errorf("validation failed: %s[%d] must not be blank", key, i)
		}
		if _, exists := seen[trimmed]; exists {
			return fmt.Errorf("validation failed: duplicate %s entry %q", key, trimmed)
		}
		seen[trimmed] = struct{}{}
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, strings.TrimSpace(value))
	}
	return out
}
