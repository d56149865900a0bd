package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/valtio-lab/finsight/pkg/domain/model/errs"
	"gopkg.in/yaml.v3"
)

// Config describes the single financial data table the converter targets:
// where it lives in BigQuery and its ordered field list. Field order is
// preserved and determines rendering order in the prompt.
type Config struct {
	Table  TableConfig `yaml:"table"`
	Fields []Field     `yaml:"fields"`
}

// TableConfig identifies a BigQuery table.
type TableConfig struct {
	ProjectID   string `yaml:"project_id"`
	DatasetID   string `yaml:"dataset_id"`
	TableID     string `yaml:"table_id"`
	Description string `yaml:"description,omitempty"`
}

// FQN returns the fully qualified table name without quoting.
func (t TableConfig) FQN() string {
	return strings.Join([]string{t.ProjectID, t.DatasetID, t.TableID}, ".")
}

// Field is one column of the table schema.
type Field struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Mode        string `yaml:"mode,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// PromptLine renders the field as a schema listing line for the prompt.
// The description part is omitted entirely when absent.
func (f Field) PromptLine() string {
	if f.Description == "" {
		return fmt.Sprintf("- %s (%s)", f.Name, f.Type)
	}
	return fmt.Sprintf("- %s (%s): %s", f.Name, f.Type, f.Description)
}

// Load reads a schema configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read schema config", goerr.V("path", path))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal schema config", goerr.V("path", path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the table identifier and field list are populated.
func (c *Config) Validate() error {
	if c.Table.ProjectID == "" || c.Table.DatasetID == "" || c.Table.TableID == "" {
		return goerr.New("table identifier is incomplete",
			goerr.T(errs.TagValidation),
			goerr.V("table", c.Table))
	}
	if len(c.Fields) == 0 {
		return goerr.New("schema has no fields", goerr.T(errs.TagValidation))
	}
	for _, f := range c.Fields {
		if f.Name == "" || f.Type == "" {
			return goerr.New("schema field requires name and type",
				goerr.T(errs.TagValidation),
				goerr.V("field", f))
		}
	}
	return nil
}

// Listing renders the whole field list for the prompt, one line per field,
// in config order.
func (c *Config) Listing() string {
	lines := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		lines = append(lines, f.PromptLine())
	}
	return strings.Join(lines, "\n")
}
