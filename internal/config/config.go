// internal/config/config.go
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the optional jamplate.yaml project file.
type Config struct {
	// Roots are directories whose documents may be included by name.
	Roots []string `yaml:"roots"`
	// Definitions are symbols predefined before execution.
	Definitions map[string]string `yaml:"definitions"`
	// Output is the directory processed documents are written to. Empty
	// means stdout.
	Output string `yaml:"output"`
	// Render selects a post-render of the produced text. Supported:
	// "markdown".
	Render string `yaml:"render"`
}

// DefaultFile is the file name looked up in the working directory.
const DefaultFile = "jamplate.yaml"

// Load reads a config file. A missing path yields a zero config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parsing %s", path)
	}
	return &cfg, nil
}
