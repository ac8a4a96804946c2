package errai

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/errai-ls/markup"
)

// ConfigFile is looked up in the project root.
const ConfigFile = ".errai-ls.yaml"

type Config struct {
	DataFieldAttribute string   `yaml:"dataFieldAttribute"`
	TemplateExtension  string   `yaml:"templateExtension"`
	PropertiesFile     string   `yaml:"propertiesFile"`
	BindableTypes      []string `yaml:"bindableTypes"`
	Exclude            []string `yaml:"exclude"`
}

// Init applies defaults.
func (c *Config) Init() {
	if c.DataFieldAttribute == "" {
		c.DataFieldAttribute = markup.DefaultFieldAttribute
	}
	if c.TemplateExtension == "" {
		c.TemplateExtension = ".html"
	}
	if c.PropertiesFile == "" {
		c.PropertiesFile = "ErraiApp.properties"
	}
	if len(c.Exclude) == 0 {
		c.Exclude = []string{".git", "target", "build", "node_modules"}
	}
}

// IsExcluded reports whether a directory with the given base name is skipped
// while scanning.
func (c *Config) IsExcluded(dir string) bool {
	for _, e := range c.Exclude {
		if e == dir {
			return true
		}
	}
	return false
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	c := &Config{}
	c.Init()
	return c
}

// LoadConfig reads the configuration at URL. A missing file yields the
// defaults.
func LoadConfig(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	ok, err := fs.Exists(ctx, URL)
	if err != nil || !ok {
		return DefaultConfig(), nil
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", URL, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", URL, err)
	}
	cfg.Init()
	return cfg, nil
}
