package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Source    SourceConfig  `yaml:"source"`
	Output    OutputConfig  `yaml:"output"`
	Site      SiteConfig    `yaml:"site"`
	Languages []Language    `yaml:"languages,omitempty"`
	Convert   ConvertConfig `yaml:"convert"`
	Logging   LoggingConfig `yaml:"logging"`
}

// SourceConfig locates the PukiWiki data tree.
type SourceConfig struct {
	Directory string `yaml:"directory"`
	AttachDir string `yaml:"attach_dir,omitempty"` // relative to Directory
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	ImageDir  string `yaml:"image_dir,omitempty"` // relative to Directory
}

// SiteConfig controls the emitted MkDocs site configuration.
type SiteConfig struct {
	Name           string `yaml:"name,omitempty"`
	GenerateConfig bool   `yaml:"generate_config"`
}

// Language maps a language code to the wiki subtree holding its pages.
// The language marked Default (or the first entry) is the site default whose
// output paths carry no language prefix.
type Language struct {
	Name    string `yaml:"name"`
	WikiDir string `yaml:"wiki_dir,omitempty"` // relative to Source.Directory
	Default bool   `yaml:"default,omitempty"`
}

// ConvertConfig tunes the markup conversion itself.
type ConvertConfig struct {
	LinkStyle string   `yaml:"link_style,omitempty"` // "root" or "nested"
	Encoding  string   `yaml:"encoding,omitempty"`   // force source encoding, skip detection
	FrontPage string   `yaml:"front_page,omitempty"` // source name mapped to "index"
	SkipPages []string `yaml:"skip_pages,omitempty"` // source names never converted
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env if present; existing process variables win.
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment variables from .env")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns the configuration written by the init command.
func Default() *Config {
	cfg := &Config{
		Source: SourceConfig{Directory: "./htdocs"},
		Output: OutputConfig{Directory: "./docs"},
		Site:   SiteConfig{Name: "Migrated Documentation", GenerateConfig: true},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Source.AttachDir == "" {
		c.Source.AttachDir = "ja/attach"
	}
	if c.Output.ImageDir == "" {
		c.Output.ImageDir = "assets/images"
	}
	if c.Site.Name == "" {
		c.Site.Name = "Migrated Documentation"
	}
	if len(c.Languages) == 0 {
		c.Languages = []Language{
			{Name: "ja", WikiDir: "ja/wiki", Default: true},
			{Name: "en", WikiDir: "ja/wiki.en"},
		}
	}
	for i := range c.Languages {
		if c.Languages[i].WikiDir == "" {
			c.Languages[i].WikiDir = "ja/wiki." + c.Languages[i].Name
		}
	}
	if c.Convert.LinkStyle == "" {
		c.Convert.LinkStyle = string(LinkStyleRoot)
	}
	if c.Convert.FrontPage == "" {
		c.Convert.FrontPage = "FrontPage"
	}
	if len(c.Convert.SkipPages) == 0 {
		c.Convert.SkipPages = []string{"FormatRule"}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = string(LogLevelInfo)
	}
	if c.Logging.Format == "" {
		c.Logging.Format = string(LogFormatText)
	}
}

// Validate checks invariants the walker and pipeline rely on.
func (c *Config) Validate() error {
	if c.Source.Directory == "" {
		return fmt.Errorf("source.directory is required")
	}
	if c.Output.Directory == "" {
		return fmt.Errorf("output.directory is required")
	}
	defaults := 0
	seen := make(map[string]bool)
	for _, l := range c.Languages {
		if l.Name == "" {
			return fmt.Errorf("language entry without a name")
		}
		if seen[l.Name] {
			return fmt.Errorf("duplicate language %q", l.Name)
		}
		seen[l.Name] = true
		if l.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("at most one language may be marked default")
	}
	return nil
}

// DefaultLanguage returns the language whose output paths omit the language
// segment. With no explicit default, the first configured language wins.
func (c *Config) DefaultLanguage() string {
	for _, l := range c.Languages {
		if l.Default {
			return l.Name
		}
	}
	if len(c.Languages) > 0 {
		return c.Languages[0].Name
	}
	return "ja"
}
