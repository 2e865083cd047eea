// Package config loads the CLI's TOML configuration. The engine itself
// takes explicit parameters; configuration only selects defaults for the
// command line tool.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/zugzugs/nbflat/internal/notebook"
)

// LanguageStyle overrides the comment style used for a language when
// rendering markers and markup wrappers.
type LanguageStyle struct {
	Line       string `toml:"line"`
	BlockStart string `toml:"block_start"`
	BlockEnd   string `toml:"block_end"`
}

// Config is the CLI configuration schema.
type Config struct {
	// Dialect selects the flattening dialect: "text" or "xml".
	Dialect string `toml:"dialect"`

	// DefaultLanguage is used for notebooks with no kernel language.
	DefaultLanguage string `toml:"default_language"`

	// Languages overrides comment styles per language id.
	Languages map[string]LanguageStyle `toml:"languages"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Dialect:         "text",
		DefaultLanguage: "python",
	}
}

// Load reads configuration from a TOML file, layered over the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Apply installs the configured language style overrides.
func (c Config) Apply() {
	for language, style := range c.Languages {
		notebook.RegisterStyle(language, notebook.CommentStyle{
			Line:       style.Line,
			BlockStart: style.BlockStart,
			BlockEnd:   style.BlockEnd,
		})
	}
}
