package edgar

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Thresholds are the tunable heuristics of the engine.
type Thresholds struct {
	// MinDistinctRatio drops a data column whose distinct-value count is
	// below this fraction of the row count (repeated "$" or ")" columns).
	MinDistinctRatio float64 `yaml:"min_distinct_ratio"`
	// MaxHeadingLength bounds the text length of a heading candidate.
	MaxHeadingLength int `yaml:"max_heading_length"`
	// MaxHeaderRows is the deepest header the column reconciler flattens.
	MaxHeaderRows int `yaml:"max_header_rows"`
	// IndexWindow is how many non-blank lines after a page break an INDEX
	// marker may appear on and still open a table of contents.
	IndexWindow int `yaml:"index_window"`
	// MaxStartCandidates bounds how many start anchors a structured
	// locator tries before giving up on finding a table.
	MaxStartCandidates int `yaml:"max_start_candidates"`
}

// DefaultThresholds returns the built-in heuristics.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinDistinctRatio:   1.0 / 3.0,
		MaxHeadingLength:   200,
		MaxHeaderRows:      3,
		IndexWindow:        3,
		MaxStartCandidates: 5,
	}
}

// KindOverride extends a kind's built-in row rules.
type KindOverride struct {
	StopLabels  []string `yaml:"stop_labels"`
	DiscardFrom []string `yaml:"discard_from"`
	Joins       []string `yaml:"joins"`
	Categories  []string `yaml:"categories"`
	Footers     []string `yaml:"footers"`
}

// Config bundles thresholds and per-kind overrides.
type Config struct {
	Thresholds Thresholds              `yaml:"thresholds"`
	Kinds      map[string]KindOverride `yaml:"kinds"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{Thresholds: DefaultThresholds()}
}

// LoadConfig reads a YAML override file on top of DefaultConfig. Keys
// absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	for name := range cfg.Kinds {
		if _, err := ParseKind(name); err != nil {
			return cfg, fmt.Errorf("rules file %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Rules returns the rule table for kind with any overrides applied.
func (c Config) Rules(kind StatementKind) KindRules {
	r := rulesFor(kind)
	if o, ok := c.Kinds[kind.String()]; ok {
		r.StopLabels = append(append([]string{}, r.StopLabels...), o.StopLabels...)
		r.DiscardFrom = append(append([]string{}, r.DiscardFrom...), o.DiscardFrom...)
		r.Joins = append(append([]string{}, r.Joins...), o.Joins...)
		r.Categories = append(append([]string{}, r.Categories...), o.Categories...)
		r.Footers = append(append([]string{}, r.Footers...), o.Footers...)
	}
	return r
}
