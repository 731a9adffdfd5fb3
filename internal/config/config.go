// Package config handles project and global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/matsen/citenet/internal/analysis"
	"github.com/matsen/citenet/internal/centrality"
	"github.com/matsen/citenet/internal/cooccur"
	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/report"
)

// Config represents project configuration stored in .citenet/config.yml.
// Keys missing from the file keep their defaults.
type Config struct {
	TopKCoCitation   int     `yaml:"top_k_cocitation" json:"top_k_cocitation"`
	TopKCoupling     int     `yaml:"top_k_coupling" json:"top_k_coupling"`
	TopPairs         int     `yaml:"top_pairs" json:"top_pairs"`
	TopN             int     `yaml:"top_n" json:"top_n"`
	MaxIter          int     `yaml:"max_iter" json:"max_iter"`
	Tolerance        float64 `yaml:"tolerance" json:"tolerance"`
	SizeMetric       string  `yaml:"size_metric" json:"size_metric"`
	WeightedClusters bool    `yaml:"weighted_clusters" json:"weighted_clusters"`
	ReferencesColumn string  `yaml:"references_column,omitempty" json:"references_column,omitempty"` // Overrides the references header name
}

const (
	ProjectDir  = ".citenet"
	ConfigFile  = "config.yml"
	RecordsFile = "records.jsonl"
	CacheDir    = "cache"
	DBFile      = "report.db"
)

// ErrUnknownKey is returned by Get and Set for keys Config does not have.
var ErrUnknownKey = errors.New("unknown config key")

// ErrNotProject is returned when no .citenet directory is found.
var ErrNotProject = errors.New("not in a citenet project (no .citenet directory found)")

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TopKCoCitation: network.DefaultTopKCoCitation,
		TopKCoupling:   network.DefaultTopKCoupling,
		TopPairs:       report.DefaultTopPairs,
		TopN:           centrality.DefaultTopN,
		MaxIter:        centrality.DefaultMaxIter,
		Tolerance:      centrality.DefaultTolerance,
		SizeMetric:     report.SizeDegree,
	}
}

// ProjectPath returns the path to the .citenet directory from a root path.
func ProjectPath(root string) string {
	return filepath.Join(root, ProjectDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, ProjectDir, ConfigFile)
}

// RecordsPath returns the path to records.jsonl from a root path.
func RecordsPath(root string) string {
	return filepath.Join(root, ProjectDir, RecordsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, ProjectDir, CacheDir)
}

// DBPath returns the path to report.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, ProjectDir, CacheDir, DBFile)
}

// IsProject checks if the given path contains a citenet project.
func IsProject(root string) bool {
	info, err := os.Stat(ProjectPath(root))
	return err == nil && info.IsDir()
}

// FindProject walks up from the given path to find a citenet project.
// Returns the project root path or ErrNotProject.
func FindProject(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsProject(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotProject
		}
		abs = parent
	}
}

// Load reads configuration from the project at the given root. A missing
// config file yields the defaults.
func Load(root string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to the project at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	for _, f := range []struct {
		key string
		v   int
	}{
		{"top_k_cocitation", c.TopKCoCitation},
		{"top_k_coupling", c.TopKCoupling},
		{"top_pairs", c.TopPairs},
		{"top_n", c.TopN},
		{"max_iter", c.MaxIter},
	} {
		if f.v < 1 {
			return fmt.Errorf("invalid %s: %d (must be at least 1)", f.key, f.v)
		}
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("invalid tolerance: %g (must be positive)", c.Tolerance)
	}
	return report.ValidateSizeMetric(c.SizeMetric)
}

// Options returns the analysis options for a mode, seeded from this config.
func (c *Config) Options(mode cooccur.Mode) analysis.Options {
	opts := analysis.DefaultOptions(mode)
	opts.TopK = c.TopKCoCitation
	if mode == cooccur.ModeCoupling {
		opts.TopK = c.TopKCoupling
	}
	opts.TopPairs = c.TopPairs
	opts.TopN = c.TopN
	opts.MaxIter = c.MaxIter
	opts.Tolerance = c.Tolerance
	opts.SizeMetric = c.SizeMetric
	opts.WeightedClusters = c.WeightedClusters
	return opts
}

type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func intField(p func(c *Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*p(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("not an integer: %q", v)
			}
			*p(c) = n
			return nil
		},
	}
}

var fields = map[string]field{
	"top_k_cocitation": intField(func(c *Config) *int { return &c.TopKCoCitation }),
	"top_k_coupling":   intField(func(c *Config) *int { return &c.TopKCoupling }),
	"top_pairs":        intField(func(c *Config) *int { return &c.TopPairs }),
	"top_n":            intField(func(c *Config) *int { return &c.TopN }),
	"max_iter":         intField(func(c *Config) *int { return &c.MaxIter }),
	"tolerance": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Tolerance, 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("not a number: %q", v)
			}
			c.Tolerance = f
			return nil
		},
	},
	"size_metric": {
		get: func(c *Config) string { return c.SizeMetric },
		set: func(c *Config, v string) error { c.SizeMetric = v; return nil },
	},
	"weighted_clusters": {
		get: func(c *Config) string { return strconv.FormatBool(c.WeightedClusters) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("not a boolean: %q", v)
			}
			c.WeightedClusters = b
			return nil
		},
	},
	"references_column": {
		get: func(c *Config) string { return c.ReferencesColumn },
		set: func(c *Config, v string) error { c.ReferencesColumn = v; return nil },
	},
}

// Keys lists the settable configuration keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a key formatted as a string.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// Set parses and assigns a key, then validates the result. On error the
// config is left unchanged.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	next := *c
	if err := f.set(&next, value); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
