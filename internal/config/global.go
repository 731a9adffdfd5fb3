package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/citenet/config.yml.
type GlobalConfig struct {
	ProjectPath    string `yaml:"project_path,omitempty"`    // Default project when not inside one
	CrossrefMailto string `yaml:"crossref_mailto,omitempty"` // Contact address for the CrossRef polite pool
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "citenet"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// MailtoEnv overrides crossref_mailto.
	MailtoEnv = "CROSSREF_MAILTO"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/citenet/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.ProjectPath != "" {
		cfg.ProjectPath = ExpandPath(cfg.ProjectPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetCrossrefMailto returns the CrossRef contact address. The environment
// variable wins over the global config.
func GetCrossrefMailto() string {
	if v := os.Getenv(MailtoEnv); v != "" {
		return v
	}
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.CrossrefMailto
}

// ResolveProject finds the project containing start, falling back to the
// global project_path.
func ResolveProject(start string) (string, error) {
	root, err := FindProject(start)
	if err == nil {
		return root, nil
	}
	cfg, gerr := LoadGlobalConfig()
	if gerr != nil {
		return "", gerr
	}
	if cfg.ProjectPath != "" && IsProject(cfg.ProjectPath) {
		return cfg.ProjectPath, nil
	}
	return "", err
}

// HelpfulConfigMessage returns a helpful message when no project is found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No citenet project found.

Run 'citenet init' in your working directory, or set a default project in %s:
  mkdir -p %s
  echo 'project_path: /path/to/project' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
