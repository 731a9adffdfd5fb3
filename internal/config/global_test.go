package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGlobalConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, GlobalConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	return tmpDir
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := GlobalConfigPath()
	want := "/custom/config/citenet/config.yml"
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}

	// Empty XDG_CONFIG_HOME falls back to ~/.config
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	path = GlobalConfigPath()
	want = filepath.Join(home, ".config", "citenet", "config.yml")
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.ProjectPath != "" || cfg.CrossrefMailto != "" {
		t.Errorf("LoadGlobalConfig() = %+v, want empty", cfg)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	writeGlobalConfig(t, "project_path: ~/papers/survey\ncrossref_mailto: me@example.org\n")

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	wantPath := filepath.Join(home, "papers/survey")
	if cfg.ProjectPath != wantPath {
		t.Errorf("ProjectPath = %q, want %q", cfg.ProjectPath, wantPath)
	}
	if cfg.CrossrefMailto != "me@example.org" {
		t.Errorf("CrossrefMailto = %q, want me@example.org", cfg.CrossrefMailto)
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	writeGlobalConfig(t, "project_path: [unclosed\n")

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("LoadGlobalConfig() should return error for invalid YAML")
	}
}

func TestGetCrossrefMailto(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	writeGlobalConfig(t, "crossref_mailto: config@example.org\n")

	t.Setenv(MailtoEnv, "env@example.org")
	if got := GetCrossrefMailto(); got != "env@example.org" {
		t.Errorf("GetCrossrefMailto() = %q, want env@example.org", got)
	}

	t.Setenv(MailtoEnv, "")
	if got := GetCrossrefMailto(); got != "config@example.org" {
		t.Errorf("GetCrossrefMailto() = %q, want config@example.org", got)
	}
}

func TestResolveProject_FallsBackToGlobal(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	project := t.TempDir()
	if err := os.Mkdir(ProjectPath(project), 0755); err != nil {
		t.Fatal(err)
	}
	writeGlobalConfig(t, "project_path: "+project+"\n")

	got, err := ResolveProject(t.TempDir())
	if err != nil {
		t.Fatalf("ResolveProject() error = %v", err)
	}
	if got != project {
		t.Errorf("ResolveProject() = %q, want %q", got, project)
	}
}

func TestGlobalConfigCache(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	tmpDir := writeGlobalConfig(t, "crossref_mailto: first@example.org\n")
	configFile := filepath.Join(tmpDir, GlobalConfigDir, GlobalConfigFile)

	cfg1, _ := LoadGlobalConfig()
	if cfg1.CrossrefMailto != "first@example.org" {
		t.Errorf("First load: CrossrefMailto = %q", cfg1.CrossrefMailto)
	}

	os.WriteFile(configFile, []byte("crossref_mailto: second@example.org\n"), 0644)

	// Second load should return cached value
	cfg2, _ := LoadGlobalConfig()
	if cfg2.CrossrefMailto != "first@example.org" {
		t.Errorf("Second load: CrossrefMailto = %q, want cached value", cfg2.CrossrefMailto)
	}

	ResetGlobalConfigCache()

	cfg3, _ := LoadGlobalConfig()
	if cfg3.CrossrefMailto != "second@example.org" {
		t.Errorf("Third load: CrossrefMailto = %q, want second@example.org", cfg3.CrossrefMailto)
	}
}

func TestHelpfulConfigMessage(t *testing.T) {
	msg := HelpfulConfigMessage()
	if len(msg) < 50 {
		t.Errorf("HelpfulConfigMessage() seems too short: %q", msg)
	}
}
