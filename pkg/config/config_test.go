package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (c *testConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("CUPPA_TEST_NAME", "espresso")
	path := writeFile(t, "name: ${CUPPA_TEST_NAME}\nport: 9000\n")

	cfg := testConfig{Port: 1}
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "espresso" || cfg.Port != 9000 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_KeepsDefaults(t *testing.T) {
	path := writeFile(t, "name: latte\n")
	cfg := testConfig{Port: 8080}
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want default 8080", cfg.Port)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeFile(t, "port: 0\n")
	var cfg testConfig
	err := Load(path, &cfg)
	if err == nil || !strings.Contains(err.Error(), "config validation failed") {
		t.Errorf("err = %v, want validation failure", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeFile(t, "port: [\n")
	cfg := testConfig{Port: 1}
	if err := Load(path, &cfg); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadOptional_Missing(t *testing.T) {
	cfg := testConfig{Port: 8080}
	loaded, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	if err != nil || loaded {
		t.Errorf("LoadOptional = %v, %v", loaded, err)
	}

	bad := testConfig{}
	if _, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &bad); err == nil {
		t.Error("defaults should still be validated")
	}
}

func TestLoadOptional_Present(t *testing.T) {
	path := writeFile(t, "port: 7000\n")
	cfg := testConfig{Port: 1}
	loaded, err := LoadOptional(path, &cfg)
	if err != nil || !loaded || cfg.Port != 7000 {
		t.Errorf("LoadOptional = %v, %v, cfg %+v", loaded, err, cfg)
	}
}
