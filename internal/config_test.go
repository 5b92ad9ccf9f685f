package internal

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStoreConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StoreConfig
		wantErr bool
	}{
		{"file", StoreConfig{Driver: "file", Path: "cuppa.json"}, false},
		{"sqlite", StoreConfig{Driver: "sqlite", Path: "cuppa.db"}, false},
		{"bolt", StoreConfig{Driver: "bolt", Path: "cuppa.bolt"}, false},
		{"memory without path", StoreConfig{Driver: "memory"}, false},
		{"file without path", StoreConfig{Driver: "file"}, true},
		{"unknown driver", StoreConfig{Driver: "redis", Path: "x"}, true},
		{"no driver", StoreConfig{Path: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrackerConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TrackerConfig
		wantErr bool
	}{
		{"defaults", TrackerConfig{}, false},
		{"scalar", TrackerConfig{Schema: "scalar", Timezone: "UTC"}, false},
		{"bad schema", TrackerConfig{Schema: "tree"}, true},
		{"bad timezone", TrackerConfig{Timezone: "Mars/Olympus_Mons"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrackerConfig_Location(t *testing.T) {
	cfg := TrackerConfig{Timezone: "UTC"}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("Location = %v, %v", loc, err)
	}
	cfg.Timezone = ""
	if loc, _ := cfg.Location(); loc != time.Local {
		t.Errorf("empty timezone = %v, want Local", loc)
	}
}

func TestSSEConfig_NegativeThrottle(t *testing.T) {
	cfg := SSEConfig{StatsThrottle: -time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("negative throttle should fail")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
