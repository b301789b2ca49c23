package config

import (
	"os"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test default values
	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.SourceLanguage != "English" {
		t.Errorf("Expected default source language to be 'English', got '%s'", cfg.SourceLanguage)
	}

	if cfg.TargetLanguage != "Western Persian" {
		t.Errorf("Expected default target language to be 'Western Persian', got '%s'", cfg.TargetLanguage)
	}

	if cfg.BackendURL == "" {
		t.Errorf("Expected a default backend URL")
	}

	if cfg.FontPath == "" {
		t.Errorf("Expected a default font path")
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.ServerName != "mcp-pdf-translator" {
		t.Errorf("Expected default server name to be 'mcp-pdf-translator', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	// Test that the output directory defaults beneath the working directory
	currentDir, _ := os.Getwd()
	if !strings.HasPrefix(cfg.OutputDirectory, currentDir) {
		t.Errorf("Expected default output directory under '%s', got '%s'", currentDir, cfg.OutputDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	// baseConfig returns a valid config backed by a fresh temp directory.
	baseConfig := func(t *testing.T) *Config {
		t.Helper()
		tempDir, err := os.MkdirTemp("", "pdf-translator-test-*")
		if err != nil {
			t.Fatalf("Failed to create temp dir: %v", err)
		}
		t.Cleanup(func() { os.RemoveAll(tempDir) })

		return &Config{
			Mode:            "stdio",
			Host:            "127.0.0.1",
			Port:            8080,
			SourceLanguage:  "English",
			TargetLanguage:  "Western Persian",
			BackendURL:      "https://example.test",
			FontPath:        "/tmp/font.ttf",
			OutputDirectory: tempDir,
			LogLevel:        "info",
			MaxFileSize:     1024,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config - stdio mode",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "valid config - server mode",
			mutate:  func(c *Config) { c.Mode = "server" },
			wantErr: false,
		},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Mode = "invalid" },
			wantErr: true,
		},
		{
			name: "invalid port - too low (server mode)",
			mutate: func(c *Config) {
				c.Mode = "server"
				c.Port = 0
			},
			wantErr: true,
		},
		{
			name: "invalid port - too high (server mode)",
			mutate: func(c *Config) {
				c.Mode = "server"
				c.Port = 70000
			},
			wantErr: true,
		},
		{
			name:    "invalid port ignored in stdio mode",
			mutate:  func(c *Config) { c.Port = 0 },
			wantErr: false,
		},
		{
			name:    "empty source language",
			mutate:  func(c *Config) { c.SourceLanguage = "" },
			wantErr: true,
		},
		{
			name:    "empty target language",
			mutate:  func(c *Config) { c.TargetLanguage = "" },
			wantErr: true,
		},
		{
			name:    "empty backend URL",
			mutate:  func(c *Config) { c.BackendURL = "" },
			wantErr: true,
		},
		{
			name:    "empty font path",
			mutate:  func(c *Config) { c.FontPath = "" },
			wantErr: true,
		},
		{
			name:    "empty output directory",
			mutate:  func(c *Config) { c.OutputDirectory = "" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "invalid" },
			wantErr: true,
		},
		{
			name:    "invalid max file size",
			mutate:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateCreatesOutputDirectory(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "pdf-translator-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cfg := DefaultConfig()
	cfg.OutputDirectory = tempDir + "/not/yet/created"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v", err)
	}

	info, err := os.Stat(cfg.OutputDirectory)
	if err != nil {
		t.Fatalf("Expected output directory to be created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("Expected output directory to be a directory")
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{
		Host: "192.168.1.1",
		Port: 9090,
	}

	expected := "192.168.1.1:9090"
	if got := cfg.Address(); got != expected {
		t.Errorf("Config.Address() = %v, want %v", got, expected)
	}
}

func TestConfigIsDebug(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     bool
	}{
		{
			name:     "debug level",
			logLevel: "debug",
			want:     true,
		},
		{
			name:     "info level",
			logLevel: "info",
			want:     false,
		},
		{
			name:     "error level",
			logLevel: "error",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			if got := cfg.IsDebug(); got != tt.want {
				t.Errorf("Config.IsDebug() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigModeHelpers(t *testing.T) {
	stdio := &Config{Mode: "stdio"}
	if !stdio.IsStdioMode() || stdio.IsServerMode() {
		t.Errorf("Expected stdio mode helpers to report stdio")
	}

	server := &Config{Mode: "server"}
	if !server.IsServerMode() || server.IsStdioMode() {
		t.Errorf("Expected server mode helpers to report server")
	}
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.String()

	for _, want := range []string{"stdio", "English", "Western Persian"} {
		if !strings.Contains(s, want) {
			t.Errorf("Config.String() missing %q: %s", want, s)
		}
	}
}
