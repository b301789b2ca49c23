package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Language defaults mirror the backend's own vocabulary; identifiers are
	// free-form strings the backend matches itself.
	DefaultSourceLanguage = "English"
	DefaultTargetLanguage = "Western Persian"

	// DefaultBackendURL is the public NLLB translation space.
	DefaultBackendURL = "https://unesco-nllb.hf.space"

	// DefaultFontPath is a widely available font with broad glyph coverage.
	DefaultFontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the PDF translation MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Translation configuration
	SourceLanguage string
	TargetLanguage string
	BackendURL     string
	BackendToken   string
	FontPath       string

	// OutputDirectory receives translated documents when callers do not name
	// an explicit output path.
	OutputDirectory string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio, // Default to stdio mode for MCP compatibility
		Host:            DefaultHost,
		Port:            DefaultPort,
		SourceLanguage:  DefaultSourceLanguage,
		TargetLanguage:  DefaultTargetLanguage,
		BackendURL:      DefaultBackendURL,
		BackendToken:    "",
		FontPath:        DefaultFontPath,
		OutputDirectory: filepath.Join(currentDir, "translated"),
		Version:         "1.0.0",
		ServerName:      "mcp-pdf-translator",
		LogLevel:        DefaultLogLevel,
		MaxFileSize:     DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.OutputDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.OutputDirectory); err == nil {
			cfg.OutputDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("MCP_PDF_TRANSLATOR")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("srclang", cfg.SourceLanguage)
	viper.SetDefault("tgtlang", cfg.TargetLanguage)
	viper.SetDefault("backend", cfg.BackendURL)
	viper.SetDefault("token", cfg.BackendToken)
	viper.SetDefault("font", cfg.FontPath)
	viper.SetDefault("outdir", cfg.OutputDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("srclang", cfg.SourceLanguage, "Source language name as understood by the translation backend")
	pflag.String("tgtlang", cfg.TargetLanguage, "Target language name as understood by the translation backend")
	pflag.String("backend", cfg.BackendURL, "Base URL of the translation backend")
	pflag.String("token", cfg.BackendToken, "Optional bearer token for the translation backend")
	pflag.String("font", cfg.FontPath, "Path to a TTF/OTF font covering the target script")
	pflag.String("outdir", cfg.OutputDirectory, "Directory for translated documents")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("srclang", pflag.Lookup("srclang"))
	_ = viper.BindPFlag("tgtlang", pflag.Lookup("tgtlang"))
	_ = viper.BindPFlag("backend", pflag.Lookup("backend"))
	_ = viper.BindPFlag("token", pflag.Lookup("token"))
	_ = viper.BindPFlag("font", pflag.Lookup("font"))
	_ = viper.BindPFlag("outdir", pflag.Lookup("outdir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP PDF Translator - A Model Context Protocol server that translates PDF files while preserving layout\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                            "+
			"# stdio mode, English -> Western Persian (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --srclang=English --tgtlang=Arabic         "+
			"# stdio mode with a custom language pair\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --font=/fonts/Vazirmatn.ttf                # custom target-script font\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081   # server on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_TRANSLATOR_MODE        Server mode\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_TRANSLATOR_HOST        Server host\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_TRANSLATOR_PORT        Server port\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_TRANSLATOR_SRCLANG     Source language\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_TRANSLATOR_TGTLANG     Target language\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_TRANSLATOR_BACKEND     Translation backend URL\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_TRANSLATOR_TOKEN       Backend bearer token\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_TRANSLATOR_FONT        Target-script font path\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_TRANSLATOR_OUTDIR      Output directory\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_TRANSLATOR_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_TRANSLATOR_MAXFILESIZE Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.SourceLanguage = viper.GetString("srclang")
	cfg.TargetLanguage = viper.GetString("tgtlang")
	cfg.BackendURL = viper.GetString("backend")
	cfg.BackendToken = viper.GetString("token")
	cfg.FontPath = viper.GetString("font")
	cfg.OutputDirectory = viper.GetString("outdir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate language pair
	if c.SourceLanguage == "" {
		return errors.New("source language cannot be empty")
	}
	if c.TargetLanguage == "" {
		return errors.New("target language cannot be empty")
	}

	// Validate backend URL
	if c.BackendURL == "" {
		return errors.New("backend URL cannot be empty")
	}

	// Validate font path (existence is checked again right before
	// reconstruction; an empty value is always wrong)
	if c.FontPath == "" {
		return errors.New("font path cannot be empty")
	}

	// Check if output directory exists, create if it doesn't
	if c.OutputDirectory == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDirectory, err)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, SourceLanguage: %s, TargetLanguage: %s, Backend: %s, Font: %s, OutputDirectory: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.SourceLanguage, c.TargetLanguage, c.BackendURL, c.FontPath, c.OutputDirectory, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
