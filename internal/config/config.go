// Package config provides configuration management for the Flashkick agent.
// Configuration is built from defaults, an optional YAML file and environment
// variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Default values
	DefaultPort       = 8788
	DefaultLogLevel   = "info"
	DefaultDataDir    = ".flashkick"
	DefaultLinkPath   = "/upload-link"
	DefaultUploadPath = "/upload-video"

	// 1.5 GiB, the backend's request size limit
	DefaultMaxUploadBytes = 3 * 512 * 1024 * 1024

	// Environment variable names
	EnvConfigFile        = "FLASHKICK_CONFIG"
	EnvPort              = "FLASHKICK_PORT"
	EnvLogLevel          = "FLASHKICK_LOG_LEVEL"
	EnvDataDir           = "FLASHKICK_DATA_DIR"
	EnvHeadless          = "FLASHKICK_HEADLESS"
	EnvBackendURL        = "FLASHKICK_BACKEND_URL"
	EnvLinkPath          = "FLASHKICK_LINK_PATH"
	EnvUploadPath        = "FLASHKICK_UPLOAD_PATH"
	EnvAllowedExtensions = "FLASHKICK_ALLOWED_EXTENSIONS"
	EnvMaxUploadBytes    = "FLASHKICK_MAX_UPLOAD_BYTES"
	EnvRequestTimeout    = "FLASHKICK_REQUEST_TIMEOUT"

	// Database filename
	DBFilename = "flashkick.db"
)

// BackendURL is the default backend base address. Release builds set it with
// -ldflags "-X github.com/flashkick/flashkick-agent/internal/config.BackendURL=...".
var BackendURL = "http://localhost:5000"

// DefaultAllowedExtensions mirrors the extensions the backend accepts.
var DefaultAllowedExtensions = []string{"mp4", "mkv", "avi"}

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	UploadsDir() string
	Headless() bool
	BackendURL() string
	LinkPath() string
	UploadPath() string
	AllowedExtensions() []string
	MaxUploadBytes() int64
	RequestTimeout() time.Duration
}

// fileConfig is the YAML layout of the optional config file.
type fileConfig struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	DataDir  string `yaml:"data_dir"`
	Headless *bool  `yaml:"headless"`
	Backend  struct {
		URL            string `yaml:"url"`
		LinkPath       string `yaml:"link_path"`
		UploadPath     string `yaml:"upload_path"`
		RequestTimeout string `yaml:"request_timeout"`
	} `yaml:"backend"`
	Upload struct {
		AllowedExtensions []string `yaml:"allowed_extensions"`
		MaxBytes          int64    `yaml:"max_bytes"`
	} `yaml:"upload"`
}

// EnvConfig holds the resolved configuration
type EnvConfig struct {
	port              int
	logLevel          string
	dataDir           string
	headless          bool
	backendURL        string
	linkPath          string
	uploadPath        string
	allowedExtensions []string
	maxUploadBytes    int64
	requestTimeout    time.Duration
}

// New creates a new EnvConfig with defaults, config file and environment overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:              DefaultPort,
		logLevel:          DefaultLogLevel,
		dataDir:           defaultDataDir(),
		backendURL:        BackendURL,
		linkPath:          DefaultLinkPath,
		uploadPath:        DefaultUploadPath,
		allowedExtensions: DefaultAllowedExtensions,
		maxUploadBytes:    DefaultMaxUploadBytes,
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *EnvConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != 0 {
		if err := validatePort(fc.Port); err != nil {
			return fmt.Errorf("invalid port in %s: %w", path, err)
		}
		c.port = fc.Port
	}
	if fc.LogLevel != "" {
		c.logLevel = fc.LogLevel
	}
	if fc.DataDir != "" {
		c.dataDir = fc.DataDir
	}
	if fc.Headless != nil {
		c.headless = *fc.Headless
	}
	if fc.Backend.URL != "" {
		c.backendURL = fc.Backend.URL
	}
	if fc.Backend.LinkPath != "" {
		c.linkPath = fc.Backend.LinkPath
	}
	if fc.Backend.UploadPath != "" {
		c.uploadPath = fc.Backend.UploadPath
	}
	if fc.Backend.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.Backend.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout in %s: %w", path, err)
		}
		c.requestTimeout = d
	}
	if fc.Upload.AllowedExtensions != nil {
		c.allowedExtensions = fc.Upload.AllowedExtensions
	}
	if fc.Upload.MaxBytes != 0 {
		c.maxUploadBytes = fc.Upload.MaxBytes
	}
	return nil
}

func (c *EnvConfig) loadEnv() error {
	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if err := validatePort(port); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		c.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		c.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		c.dataDir = dd
	}

	if h := os.Getenv(EnvHeadless); h != "" {
		headless, err := strconv.ParseBool(h)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		c.headless = headless
	}

	if u := os.Getenv(EnvBackendURL); u != "" {
		c.backendURL = u
	}
	if p := os.Getenv(EnvLinkPath); p != "" {
		c.linkPath = p
	}
	if p := os.Getenv(EnvUploadPath); p != "" {
		c.uploadPath = p
	}

	if exts, ok := os.LookupEnv(EnvAllowedExtensions); ok {
		c.allowedExtensions = splitList(exts)
	}

	if m := os.Getenv(EnvMaxUploadBytes); m != "" {
		maxBytes, err := strconv.ParseInt(m, 10, 64)
		if err != nil || maxBytes < 0 {
			return fmt.Errorf("invalid %s: must be a non-negative integer", EnvMaxUploadBytes)
		}
		c.maxUploadBytes = maxBytes
	}

	if t := os.Getenv(EnvRequestTimeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRequestTimeout, err)
		}
		c.requestTimeout = d
	}

	return nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// SetPort overrides the port for one run (CLI flag).
func (c *EnvConfig) SetPort(port int) error {
	if err := validatePort(port); err != nil {
		return err
	}
	c.port = port
	return nil
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// UploadsDir is where browser uploads are spooled before they are forwarded.
func (c *EnvConfig) UploadsDir() string {
	return filepath.Join(c.dataDir, "uploads")
}

func (c *EnvConfig) Headless() bool {
	return c.headless
}

func (c *EnvConfig) SetHeadless(headless bool) {
	c.headless = headless
}

func (c *EnvConfig) BackendURL() string {
	return c.backendURL
}

func (c *EnvConfig) SetBackendURL(u string) {
	c.backendURL = u
}

func (c *EnvConfig) LinkPath() string {
	return c.linkPath
}

func (c *EnvConfig) UploadPath() string {
	return c.uploadPath
}

func (c *EnvConfig) AllowedExtensions() []string {
	return append([]string(nil), c.allowedExtensions...)
}

func (c *EnvConfig) MaxUploadBytes() int64 {
	return c.maxUploadBytes
}

// RequestTimeout is zero unless configured; uploads are then bounded only by
// the caller's context.
func (c *EnvConfig) RequestTimeout() time.Duration {
	return c.requestTimeout
}

func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
