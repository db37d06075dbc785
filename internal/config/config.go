// Package config holds the server settings, loaded once at startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Candidate file names searched in the working directory when no path is given.
var DefaultFiles = []string{"devserve.yaml", "devserve.yml", "devserve.toml"}

// RewriteRule replaces a leading request path prefix before file lookup.
type RewriteRule struct {
	Prefix string `yaml:"prefix" toml:"prefix"`
	Target string `yaml:"target" toml:"target"`
}

// Config contains every tunable server parameter.
// These can be overridden via devserve.yaml (or .toml) and serve flags.
type Config struct {
	// Listener
	Host string `yaml:"host" toml:"host"` // Interface to bind (default: all)
	Port int    `yaml:"port" toml:"port"` // TCP port (default: 8000)

	// Files
	Root             string            `yaml:"root" toml:"root"`                         // Served directory (default: ".")
	Rewrites         []RewriteRule     `yaml:"rewrites" toml:"rewrites"`                 // Path prefix rewrites (default: /docs -> /docs/html)
	ContentTypes     map[string]string `yaml:"contentTypes" toml:"contentTypes"`         // Path suffix -> media type (default: .wasm)
	IndexFiles       []string          `yaml:"indexFiles" toml:"indexFiles"`             // Directory index names
	DirectoryListing bool              `yaml:"directoryListing" toml:"directoryListing"` // List directories without an index
	NotFoundPage     string            `yaml:"notFoundPage" toml:"notFoundPage"`         // Custom 404 body, relative to root

	// Features
	Compress   bool   `yaml:"compress" toml:"compress"`     // gzip responses when the client accepts it
	Watch      bool   `yaml:"watch" toml:"watch"`           // Live reload over SSE
	ReloadPath string `yaml:"reloadPath" toml:"reloadPath"` // SSE endpoint

	// Timeouts
	Debounce        time.Duration `yaml:"debounce" toml:"debounce"`               // Watcher debounce (default: 300ms)
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" toml:"shutdownTimeout"` // Graceful shutdown bound (default: 5s)

	LogLevel string `yaml:"logLevel" toml:"logLevel"`
}

// Default returns the configuration used when no file and no flags are given.
func Default() *Config {
	return &Config{
		Host: "",
		Port: 8000,

		Root: ".",
		Rewrites: []RewriteRule{
			{Prefix: "/docs", Target: "/docs/html"},
		},
		ContentTypes: map[string]string{
			".wasm": "application/wasm",
		},
		IndexFiles:       []string{"index.html", "index.htm"},
		DirectoryListing: true,
		NotFoundPage:     "404.html",

		Compress:   true,
		Watch:      false,
		ReloadPath: "/__reload",

		Debounce:        300 * time.Millisecond,
		ShutdownTimeout: 5 * time.Second,

		LogLevel: "info",
	}
}

// Load reads the configuration file at path on top of the defaults.
// With an empty path the DefaultFiles are tried in order; none existing is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		for _, name := range DefaultFiles {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// Validate rejects unusable values and clamps the rest into range.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Root == "" {
		c.Root = "."
	}

	for i, r := range c.Rewrites {
		if !strings.HasPrefix(r.Prefix, "/") || !strings.HasPrefix(r.Target, "/") {
			return fmt.Errorf("rewrite %d: prefix and target must start with '/'", i)
		}
	}
	for suffix, ctype := range c.ContentTypes {
		if suffix == "" || ctype == "" {
			return fmt.Errorf("content type override %q -> %q is incomplete", suffix, ctype)
		}
	}

	if len(c.IndexFiles) == 0 {
		c.IndexFiles = []string{"index.html", "index.htm"}
	}
	if c.ReloadPath == "" {
		c.ReloadPath = "/__reload"
	} else if !strings.HasPrefix(c.ReloadPath, "/") {
		c.ReloadPath = "/" + c.ReloadPath
	}

	// Timeouts
	if c.Debounce < 10*time.Millisecond {
		c.Debounce = 10 * time.Millisecond
	}
	if c.Debounce > 5*time.Second {
		c.Debounce = 5 * time.Second
	}
	if c.ShutdownTimeout < 1*time.Second {
		c.ShutdownTimeout = 1 * time.Second
	}
	if c.ShutdownTimeout > 60*time.Second {
		c.ShutdownTimeout = 60 * time.Second
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	case "":
		c.LogLevel = "info"
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AbsRoot resolves the served root against the working directory.
func (c *Config) AbsRoot() (string, error) {
	abs, err := filepath.Abs(c.Root)
	if err != nil {
		return "", fmt.Errorf("invalid root directory: %w", err)
	}
	return abs, nil
}
