package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmdmdm-nz/reachd/pkg/version"
)

// Config holds the application configuration from CLI flags and the optional
// config file.
type Config struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	LogLevel     string        `yaml:"log_level"`
	Advertise    bool          `yaml:"advertise"`
	Legacy       bool          `yaml:"legacy"`
	PollInterval time.Duration `yaml:"poll_interval"`

	ConfigPath string `yaml:"-"`
}

// ErrVersionRequested is returned by Parse when -version was given.
var ErrVersionRequested = errors.New("version requested")

func defaultConfig() *Config {
	return &Config{
		Host:     "127.0.0.1",
		Port:     60110,
		LogLevel: "info",
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ConfigPath = path
	return cfg, nil
}

// Parse parses args into a Config. Values from -config fill in every flag
// that was not given explicitly.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := defaultConfig()

	fs.StringVar(&cfg.Host, "host", cfg.Host, "Host to bind to")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace, debug, info, warn, error)")
	fs.BoolVar(&cfg.Advertise, "advertise", cfg.Advertise, "Advertise the API over mDNS")
	fs.BoolVar(&cfg.Legacy, "legacy", cfg.Legacy, "Classify from connection types only, ignoring link capabilities")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Poll interfaces at this interval instead of subscribing to OS notifications (0 disables)")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to a YAML config file")
	showVersion := fs.Bool("version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *showVersion {
		return nil, ErrVersionRequested
	}
	if cfg.ConfigPath == "" {
		return cfg, nil
	}

	file, err := Load(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["host"] {
		cfg.Host = file.Host
	}
	if !set["port"] {
		cfg.Port = file.Port
	}
	if !set["log-level"] {
		cfg.LogLevel = file.LogLevel
	}
	if !set["advertise"] {
		cfg.Advertise = file.Advertise
	}
	if !set["legacy"] {
		cfg.Legacy = file.Legacy
	}
	if !set["poll-interval"] {
		cfg.PollInterval = file.PollInterval
	}
	return cfg, nil
}

// ParseFlags parses command line arguments and returns a Config
func ParseFlags() *Config {
	cfg, err := Parse(flag.CommandLine, os.Args[1:])
	if errors.Is(err, ErrVersionRequested) {
		fmt.Println(version.String())
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg
}

// String returns a string representation of the Config
func (c *Config) String() string {
	return fmt.Sprintf("Host: %s, Port: %d, LogLevel: %s, Advertise: %t, Legacy: %t, PollInterval: %s",
		c.Host, c.Port, c.LogLevel, c.Advertise, c.Legacy, c.PollInterval)
}
