package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// =============================================================================
// Configuration
// =============================================================================

// envPrefix prefixes environment overrides, e.g. PHOTOCOLLECT_DESTINATION or
// PHOTOCOLLECT_LOG_LEVEL.
const envPrefix = "PHOTOCOLLECT"

// Config holds the application configuration.
type Config struct {
	Sources     []string
	Destination string
	DryRun      bool
	Link        bool
	Hash        string
	Extensions  []string
	Report      string
	Log         LogConfig
	ShowVersion bool
}

// Options converts the configuration into collector options.
func (c *Config) Options() Options {
	return Options{
		DryRun:     c.DryRun,
		Link:       c.Link,
		Hash:       c.Hash,
		Extensions: c.Extensions,
	}
}

// parseConfig reads flags from args, then fills anything not given on the
// command line from the config file (--config) and PHOTOCOLLECT_* variables.
// Trailing positional arguments are extra sources, so both
// "-s a -s b" and "-s a b" work.
func parseConfig(args []string, stderr io.Writer) (*Config, error) {
	flags := pflag.NewFlagSet("photo-collector", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.StringArrayP("source", "s", nil, "Source folder (repeatable)")
	flags.StringP("destination", "d", "", "Destination folder (created if absent)")
	flags.BoolP("dry-run", "n", false, "Show what would be collected without writing")
	flags.Bool("link", false, "Hard-link instead of copying when possible")
	flags.String("hash", HashSHA256, "Fingerprint algorithm: sha256 or murmur3")
	flags.StringSlice("ext", nil, "Only collect these extensions, e.g. .jpg,.jpeg or photos (default: all files)")
	flags.String("report", "", "Write a CSV report of every scanned file to this path")
	flags.String("config", "", "Config file (yaml, toml or json)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "console", "Log format: console or json")
	flags.String("log-file", "", "Also log to this file (rotated)")
	flags.BoolP("version", "v", false, "Show version information")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Photo Collector - Collect photos from several folders, dedupe and name them by date\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  photo-collector -s <source> [<source> ...] -d <destination> [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  photo-collector -s ~/phone ~/camera -d ~/Photos\n")
		fmt.Fprintf(stderr, "  photo-collector -s ~/phone -d ~/Photos -n          # Preview (dry-run)\n")
		fmt.Fprintf(stderr, "  photo-collector -s ~/phone -d ~/Photos --link      # Hard-link, same disk\n")
		fmt.Fprintf(stderr, "  photo-collector -s ~/phone -d ~/Photos --report run.csv\n")
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"source":      "source",
		"destination": "destination",
		"dry-run":     "dry-run",
		"link":        "link",
		"hash":        "hash",
		"ext":         "ext",
		"report":      "report",
		"log.level":   "log-level",
		"log.format":  "log-format",
		"log.file":    "log-file",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, fmt.Errorf("%w: binding %s: %v", ErrInvalidConfig, name, err)
		}
	}

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading config: %v", ErrInvalidConfig, err)
		}
	}

	showVersion, _ := flags.GetBool("version")
	cfg := &Config{
		Sources:     append(v.GetStringSlice("source"), flags.Args()...),
		Destination: v.GetString("destination"),
		DryRun:      v.GetBool("dry-run"),
		Link:        v.GetBool("link"),
		Hash:        v.GetString("hash"),
		Extensions:  v.GetStringSlice("ext"),
		Report:      v.GetString("report"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   v.GetString("log.file"),
		},
		ShowVersion: showVersion,
	}
	return cfg, nil
}

// validateConfig checks required settings and makes every path absolute.
func validateConfig(cfg *Config) error {
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("%w: at least one source directory is required", ErrInvalidConfig)
	}
	if cfg.Destination == "" {
		return fmt.Errorf("%w: destination directory is required", ErrInvalidConfig)
	}
	if _, err := NewFingerprinter(cfg.Hash); err != nil {
		return err
	}

	var err error
	for i, src := range cfg.Sources {
		if cfg.Sources[i], err = filepath.Abs(src); err != nil {
			return fmt.Errorf("%w: source %s: %v", ErrInvalidConfig, src, err)
		}
	}
	if cfg.Destination, err = filepath.Abs(cfg.Destination); err != nil {
		return fmt.Errorf("%w: destination %s: %v", ErrInvalidConfig, cfg.Destination, err)
	}

	if cfg.Report != "" {
		if cfg.Report, err = filepath.Abs(cfg.Report); err != nil {
			return fmt.Errorf("%w: report %s: %v", ErrInvalidConfig, cfg.Report, err)
		}
		if isWithin(cfg.Destination, cfg.Report) {
			return fmt.Errorf("%w: report must not be written inside the destination", ErrInvalidConfig)
		}
	}

	for _, src := range cfg.Sources {
		if src == cfg.Destination {
			return fmt.Errorf("%w: source %s is the destination", ErrInvalidConfig, src)
		}
	}
	return nil
}
