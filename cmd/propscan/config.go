package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/propscan/pkg/analyzer"
	"github.com/gnana997/propscan/pkg/props"
	"github.com/gnana997/propscan/pkg/util"
)

const (
	defaultConfigPath = ".propscan/config.yaml"

	envLogLevel = "PROPSCAN_LOG_LEVEL"
	envWorkers  = "PROPSCAN_WORKERS"
)

// ProjectConfig holds the contents of .propscan/config.yaml.
type ProjectConfig struct {
	Version   string   `yaml:"version"`
	Include   []string `yaml:"include,omitempty"`
	Exclude   []string `yaml:"exclude,omitempty"`
	Workers   int      `yaml:"workers,omitempty"`
	Intrinsic bool     `yaml:"intrinsic,omitempty"`
	Identity  string   `yaml:"identity,omitempty"`
	CacheSize int      `yaml:"cache_size,omitempty"`
	Log       struct {
		Level  string `yaml:"level,omitempty"`
		Format string `yaml:"format,omitempty"`
	} `yaml:"log,omitempty"`
}

// loadProjectConfig reads the YAML config at path.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// writeDefaultConfig creates path with the default patterns. An existing
// file is left alone unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	cfg := ProjectConfig{
		Version: "1",
		Include: analyzer.DefaultInclude,
		Exclude: analyzer.DefaultExclude,
	}
	cfg.Log.Level = string(util.LevelInfo)
	cfg.Log.Format = string(util.FormatText)

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// settings is the effective configuration after every layer is applied.
type settings struct {
	Include   []string
	Exclude   []string
	Workers   int
	Intrinsic bool
	Identity  props.IdentityMode
	CacheSize int
	LogLevel  util.LogLevel
	LogFormat util.LogFormat
}

// flagValues carries the global flags and whether each was set explicitly.
type flagValues struct {
	configPath string
	logLevel   string
	logFormat  string
	workers    int
	include    []string
	exclude    []string
	intrinsic  bool
	identity   string

	changed func(name string) bool
}

// resolveSettings applies, in order: defaults, the project config file,
// .env and PROPSCAN_* environment variables, then explicit flags.
func resolveSettings(fv flagValues) (settings, error) {
	s := settings{
		Include:   append([]string(nil), analyzer.DefaultInclude...),
		Exclude:   append([]string(nil), analyzer.DefaultExclude...),
		CacheSize: analyzer.DefaultCacheSize,
		Identity:  props.IdentityUsageSite,
		LogLevel:  util.LevelInfo,
		LogFormat: util.FormatText,
	}
	changed := fv.changed
	if changed == nil {
		changed = func(string) bool { return false }
	}

	configPath := fv.configPath
	if configPath == "" {
		configPath = defaultConfigPath
	}
	pc, err := loadProjectConfig(configPath)
	if err != nil {
		return s, err
	}
	if pc == nil && changed("config") {
		return s, fmt.Errorf("config file %s not found", configPath)
	}

	levelStr, formatStr, identityStr := "", "", ""
	if pc != nil {
		if len(pc.Include) > 0 {
			s.Include = pc.Include
		}
		if pc.Exclude != nil {
			s.Exclude = pc.Exclude
		}
		s.Workers = pc.Workers
		s.Intrinsic = pc.Intrinsic
		if pc.CacheSize != 0 {
			s.CacheSize = pc.CacheSize
		}
		levelStr, formatStr, identityStr = pc.Log.Level, pc.Log.Format, pc.Identity
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()
	if v := os.Getenv(envLogLevel); v != "" {
		levelStr = v
	}
	if v := os.Getenv(envWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return s, fmt.Errorf("%s: invalid worker count %q", envWorkers, v)
		}
		s.Workers = n
	}

	if changed("log-level") {
		levelStr = fv.logLevel
	}
	if changed("log-format") {
		formatStr = fv.logFormat
	}
	if changed("identity") {
		identityStr = fv.identity
	}
	if changed("workers") {
		if fv.workers < 0 {
			return s, fmt.Errorf("--workers must not be negative")
		}
		s.Workers = fv.workers
	}
	if changed("include") {
		s.Include = fv.include
	}
	if changed("exclude") {
		s.Exclude = fv.exclude
	}
	if changed("intrinsic") {
		s.Intrinsic = fv.intrinsic
	}

	if s.LogLevel, err = util.ParseLogLevel(levelStr); err != nil {
		return s, err
	}
	if s.LogFormat, err = util.ParseLogFormat(formatStr); err != nil {
		return s, err
	}
	if s.Identity, err = props.ParseIdentityMode(identityStr); err != nil {
		return s, err
	}
	if err := analyzer.ValidatePatterns(s.Include, s.Exclude); err != nil {
		return s, err
	}
	return s, nil
}

// engineConfig converts settings into an analyzer.Config.
func (s settings) engineConfig(logger *slog.Logger) analyzer.Config {
	cfg := analyzer.DefaultConfig()
	cfg.Include = s.Include
	cfg.Exclude = s.Exclude
	cfg.Workers = s.Workers
	cfg.IncludeIntrinsic = s.Intrinsic
	cfg.Identity = s.Identity
	cfg.CacheSize = s.CacheSize
	cfg.Logger = logger
	return cfg
}

// newLogger builds the process logger. Logs always go to w (stderr) so
// stdout stays reserved for results and the MCP stream.
func (s settings) newLogger(w io.Writer) *slog.Logger {
	return util.NewLogger(util.LoggerConfig{Level: s.LogLevel, Format: s.LogFormat, Output: w})
}
