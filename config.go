package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"abapsim/engine"
	"abapsim/errors"
	"abapsim/logging"
	"abapsim/serialization"
	"abapsim/source"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration
type Config struct {
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	REPL    REPLConfig    `json:"repl" yaml:"repl"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Batch   BatchConfig   `json:"batch" yaml:"batch"`
}

// EngineConfig bounds every run
type EngineConfig struct {
	MaxSteps          int64 `json:"max_steps" yaml:"max_steps"`
	TimeoutMs         int   `json:"timeout_ms" yaml:"timeout_ms"`
	MaxOutputLines    int   `json:"max_output_lines" yaml:"max_output_lines"`
	ShallowBranchSkip bool  `json:"shallow_branch_skip" yaml:"shallow_branch_skip"`
}

// REPLConfig contains REPL configuration
type REPLConfig struct {
	Prompt         string `json:"prompt" yaml:"prompt"`
	ContinuePrompt string `json:"continue_prompt" yaml:"continue_prompt"`
	HistoryFile    string `json:"history_file" yaml:"history_file"`
	HistorySize    int    `json:"history_size" yaml:"history_size"`
	ShowWelcome    bool   `json:"show_welcome" yaml:"show_welcome"`
	Colors         bool   `json:"colors" yaml:"colors"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	File   string `json:"file" yaml:"file"`
}

// BatchConfig controls non-interactive runs
type BatchConfig struct {
	Format      string `json:"format" yaml:"format"`
	Encoding    string `json:"encoding" yaml:"encoding"`
	Concurrency int    `json:"concurrency" yaml:"concurrency"`
	Warnings    bool   `json:"warnings" yaml:"warnings"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxSteps:       engine.DefaultMaxSteps,
			TimeoutMs:      int(engine.DefaultTimeout / time.Millisecond),
			MaxOutputLines: engine.DefaultMaxOutputLines,
		},
		REPL: REPLConfig{
			Prompt:         "abap> ",
			ContinuePrompt: "  ... ",
			HistoryFile:    "~/.abapsim_history",
			HistorySize:    1000,
			ShowWelcome:    true,
		},
		Logging: LoggingConfig{
			Level:  "error",
			Format: "text",
		},
		Batch: BatchConfig{
			Format:      "text",
			Encoding:    source.EncodingUTF8,
			Concurrency: 4,
		},
	}
}

// codec encodes and decodes one config file syntax
type codec struct {
	name      string
	marshal   func(interface{}) ([]byte, error)
	unmarshal func([]byte, interface{}) error
}

var (
	yamlCodec = codec{name: "YAML", marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}
	jsonCodec = codec{
		name:      "JSON",
		marshal:   func(v interface{}) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
		unmarshal: json.Unmarshal,
	}
)

// codecFor picks JSON for .json files and YAML for everything else
func codecFor(path string) codec {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return jsonCodec
	}
	return yamlCodec
}

// LoadConfig loads configuration from a file over the defaults. A missing
// file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	path = expandHome(path)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return config, nil
	case err != nil:
		return nil, configError(fmt.Errorf("failed to read config file: %w", err))
	}

	c := codecFor(path)
	if err := c.unmarshal(data, config); err != nil {
		return nil, configError(fmt.Errorf("failed to parse %s config %s: %w", c.name, path, err))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes configuration to a file, JSON or YAML by extension
func SaveConfig(config *Config, path string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := codecFor(path).marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects settings no run could honour. Every problem is reported,
// not just the first.
func (c *Config) Validate() error {
	var problems []error
	check := func(bad bool, format string, args ...interface{}) {
		if bad {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	check(c.Engine.MaxSteps < 0, "engine.max_steps must not be negative")
	check(c.Engine.TimeoutMs < 0, "engine.timeout_ms must not be negative")
	check(c.Engine.MaxOutputLines < 0, "engine.max_output_lines must not be negative")
	check(c.Engine.MaxSteps == 0 && c.Engine.TimeoutMs == 0,
		"engine.max_steps and engine.timeout_ms cannot both be unlimited")
	check(c.REPL.HistorySize < 0, "repl.history_size must not be negative")
	check(c.Batch.Concurrency < 0, "batch.concurrency must not be negative")
	check(c.Batch.Format != "text" && !serialization.IsFormatSupported(c.Batch.Format),
		"unsupported batch.format %q", c.Batch.Format)
	if _, err := source.Decode(nil, c.Batch.Encoding); err != nil {
		problems = append(problems, err)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		problems = append(problems, fmt.Errorf("logging.level: %w", err))
	}

	if len(problems) == 0 {
		return nil
	}
	return configError(stderrors.Join(problems...))
}

// EngineSettings converts the engine section into an engine configuration
func (c *Config) EngineSettings() engine.ExecutionEngineConfig {
	return engine.ExecutionEngineConfig{
		MaxSteps:          c.Engine.MaxSteps,
		Timeout:           time.Duration(c.Engine.TimeoutMs) * time.Millisecond,
		MaxOutputLines:    c.Engine.MaxOutputLines,
		ShallowBranchSkip: c.Engine.ShallowBranchSkip,
	}
}

func configError(err error) error {
	return errors.NewValidationError(errors.CodeConfig, "invalid configuration").Wrap(err)
}

// expandHome expands ~ to the user's home directory
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
