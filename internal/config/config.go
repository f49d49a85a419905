// Package config loads the settings of the mimedit command: defaults, then an
// optional YAML file, then MIMEDIT_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zostay/mimedit/message"
	"github.com/zostay/mimedit/message/header"
	"github.com/zostay/mimedit/message/transfer"
)

// EnvFile names the environment variable holding a config file path, used when
// no path is given on the command line.
const EnvFile = "MIMEDIT_CONFIG"

// Config holds the complete configuration.
type Config struct {
	Parse   ParseConfig   `yaml:"parse"`
	Content ContentConfig `yaml:"content"`
	Logging LoggingConfig `yaml:"logging"`
}

// ParseConfig holds the limits applied when reading a message.
type ParseConfig struct {
	MaxDepth        int `yaml:"max_depth"`
	MaxHeaderLength int `yaml:"max_header_length"`
	MaxPartLength   int `yaml:"max_part_length"`
	ChunkSize       int `yaml:"chunk_size"`
	MemoryThreshold int `yaml:"memory_threshold"`
}

// ContentConfig holds the defaults for new and undeclared content.
type ContentConfig struct {
	DefaultCharset string `yaml:"default_charset"`
	TextEncoding   string `yaml:"text_encoding"`
	BinaryEncoding string `yaml:"binary_encoding"`
	LineBreak      string `yaml:"line_break"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load returns the defaults overridden by environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	if err := cfg.applyEnvVars(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFromFile loads a YAML file over the defaults and then applies
// environment variables. The file must exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.applyEnvVars(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Resolve loads from path when it is set, otherwise from the file named by
// MIMEDIT_CONFIG when that is set, and otherwise from defaults and the
// environment alone.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvFile)
	}
	if path == "" {
		return Load()
	}
	return LoadFromFile(path)
}

func (c *Config) applyDefaults() {
	c.Parse.MaxDepth = message.DefaultMaxMultipartDepth
	c.Parse.MaxHeaderLength = message.DefaultMaxHeaderLength
	c.Parse.MaxPartLength = message.DefaultMaxPartLength
	c.Parse.ChunkSize = message.DefaultChunkSize
	c.Parse.MemoryThreshold = message.DefaultMemoryThreshold

	c.Content.DefaultCharset = message.DefaultCharset
	c.Content.TextEncoding = transfer.QuotedPrintable
	c.Content.BinaryEncoding = transfer.Base64
	c.Content.LineBreak = "crlf"

	c.Logging.Level = "warn"
	c.Logging.Format = "text"
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

func envString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// applyEnvVars overrides configuration with the non-empty MIMEDIT_*
// environment variables.
func (c *Config) applyEnvVars() error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"MIMEDIT_MAX_DEPTH", &c.Parse.MaxDepth},
		{"MIMEDIT_MAX_HEADER_LENGTH", &c.Parse.MaxHeaderLength},
		{"MIMEDIT_MAX_PART_LENGTH", &c.Parse.MaxPartLength},
		{"MIMEDIT_CHUNK_SIZE", &c.Parse.ChunkSize},
		{"MIMEDIT_MEMORY_THRESHOLD", &c.Parse.MemoryThreshold},
	}
	for _, i := range ints {
		if err := envInt(i.name, i.dst); err != nil {
			return err
		}
	}

	envString("MIMEDIT_DEFAULT_CHARSET", &c.Content.DefaultCharset)
	envString("MIMEDIT_TEXT_ENCODING", &c.Content.TextEncoding)
	envString("MIMEDIT_BINARY_ENCODING", &c.Content.BinaryEncoding)
	envString("MIMEDIT_LINE_BREAK", &c.Content.LineBreak)

	envString("MIMEDIT_LOG_LEVEL", &c.Logging.Level)
	envString("MIMEDIT_LOG_FORMAT", &c.Logging.Format)
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)

	return nil
}

// Validate reports settings the message package cannot use.
func (c *Config) Validate() error {
	if _, err := c.Break(); err != nil {
		return err
	}

	for name, cte := range map[string]string{
		"text_encoding":   c.Content.TextEncoding,
		"binary_encoding": c.Content.BinaryEncoding,
	} {
		if _, ok := transfer.Transcodings[transfer.Normalize(cte)]; !ok {
			return fmt.Errorf("content.%s: %w: %q", name, transfer.ErrUnsupportedEncoding, cte)
		}
	}

	if _, err := transfer.LookupCharset(c.Content.DefaultCharset); err != nil {
		return fmt.Errorf("content.default_charset: %w", err)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: must be text or json, not %q", c.Logging.Format)
	}

	return nil
}

// Break returns the configured line break.
func (c *Config) Break() (header.Break, error) {
	switch strings.ToLower(c.Content.LineBreak) {
	case "crlf", "":
		return header.CRLF, nil
	case "lf":
		return header.LF, nil
	}
	return "", fmt.Errorf("content.line_break: must be crlf or lf, not %q", c.Content.LineBreak)
}

// Options converts the configuration to options for message.Parse,
// message.New, and message.NewEmail.
func (c *Config) Options() []message.Option {
	lbr, err := c.Break()
	if err != nil {
		lbr = header.CRLF
	}

	return []message.Option{
		message.WithMaxDepth(c.Parse.MaxDepth),
		message.WithMaxHeaderLength(c.Parse.MaxHeaderLength),
		message.WithMaxPartLength(c.Parse.MaxPartLength),
		message.WithChunkSize(c.Parse.ChunkSize),
		message.WithMemoryThreshold(c.Parse.MemoryThreshold),
		message.WithDefaultCharset(c.Content.DefaultCharset),
		message.WithTextEncoding(c.Content.TextEncoding),
		message.WithBinaryEncoding(c.Content.BinaryEncoding),
		message.WithBreak(lbr),
	}
}
