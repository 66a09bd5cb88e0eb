package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth; empty disables bearer-token checks on the API.
	APIKey string `yaml:"api_key"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	MaxBatchFiles  int   `yaml:"max_batch_files"`

	// Conversion
	ExcludeRoot  bool `yaml:"exclude_root"`
	AlwaysHeader bool `yaml:"always_header"`
	CRLF         bool `yaml:"crlf"`

	// Batch mode
	BatchDir        string        `yaml:"batch_dir"`
	BatchExtensions []string      `yaml:"batch_extensions"`
	OutputFile      string        `yaml:"output_file"`
	BatchOutputFile string        `yaml:"batch_output_file"`
	WatchDebounce   time.Duration `yaml:"watch_debounce"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:            "8090",
		MaxUploadBytes:  52428800, // 50MB
		MaxBatchFiles:   50,
		CRLF:            true,
		BatchDir:        "bookmarks",
		BatchExtensions: []string{".html"},
		OutputFile:      "bookmarks_data.csv",
		BatchOutputFile: "all_bookmarks.csv",
		WatchDebounce:   500 * time.Millisecond,
		LogLevel:        "info",
	}
}

// Load reads the configuration from environment variables over defaults.
func Load() Config {
	cfg := Default()
	cfg.applyEnv()
	cfg.clamp()
	return cfg
}

// LoadFile reads a YAML file (with ${VAR} expansion) over defaults, then
// applies environment variables on top.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.clamp()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = envOr("PORT", c.Port)
	c.APIKey = envOr("BMEXPORT_API_KEY", c.APIKey)

	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.MaxBatchFiles = envInt("MAX_BATCH_FILES", c.MaxBatchFiles)

	c.ExcludeRoot = envBool("EXCLUDE_ROOT", c.ExcludeRoot)
	c.AlwaysHeader = envBool("CSV_ALWAYS_HEADER", c.AlwaysHeader)
	c.CRLF = envBool("CSV_CRLF", c.CRLF)

	c.BatchDir = envOr("BATCH_DIR", c.BatchDir)
	c.BatchExtensions = envList("BATCH_EXTENSIONS", c.BatchExtensions)
	c.OutputFile = envOr("OUTPUT_FILE", c.OutputFile)
	c.BatchOutputFile = envOr("BATCH_OUTPUT_FILE", c.BatchOutputFile)
	c.WatchDebounce = envDuration("WATCH_DEBOUNCE", c.WatchDebounce)

	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
}

func (c *Config) clamp() {
	def := Default()
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = def.MaxUploadBytes
	}
	if c.MaxBatchFiles <= 0 {
		c.MaxBatchFiles = def.MaxBatchFiles
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = def.WatchDebounce
	}
	if len(c.BatchExtensions) == 0 {
		c.BatchExtensions = def.BatchExtensions
	}
	for i, ext := range c.BatchExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.BatchExtensions[i] = ext
	}
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.By(isPort)),
		validation.Field(&c.OutputFile, validation.Required),
		validation.Field(&c.BatchOutputFile, validation.Required),
		validation.Field(&c.BatchExtensions, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// SlogLevel maps LogLevel onto slog; unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func isPort(value any) error {
	s, _ := value.(string)
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("must be a port number between 1 and 65535")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList reads a comma-separated list, dropping empty items.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
