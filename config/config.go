// server/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP   HTTPConfig `yaml:"http"`
	Log    LogConfig  `yaml:"log"`
	Events bool       `yaml:"events"`
}

type HTTPConfig struct {
	Host         string   `yaml:"host"`
	Port         string   `yaml:"port"`
	BodyLimit    int      `yaml:"body_limit"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Addr is the listen address, host:port.
func (c HTTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Duration accepts "10s", "5m" or a bare number of seconds.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseDuration(node.Value)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			BodyLimit:    1 << 20,
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(10 * time.Second),
			IdleTimeout:  Duration(60 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Events: true,
	}
}

// Load reads an optional .env, then the YAML file named by NOTES_CONFIG,
// then NOTES_* environment variables. Later sources win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("NOTES_CONFIG"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("NOTES_HOST", &c.HTTP.Host)
	str("NOTES_PORT", &c.HTTP.Port)
	str("NOTES_LOG_LEVEL", &c.Log.Level)
	str("NOTES_LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup("NOTES_EVENTS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("NOTES_EVENTS: %w", err)
		}
		c.Events = b
	}
	if v, ok := lookup("NOTES_BODY_LIMIT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NOTES_BODY_LIMIT: %w", err)
		}
		c.HTTP.BodyLimit = n
	}

	durations := []struct {
		key string
		dst *Duration
	}{
		{"NOTES_READ_TIMEOUT", &c.HTTP.ReadTimeout},
		{"NOTES_WRITE_TIMEOUT", &c.HTTP.WriteTimeout},
		{"NOTES_IDLE_TIMEOUT", &c.HTTP.IdleTimeout},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = Duration(parsed)
	}
	return nil
}

func (c Config) Validate() error {
	port, err := strconv.Atoi(c.HTTP.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.HTTP.Port)
	}
	if c.HTTP.BodyLimit <= 0 {
		return fmt.Errorf("body limit must be positive, got %d", c.HTTP.BodyLimit)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
