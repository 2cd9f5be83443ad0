package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/turing/pkg/engine"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the settings file read when --config is not given.
const DefaultPath = "turing.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Settings is the CLI and server configuration.
type Settings struct {
	Policy   string         `mapstructure:"policy"`
	MaxSteps uint64         `mapstructure:"max_steps"`
	Window   int            `mapstructure:"window"`
	Log      LogSettings    `mapstructure:"log"`
	Store    StoreSettings  `mapstructure:"store"`
	Server   ServerSettings `mapstructure:"server"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type StoreSettings struct {
	Backend string        `mapstructure:"backend"`
	Dir     string        `mapstructure:"dir"`
	Redis   RedisSettings `mapstructure:"redis"`
}

type RedisSettings struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type ServerSettings struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		Policy:   engine.PolicyStrict.String(),
		MaxSteps: runner.DefaultMaxSteps,
		Window:   20,
		Log:      LogSettings{Level: "info"},
		Store: StoreSettings{
			Backend: BackendFile,
			Dir:     filepath.Join(".turing", "programs"),
			Redis:   RedisSettings{Addr: "localhost:6379", Prefix: "turing:program:"},
		},
		Server: ServerSettings{Addr: ":8080"},
	}
}

// Load reads settings from a YAML or JSON file over the defaults.
// A missing file yields the defaults unless required is set.
func Load(path string, required bool) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return s, nil
		}
		return s, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return s, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return s, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if err := Decode(raw, &s); err != nil {
		return s, err
	}
	return s, s.Validate()
}

// Decode applies a generic map onto s. Scalars are weakly typed so that
// values such as "1000" or "30s" decode into numbers and durations.
func Decode(raw map[string]any, s *Settings) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           s,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Validate checks enumerated values.
func (s Settings) Validate() error {
	if _, err := s.EnginePolicy(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := s.LogLevel(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch s.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("invalid config: unknown store backend %q", s.Store.Backend)
	}
	if s.Window < 0 {
		return fmt.Errorf("invalid config: window must not be negative")
	}
	if s.Window > tape.MaxWindowRadius {
		return fmt.Errorf("invalid config: window must not exceed %d", tape.MaxWindowRadius)
	}
	return nil
}

// EnginePolicy parses the policy setting.
func (s Settings) EnginePolicy() (engine.Policy, error) {
	return engine.ParsePolicy(s.Policy)
}

// LogLevel parses the log level setting.
func (s Settings) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.Log.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
