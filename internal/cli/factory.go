package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/ports"
)

// OpenStore creates the program store selected by the settings. Redis
// stores are pinged so that a bad address fails at startup.
func OpenStore(ctx context.Context, s config.StoreSettings) (ports.ProgramStore, error) {
	switch s.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil
	case config.BackendFile, "":
		return file.New(s.Dir), nil
	case config.BackendRedis:
		opts := []redis.Option{redis.WithTTL(s.Redis.TTL)}
		if s.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(s.Redis.Prefix))
		}
		store := redis.New(s.Redis.Addr, s.Redis.Password, s.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", s.Redis.Addr, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", s.Backend)
	}
}

// NewEngine builds a turing.Engine from the settings.
func NewEngine(ctx context.Context, s config.Settings, logger *slog.Logger, metrics *observability.Metrics) (*turing.Engine, error) {
	policy, err := s.EnginePolicy()
	if err != nil {
		return nil, err
	}
	store, err := OpenStore(ctx, s.Store)
	if err != nil {
		return nil, err
	}

	opts := []turing.Option{
		turing.WithStore(store),
		turing.WithLogger(logger),
		turing.WithPolicy(policy),
		turing.WithMaxSteps(s.MaxSteps),
		turing.WithHooks(observability.LoggingHooks[rune](logger)),
	}
	if metrics != nil {
		opts = append(opts, turing.WithMetrics(metrics))
	}
	return turing.New(opts...), nil
}
