package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rasulshaikhdev/techgear-hub/pkg/breaker"
	apperrors "github.com/rasulshaikhdev/techgear-hub/pkg/errors"
)

// Guarded runs every call to a remote store through a circuit breaker so a
// dead backend fails fast instead of stalling each request.
type Guarded struct {
	kv KV
	cb *breaker.Breaker
}

// WithBreaker wraps kv with a breaker named after the backend. A missing key
// is a normal answer and never trips the breaker.
func WithBreaker(kv KV, name string, logger *slog.Logger) *Guarded {
	cfg := breaker.DefaultConfig("store-" + name)
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, apperrors.ErrNotFound)
	}
	return &Guarded{kv: kv, cb: breaker.New(cfg, logger)}
}

// Breaker exposes the underlying breaker for health reporting.
func (g *Guarded) Breaker() *breaker.Breaker { return g.cb }

func (g *Guarded) Get(ctx context.Context, key string) (string, error) {
	v, err := breaker.Call(g.cb, func() (string, error) {
		return g.kv.Get(ctx, key)
	})
	return v, unavailable(err)
}

func (g *Guarded) Set(ctx context.Context, key, value string) error {
	return unavailable(g.cb.Run(func() error {
		return g.kv.Set(ctx, key, value)
	}))
}

func (g *Guarded) Delete(ctx context.Context, key string) error {
	return unavailable(g.cb.Run(func() error {
		return g.kv.Delete(ctx, key)
	}))
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (g *Guarded) Ping(ctx context.Context) error { return g.kv.Ping(ctx) }

func (g *Guarded) Close() error { return g.kv.Close() }

func unavailable(err error) error {
	if errors.Is(err, breaker.ErrOpen) || errors.Is(err, breaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", apperrors.ErrServiceUnavail, err)
	}
	return err
}
