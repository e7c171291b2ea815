package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/rasulshaikhdev/techgear-hub/pkg/errors"
	"github.com/rasulshaikhdev/techgear-hub/pkg/logger"
)

var (
	corruptLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_corrupt_loads_total",
			Help: "Stored collections that could not be parsed and were discarded.",
		},
		[]string{"key"},
	)
	storeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_errors_total",
			Help: "Store reads and writes that failed, by operation.",
		},
		[]string{"operation"},
	)
)

// CorruptLoads exposes the corrupt-load counter for tests and dashboards.
func CorruptLoads() *prometheus.CounterVec { return corruptLoads }

// Collection is a JSON-serialized sequence of T stored under one key.
type Collection[T any] struct {
	kv     KV
	key    string
	logger *slog.Logger
}

// NewCollection binds a collection to key in kv.
func NewCollection[T any](kv KV, key string, logger *slog.Logger) *Collection[T] {
	return &Collection[T]{kv: kv, key: key, logger: logger}
}

// Key returns the key the collection is stored under.
func (c *Collection[T]) Key() string { return c.key }

// Load returns the stored collection. An absent key, an unreachable backend,
// or a value that does not parse all yield an empty, non-nil slice. Corrupt
// values are logged at WARN and counted; backend failures at ERROR.
func (c *Collection[T]) Load(ctx context.Context) []T {
	log := logger.WithContext(ctx, c.logger)

	raw, err := c.kv.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			storeErrors.WithLabelValues("load").Inc()
			log.Error("failed to load collection",
				slog.String("key", c.key),
				slog.String("error", err.Error()),
			)
		}
		return []T{}
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		corruptLoads.WithLabelValues(c.key).Inc()
		log.Warn("discarding corrupt collection",
			slog.String("key", c.key),
			slog.String("error", err.Error()),
		)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Save serializes items as a JSON array and writes it synchronously.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.key, err)
	}
	if err := c.kv.Set(ctx, c.key, string(data)); err != nil {
		storeErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}
