package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/rasulshaikhdev/techgear-hub/internal/repository"
	apperrors "github.com/rasulshaikhdev/techgear-hub/pkg/errors"
	"github.com/rasulshaikhdev/techgear-hub/pkg/logger"
)

// Preferences stores display settings next to the collections.
type Preferences struct {
	kv     repository.KV
	logger *slog.Logger
}

// NewPreferences creates a preference store over kv.
func NewPreferences(kv repository.KV, logger *slog.Logger) *Preferences {
	return &Preferences{kv: kv, logger: logger}
}

// DarkMode reports whether dark mode is on. Only the stored text "true"
// enables it; anything else, including a read failure, means off.
func (p *Preferences) DarkMode(ctx context.Context) bool {
	v, err := p.kv.Get(ctx, repository.KeyDarkMode)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.WithContext(ctx, p.logger).Warn("failed to read dark mode preference", slog.String("error", err.Error()))
		}
		return false
	}
	return v == "true"
}

// SetDarkMode stores the preference as "true" or "false".
func (p *Preferences) SetDarkMode(ctx context.Context, on bool) error {
	return p.kv.Set(ctx, repository.KeyDarkMode, strconv.FormatBool(on))
}

// ToggleDarkMode flips the preference and returns the new value.
func (p *Preferences) ToggleDarkMode(ctx context.Context) (bool, error) {
	on := !p.DarkMode(ctx)
	if err := p.SetDarkMode(ctx, on); err != nil {
		return !on, err
	}
	return on, nil
}
