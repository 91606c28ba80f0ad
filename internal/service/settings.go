package service

import (
	"context"

	"bakkie/internal/kv"
)

// Theme values the client can persist.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// SettingsService keeps client presentation settings in the key-value store:
// the display theme and the per-tier availability flags the operator can
// toggle. Both fail soft to defaults.
type SettingsService struct {
	store kv.Store
	fare  *FareService
}

// NewSettingsService creates a settings service over the given store. The
// fare service supplies the tier ids the availability flags default from.
func NewSettingsService(store kv.Store, fare *FareService) *SettingsService {
	return &SettingsService{store: store, fare: fare}
}

// Theme returns the persisted theme, defaulting to light.
func (s *SettingsService) Theme(ctx context.Context) string {
	var theme string
	if !kv.GetJSON(ctx, s.store, kv.KeyTheme, &theme) || theme == "" {
		return ThemeLight
	}
	return theme
}

// SetTheme persists the theme.
func (s *SettingsService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return ErrUnknownTheme
	}
	return kv.SetJSON(ctx, s.store, kv.KeyTheme, theme)
}

// ServiceFlags returns the tier availability map. Tiers missing from the
// stored map (or the whole map, when nothing is stored) default to enabled.
func (s *SettingsService) ServiceFlags(ctx context.Context) map[string]bool {
	var stored map[string]bool
	kv.GetJSON(ctx, s.store, kv.KeyServiceFlags, &stored)

	flags := make(map[string]bool, len(s.fare.Tiers()))
	for _, tier := range s.fare.Tiers() {
		enabled, ok := stored[tier.ID]
		if !ok {
			enabled = true
		}
		flags[tier.ID] = enabled
	}
	return flags
}

// SetServiceFlag toggles availability for one tier.
func (s *SettingsService) SetServiceFlag(ctx context.Context, tierID string, enabled bool) error {
	if _, err := s.fare.Tier(tierID); err != nil {
		return err
	}
	flags := s.ServiceFlags(ctx)
	flags[tierID] = enabled
	return kv.SetJSON(ctx, s.store, kv.KeyServiceFlags, flags)
}
