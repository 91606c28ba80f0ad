package kv

import (
	"context"
	"encoding/json"
	"log"
)

// Store is the local key-value persistence boundary. Values are JSON-encoded
// by the callers; a missing key is (nil, nil), never an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Namespaced keys used by the services.
const (
	KeyTripHistory    = "bakkie:trip-history"
	KeyFavorites      = "bakkie:favorites"
	KeyTrustedContact = "bakkie:trusted-contact"
	KeyDriverEarnings = "bakkie:driver-earnings"
	KeyTheme          = "bakkie:theme"
	KeyServiceFlags   = "bakkie:service-flags"
)

// GetJSON decodes the value stored under key into dest. It returns false when
// the key is absent, the read fails, or the stored value is malformed: history
// and favorites are non-critical, so corrupt data degrades to defaults.
func GetJSON(ctx context.Context, s Store, key string, dest any) bool {
	data, err := s.Get(ctx, key)
	if err != nil {
		log.Printf("[KV] read %s failed: %v", key, err)
		return false
	}
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("[KV] discarding malformed value for %s: %v", key, err)
		return false
	}
	return true
}

// SetJSON marshals value and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, data)
}
