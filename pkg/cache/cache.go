package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that report a miss as an error.
var ErrCacheMiss = errors.New("cache miss")

// Default time-to-live per entry kind.
const (
	TTLAnalysis  = 7 * 24 * time.Hour
	TTLLayout    = 24 * time.Hour
	TTLVariation = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON loads key into v. It returns ErrCacheMiss when the key is absent
// and treats an undecodable entry as a miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return ErrCacheMiss
	}
	return nil
}

// SetJSON stores v under key as JSON.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}

// =============================================================================
// Keys
// =============================================================================

// Keyer builds cache keys.
type Keyer interface {
	// AnalysisKey identifies a product image analysis.
	AnalysisKey(imageHash string, version int) string
	// LayoutKey identifies a composed layout for a hashed input.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string
	// VariationKey identifies a generated variation set.
	VariationKey(templateID, styleHash string, count int) string
}

// LayoutKeyOpts are the composition options that change a layout.
type LayoutKeyOpts struct {
	Format  string `json:"format"`
	Pattern string `json:"pattern,omitempty"`
	Enforce bool   `json:"enforce"`
}

// DefaultKeyer hashes its components into "<kind>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) AnalysisKey(imageHash string, version int) string {
	return hashKey("analysis", imageHash, version)
}

func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

func (DefaultKeyer) VariationKey(templateID, styleHash string, count int) string {
	return hashKey("variation", templateID, styleHash, count)
}

var _ Keyer = DefaultKeyer{}
