// Package config loads adlayout settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/adlayout/config.toml by default. Every
// section is optional; missing keys keep their defaults:
//
//	[variation]
//	quality_floor = 75
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[store]
//	backend = "mongo"
//	uri = "mongodb://localhost:27017"
//
// Load never clamps: out-of-range values are INVALID_CONFIG errors.
package config

import (
	"context"
	stderrors "errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/adlayout/pkg/balance"
	"github.com/matzehuels/adlayout/pkg/cache"
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/store"
	"github.com/matzehuels/adlayout/pkg/variation"
	"github.com/matzehuels/adlayout/pkg/vision"
)

// Cache backends.
const (
	CacheFile   = "file"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Store backends.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

// Vision analyzers.
const (
	VisionImage = "image"
	VisionHTTP  = "http"
	VisionNone  = "none"
)

// Duration is a time.Duration that decodes from strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "duration %q", text)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full settings tree.
type Config struct {
	Variation variation.Config `toml:"variation"`
	Balance   balance.Config   `toml:"balance"`
	Compose   ComposeConfig    `toml:"compose"`
	Cache     CacheConfig      `toml:"cache"`
	Store     StoreConfig      `toml:"store"`
	Vision    VisionConfig     `toml:"vision"`
	Server    ServerConfig     `toml:"server"`
}

// ComposeConfig holds composition defaults applied when a request omits them.
type ComposeConfig struct {
	Format               grid.Format `toml:"format"`
	CTAText              string      `toml:"cta_text"`
	EnforceAccessibility bool        `toml:"enforce_accessibility"`
	TargetBalance        float64     `toml:"target_balance"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Prefix    string   `toml:"prefix"`
	// Namespace scopes every cache key, so tenants can share a backend.
	Namespace string `toml:"namespace"`
	// TTL overrides the per-kind entry lifetimes when set.
	TTL Duration `toml:"ttl"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// VisionConfig selects the image analyzer.
type VisionConfig struct {
	Analyzer string   `toml:"analyzer"`
	Endpoint string   `toml:"endpoint"`
	Rate     float64  `toml:"rate"`
	Burst    int      `toml:"burst"`
	Timeout  Duration `toml:"timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RequestTimeout Duration `toml:"request_timeout"`
	SaveByDefault  bool     `toml:"save_by_default"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Variation: variation.DefaultConfig(),
		Balance:   balance.DefaultConfig(),
		Compose: ComposeConfig{
			Format:               grid.FormatSquare,
			CTAText:              "Shop Now",
			EnforceAccessibility: true,
			TargetBalance:        70,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
			Prefix:    "adlayout:",
		},
		Store: StoreConfig{
			Backend:  StoreFile,
			Database: store.DefaultDatabase,
		},
		Vision: VisionConfig{
			Analyzer: VisionImage,
			Rate:     2,
			Burst:    1,
			Timeout:  Duration{vision.DefaultTimeout},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: Duration{60 * time.Second},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/adlayout/config.toml, falling back
// to ~/.config/adlayout/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "adlayout", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
	}
	return filepath.Join(home, ".config", "adlayout", "config.toml"), nil
}

// Load reads path over the defaults and validates the result. An empty path
// means DefaultPath. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Variation.Validate(); err != nil {
		return err
	}
	if err := validateBalance(c.Balance); err != nil {
		return err
	}
	if _, err := grid.ParseFormat(string(c.Compose.Format)); err != nil {
		return err
	}
	if err := errors.ValidateText("compose.cta_text", c.Compose.CTAText); err != nil {
		return err
	}
	if c.Compose.TargetBalance < 0 || c.Compose.TargetBalance > 100 {
		return invalid("compose.target_balance %v outside 0..100", c.Compose.TargetBalance)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return invalid("cache.redis_addr is required for the redis backend")
		}
	default:
		return invalid("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return invalid("cache.ttl must not be negative")
	}

	switch c.Store.Backend {
	case StoreFile:
	case StoreMongo:
		if c.Store.URI == "" {
			return invalid("store.uri is required for the mongo backend")
		}
	default:
		return invalid("unknown store backend %q", c.Store.Backend)
	}

	switch c.Vision.Analyzer {
	case VisionImage, VisionNone:
	case VisionHTTP:
		if err := errors.ValidateURL(c.Vision.Endpoint); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "vision.endpoint")
		}
	default:
		return invalid("unknown vision analyzer %q", c.Vision.Analyzer)
	}
	if c.Vision.Rate < 0 || c.Vision.Burst < 0 {
		return invalid("vision.rate and vision.burst must not be negative")
	}
	if c.Vision.Timeout.Duration <= 0 {
		return invalid("vision.timeout must be positive")
	}

	if c.Server.Addr == "" {
		return invalid("server.addr is required")
	}
	if c.Server.RequestTimeout.Duration <= 0 {
		return invalid("server.request_timeout must be positive")
	}
	return nil
}

func validateBalance(b balance.Config) error {
	w := b.Weights
	for _, v := range []float64{w.Horizontal, w.Vertical, w.Overlap, w.Spacing, w.Whitespace} {
		if v < 0 {
			return invalid("balance weights must not be negative")
		}
	}
	if sum := w.Horizontal + w.Vertical + w.Overlap + w.Spacing + w.Whitespace; math.Abs(sum-1) > 1e-6 {
		return invalid("balance weights sum to %v, want 1", sum)
	}
	if b.WhitespaceMin < 0 || b.WhitespaceMax > 1 || b.WhitespaceMin > b.WhitespaceMax {
		return invalid("balance whitespace range [%v, %v] invalid", b.WhitespaceMin, b.WhitespaceMax)
	}
	if b.IdealSpacing <= 0 {
		return invalid("balance.ideal_spacing must be positive")
	}
	return nil
}

// =============================================================================
// Backends
// =============================================================================

// OpenCache builds the configured cache.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheMemory:
		return cache.NewMemoryCache(10 * time.Minute), nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   c.RedisAddr,
			DB:     c.RedisDB,
			Prefix: c.Prefix,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "open redis cache")
		}
		return rc, nil
	default:
		dir := c.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "open file cache")
		}
		return fc, nil
	}
}

// NewKeyer returns the cache keyer, scoped to Namespace when one is set.
func (c CacheConfig) NewKeyer() cache.Keyer {
	if c.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Namespace+":")
}

// OpenStore builds the configured document store.
func (c StoreConfig) OpenStore(ctx context.Context) (store.Store, error) {
	if c.Backend == StoreMongo {
		ms, err := store.NewMongoStore(ctx, store.MongoOptions{URI: c.URI, Database: c.Database})
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	fs, err := store.NewFileStore(c.Dir)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// NewAnalyzer builds the configured analyzer. The "none" analyzer always
// fails, so every analysis falls back to the heuristic.
func (c VisionConfig) NewAnalyzer() vision.Analyzer {
	switch c.Analyzer {
	case VisionNone:
		return vision.AnalyzerFunc(func(context.Context, []byte) (vision.Analysis, error) {
			return vision.Analysis{}, errors.New(errors.ErrCodeVisionUnavailable, "vision disabled by configuration")
		})
	case VisionHTTP:
		return vision.NewHTTPAnalyzer(c.Endpoint, c.Rate, c.Burst)
	}
	return vision.NewImageAnalyzer()
}
