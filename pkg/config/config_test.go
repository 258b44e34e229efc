package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/adlayout/pkg/cache"
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/store"
	"github.com/matzehuels/adlayout/pkg/vision"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Variation.QualityFloor != 70 {
		t.Errorf("QualityFloor = %v, want 70", cfg.Variation.QualityFloor)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, CacheFile)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[variation]
quality_floor = 75
workers = 4

[compose]
format = "story"

[cache]
backend = "memory"
ttl = "2h"

[vision]
analyzer = "http"
endpoint = "https://vision.example.com/analyze"
timeout = "3s"

[server]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Variation.QualityFloor != 75 || cfg.Variation.Workers != 4 {
		t.Errorf("Variation = %+v, want floor 75 and 4 workers", cfg.Variation)
	}
	if cfg.Variation.SimilarityThreshold != 70 {
		t.Errorf("SimilarityThreshold = %v, want default 70", cfg.Variation.SimilarityThreshold)
	}
	if cfg.Compose.Format != grid.FormatStory {
		t.Errorf("Compose.Format = %q, want story", cfg.Compose.Format)
	}
	if cfg.Compose.CTAText != "Shop Now" {
		t.Errorf("Compose.CTAText = %q, want default", cfg.Compose.CTAText)
	}
	if cfg.Cache.TTL.Duration != 2*time.Hour {
		t.Errorf("Cache.TTL = %v, want 2h", cfg.Cache.TTL)
	}
	if cfg.Vision.Timeout.Duration != 3*time.Second {
		t.Errorf("Vision.Timeout = %v, want 3s", cfg.Vision.Timeout)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if _, ok := cfg.Vision.NewAnalyzer().(*vision.HTTPAnalyzer); !ok {
		t.Errorf("NewAnalyzer() = %T, want *vision.HTTPAnalyzer", cfg.Vision.NewAnalyzer())
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[variation`},
		{"unknown key", "[cache]\nbakend = \"file\""},
		{"bad duration", "[cache]\nttl = \"soon\""},
		{"floor out of range", "[variation]\nquality_floor = 120"},
		{"balance weights", "[balance.weights]\nhorizontal = 0.9"},
		{"unknown cache", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\"\nredis_addr = \"\""},
		{"mongo without uri", "[store]\nbackend = \"mongo\""},
		{"http without endpoint", "[vision]\nanalyzer = \"http\""},
		{"unknown format", "[compose]\nformat = \"banner\""},
		{"zero timeout", "[vision]\ntimeout = \"0s\""},
		{"empty addr", "[server]\naddr = \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !errors.IsConfiguration(err) {
				t.Errorf("Parse() error = %v, want a configuration error", err)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if want := filepath.Join("/tmp/cfg", "adlayout", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		backend string
		check   func(cache.Cache) bool
	}{
		{CacheNone, func(c cache.Cache) bool { _, ok := c.(cache.NullCache); return ok }},
		{CacheMemory, func(c cache.Cache) bool { _, ok := c.(*cache.MemoryCache); return ok }},
		{CacheFile, func(c cache.Cache) bool { _, ok := c.(*cache.FileCache); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cc := CacheConfig{Backend: tt.backend, Dir: t.TempDir()}
			c, err := cc.OpenCache(ctx)
			if err != nil {
				t.Fatalf("OpenCache: %v", err)
			}
			defer c.Close()
			if !tt.check(c) {
				t.Errorf("OpenCache(%q) = %T", tt.backend, c)
			}
		})
	}

	st, err := StoreConfig{Backend: StoreFile, Dir: t.TempDir()}.OpenStore(ctx)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if _, ok := st.(*store.FileStore); !ok {
		t.Errorf("OpenStore(file) = %T, want *store.FileStore", st)
	}

	_, err = (VisionConfig{Analyzer: VisionNone}).NewAnalyzer().Analyze(ctx, []byte("png"))
	if !errors.Is(err, errors.ErrCodeVisionUnavailable) {
		t.Errorf("none analyzer error = %v, want VISION_UNAVAILABLE", err)
	}
}

func TestCacheKeyer(t *testing.T) {
	plain := CacheConfig{}.NewKeyer()
	scoped := CacheConfig{Namespace: "acme"}.NewKeyer()

	if got := plain.AnalysisKey("h", 1); strings.HasPrefix(got, "acme:") {
		t.Errorf("unscoped key %s carries a namespace", got)
	}
	if got, want := scoped.AnalysisKey("h", 1), "acme:"+plain.AnalysisKey("h", 1); got != want {
		t.Errorf("AnalysisKey = %s, want %s", got, want)
	}
	if scoped.LayoutKey("in", cache.LayoutKeyOpts{}) == plain.LayoutKey("in", cache.LayoutKeyOpts{}) {
		t.Error("namespaced layout key collides with the unscoped key")
	}
}
