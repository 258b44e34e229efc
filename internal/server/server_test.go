package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adlayout/internal/metrics"
	"github.com/matzehuels/adlayout/pkg/cache"
	"github.com/matzehuels/adlayout/pkg/compose"
	"github.com/matzehuels/adlayout/pkg/config"
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/pipeline"
	"github.com/matzehuels/adlayout/pkg/store"
	"github.com/matzehuels/adlayout/pkg/typography"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	runner := pipeline.NewRunner(cache.NewMemoryCache(time.Minute), nil, logger)
	engine := compose.NewEngine(typography.ApproxMeasurer{}, logger)
	s := New(config.Default(), runner, engine, st, metrics.New(), logger)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				t.Fatal(err)
			}
			r = bytes.NewReader(data)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func composeBody() map[string]any {
	return map[string]any{
		"headline":     "Summer Sale",
		"product_name": "Sneaker X",
		"colors":       map[string]string{"background": "#000000", "text": "#111111"},
	}
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/healthz", "/version", "/metrics"} {
		resp, _ := do(t, ts, http.MethodGet, path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestTemplates(t *testing.T) {
	ts := newTestServer(t)
	resp, data := do(t, ts, http.MethodGet, "/v1/templates?has_offer=true&tone=luxury", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, data)
	}
	var body struct {
		Templates []struct {
			Definition  struct{ ID string } `json:"definition"`
			Suitability float64             `json:"suitability"`
		} `json:"templates"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Templates) != 5 {
		t.Fatalf("got %d templates, want 5", len(body.Templates))
	}
	if body.Templates[0].Definition.ID != "urgency-v1" || body.Templates[0].Suitability != 100 {
		t.Errorf("first template = %+v, want urgency-v1 at 100", body.Templates[0])
	}

	resp, _ = do(t, ts, http.MethodGet, "/v1/templates?has_offer=maybe", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad has_offer status = %d, want 400", resp.StatusCode)
	}
}

func TestGrid(t *testing.T) {
	ts := newTestServer(t)
	resp, data := do(t, ts, http.MethodGet, "/v1/grid/story", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body gridResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if body.Config.Height != 1920 || len(body.Overlay.Columns) != 12 {
		t.Errorf("grid = %vpx high with %d columns, want 1920 and 12", body.Config.Height, len(body.Overlay.Columns))
	}

	resp, data = do(t, ts, http.MethodGet, "/v1/grid/banner", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown format status = %d, want 400", resp.StatusCode)
	}
	var e errorBody
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatal(err)
	}
	if e.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %s, want %s", e.Code, errors.ErrCodeInvalidFormat)
	}
}

func TestComposeAndDocuments(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, ts, http.MethodPost, "/v1/compose?save=true", composeBody())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("compose status = %d: %s", resp.StatusCode, data)
	}
	var out composeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Saved || out.Cached {
		t.Errorf("saved = %v, cached = %v, want true, false", out.Saved, out.Cached)
	}
	if !out.Output.Quality.AccessibilityPassed {
		t.Errorf("AccessibilityPassed = false: %v", out.Output.Quality.Issues)
	}
	id := out.Output.Document.ID

	_, data = do(t, ts, http.MethodPost, "/v1/compose", composeBody())
	var again composeResponse
	if err := json.Unmarshal(data, &again); err != nil {
		t.Fatal(err)
	}
	if !again.Cached {
		t.Error("second compose not served from cache")
	}

	resp, data = do(t, ts, http.MethodGet, "/v1/documents/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get document status = %d: %s", resp.StatusCode, data)
	}

	resp, data = do(t, ts, http.MethodGet, "/v1/documents?limit=10", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list struct {
		Documents []struct{ ID string } `json:"documents"`
	}
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Documents) != 1 || list.Documents[0].ID != id {
		t.Errorf("documents = %+v, want [%s]", list.Documents, id)
	}

	resp, _ = do(t, ts, http.MethodDelete, "/v1/documents/"+id, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
	resp, data = do(t, ts, http.MethodGet, "/v1/documents/"+id, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
	var e errorBody
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatal(err)
	}
	if e.Code != errors.ErrCodeNotFound {
		t.Errorf("code = %s, want NOT_FOUND", e.Code)
	}
}

func TestComposeRejects(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body any
		code errors.Code
	}{
		{"empty body", "", errors.ErrCodeInvalidInput},
		{"malformed", "{", errors.ErrCodeInvalidInput},
		{"unknown field", `{"headline": "x", "bogus": 1}`, errors.ErrCodeInvalidInput},
		{"missing headline", map[string]any{"product_name": "x"}, errors.ErrCodeInvalidInput},
		{"bad format", map[string]any{"headline": "x", "product_name": "x", "format": "banner"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, ts, http.MethodPost, "/v1/compose", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var e errorBody
			if err := json.Unmarshal(data, &e); err != nil {
				t.Fatal(err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
		})
	}
}

func TestComposeFormatsAndVariants(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, ts, http.MethodPost, "/v1/compose/formats", map[string]any{
		"input":   composeBody(),
		"formats": []string{"square", "story"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("formats status = %d: %s", resp.StatusCode, data)
	}
	var formats struct {
		Outputs []compose.Output `json:"outputs"`
	}
	if err := json.Unmarshal(data, &formats); err != nil {
		t.Fatal(err)
	}
	if len(formats.Outputs) != 2 || formats.Outputs[1].Metadata.Format != "story" {
		t.Errorf("formats outputs = %d, want 2 ending with story", len(formats.Outputs))
	}

	resp, data = do(t, ts, http.MethodPost, "/v1/compose/variants", composeBody())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("variants status = %d: %s", resp.StatusCode, data)
	}
	var variants struct {
		Outputs []compose.Output `json:"outputs"`
	}
	if err := json.Unmarshal(data, &variants); err != nil {
		t.Fatal(err)
	}
	if len(variants.Outputs) != 5 {
		t.Errorf("variants = %d, want 5", len(variants.Outputs))
	}
}

func TestVariations(t *testing.T) {
	ts := newTestServer(t)
	body := map[string]any{"template_id": "minimal-v1", "tone": "bold", "count": 10}

	resp, data := do(t, ts, http.MethodPost, "/v1/variations", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var out variationsResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Variations) > 10 {
		t.Errorf("got %d variations, want at most 10", len(out.Variations))
	}
	for _, v := range out.Variations {
		if v.Scores.Overall < 70 {
			t.Errorf("variation %s scores %v, below the floor", v.ID, v.Scores.Overall)
		}
	}

	resp, _ = do(t, ts, http.MethodPost, "/v1/variations", map[string]any{"template_id": "nope"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown template status = %d, want 400", resp.StatusCode)
	}
	resp, _ = do(t, ts, http.MethodPost, "/v1/variations", map[string]any{"template_id": "minimal-v1", "count": 501})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("count 501 status = %d, want 400", resp.StatusCode)
	}
}

func TestOrchestrateSaves(t *testing.T) {
	ts := newTestServer(t)
	body := map[string]any{
		"product_name": "Sneaker X",
		"has_offer":    true,
		"count":        20,
		"min_quality":  1,
	}
	resp, data := do(t, ts, http.MethodPost, "/v1/orchestrate?save=true", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var out struct {
		Result struct {
			Variations []struct{ ID string } `json:"variations"`
		} `json:"result"`
		Document *struct{ ID string } `json:"document"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Result.Variations) == 0 {
		t.Fatal("no variations returned")
	}
	if out.Document == nil {
		t.Fatal("document not exported")
	}
	resp, _ = do(t, ts, http.MethodGet, "/v1/documents/"+out.Document.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("saved document status = %d, want 200", resp.StatusCode)
	}
}

func TestContrast(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name       string
		body       map[string]any
		wantAA     bool
		wantAdjust bool
	}{
		{"black on white", map[string]any{"foreground": "#000000", "background": "#FFFFFF"}, true, false},
		{"grey on grey", map[string]any{"foreground": "#777777", "background": "#808080"}, false, false},
		{"grey adjusted", map[string]any{"foreground": "#777777", "background": "#808080", "adjust": true}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, ts, http.MethodPost, "/v1/contrast", tt.body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, data)
			}
			var out contrastResponse
			if err := json.Unmarshal(data, &out); err != nil {
				t.Fatal(err)
			}
			if out.Result.Passes.AA != tt.wantAA {
				t.Errorf("AA = %v, want %v", out.Result.Passes.AA, tt.wantAA)
			}
			if got := out.Adjusted != ""; got != tt.wantAdjust {
				t.Errorf("adjusted = %q, want adjustment %v", out.Adjusted, tt.wantAdjust)
			}
			if tt.wantAdjust && (out.After == nil || !out.After.Passes.AA) {
				t.Errorf("adjusted result = %+v, want AA pass", out.After)
			}
		})
	}

	resp, _ := do(t, ts, http.MethodPost, "/v1/contrast", map[string]any{"foreground": "red", "background": "#FFFFFF"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid color status = %d, want 400", resp.StatusCode)
	}
}

func TestPalette(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBg     string
	}{
		{"dark brand", "/v1/palette/1E3A8A", http.StatusOK, "#000000"},
		{"light brand", "/v1/palette/fde68a", http.StatusOK, "#FFFFFF"},
		{"short form", "/v1/palette/FFF", http.StatusOK, "#FFFFFF"},
		{"invalid", "/v1/palette/GGGGGG", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, ts, http.MethodGet, tt.path, nil)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.wantStatus, data)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var out paletteResponse
			if err := json.Unmarshal(data, &out); err != nil {
				t.Fatal(err)
			}
			if out.Accessible.Background != tt.wantBg {
				t.Errorf("background = %s, want %s", out.Accessible.Background, tt.wantBg)
			}
			if len(out.Schemes) != 5 {
				t.Errorf("schemes = %d, want 5", len(out.Schemes))
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidSpan, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidConfig, "x"), http.StatusBadRequest},
		{store.ErrNotFound, http.StatusNotFound},
		{errors.New(errors.ErrCodeVisionUnavailable, "x"), http.StatusInternalServerError},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
