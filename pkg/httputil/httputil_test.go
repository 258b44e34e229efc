package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	ctx := context.Background()
	errTransient := errors.New("transient")
	errFatal := errors.New("fatal")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"first try", 0, nil, 1, nil},
		{"non-retryable stops", 5, errFatal, 1, errFatal},
		{"retry then succeed", 2, Retryable(errTransient), 3, nil},
		{"exhausted", 5, Retryable(errTransient), 3, errTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, 3, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error { return Retryable(errors.New("x")) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	base := errors.New("boom")
	err := Retryable(base)
	if !IsRetryable(err) || !errors.Is(err, base) || err.Error() != "boom" {
		t.Errorf("Retryable(boom) = %v", err)
	}
	if IsRetryable(base) {
		t.Error("plain error should not be retryable")
	}
}

func TestDoJSON(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/ok":
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
		case "/busy":
			http.Error(w, "try later", http.StatusServiceUnavailable)
		case "/limited":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			http.Error(w, "bad request", http.StatusBadRequest)
		}
	}))
	defer srv.Close()
	ctx := context.Background()

	var out map[string]string
	if err := DoJSON(ctx, srv.Client(), http.MethodPost, srv.URL+"/ok", map[string]string{"msg": "hi"}, &out); err != nil {
		t.Fatalf("DoJSON(/ok): %v", err)
	}
	if out["echo"] != "hi" {
		t.Errorf("echo = %q, want hi", out["echo"])
	}

	tests := []struct {
		path      string
		status    int
		retryable bool
	}{
		{"/busy", 503, true},
		{"/limited", 429, true},
		{"/bad", 400, false},
	}
	for _, tt := range tests {
		err := DoJSON(ctx, srv.Client(), http.MethodGet, srv.URL+tt.path, nil, nil)
		var serr *StatusError
		if !errors.As(err, &serr) || serr.StatusCode != tt.status {
			t.Errorf("%s: err = %v, want status %d", tt.path, err, tt.status)
		}
		if IsRetryable(err) != tt.retryable {
			t.Errorf("%s: retryable = %v, want %v", tt.path, IsRetryable(err), tt.retryable)
		}
	}
}

func TestDoJSONNetworkErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := DoJSON(context.Background(), nil, http.MethodGet, url, nil, nil)
	if !IsRetryable(err) {
		t.Errorf("err = %v, want retryable", err)
	}
}
