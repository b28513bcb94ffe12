package httpds

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{InsecureSkipVerify: true, MaxRetries: -1})
	if c.httpClient.Timeout <= 0 || c.initialBackoff <= 0 || c.maxBackoff <= 0 {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if c.maxRetries != 0 {
		t.Fatalf("maxRetries = %d, want 0", c.maxRetries)
	}
	tr, ok := c.httpClient.Transport.(*http.Transport)
	if !ok || tr.TLSClientConfig == nil || !tr.TLSClientConfig.InsecureSkipVerify {
		t.Fatalf("transport = %#v, want insecure TLS config", c.httpClient.Transport)
	}
}

func TestSourceOpen_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "CallNumber,Delay\n1,3.0\n")
	}))
	defer srv.Close()

	c := NewClient(Config{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond})
	rc, err := NewSource(srv.URL, c).Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "CallNumber,Delay\n1,3.0\n" {
		t.Fatalf("body = %q", body)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Fatalf("hits = %d, want 3", got)
	}
}

func TestSourceOpen_Failures(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond})

	if _, err := NewSource(srv.URL+"/missing", c).Open(context.Background()); err == nil {
		t.Fatalf("404: want error")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("404 hits = %d, want 1 (not retried)", got)
	}

	if _, err := NewSource(srv.URL+"/flaky", c).Open(context.Background()); err == nil {
		t.Fatalf("502: want error after retries")
	}
	if got := atomic.LoadInt32(&hits); got != 4 {
		t.Fatalf("total hits = %d, want 4", got)
	}
}

func TestGet_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(Config{}).Get(ctx, "http://127.0.0.1:1/"); err == nil {
		t.Fatalf("want context error")
	}
}

func TestBackoffDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		retry int
		want  time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{10, time.Second},
	}
	for _, tt := range tests {
		if got := backoffDuration(100*time.Millisecond, tt.retry, time.Second); got != tt.want {
			t.Errorf("backoffDuration(retry=%d) = %v, want %v", tt.retry, got, tt.want)
		}
	}
}
