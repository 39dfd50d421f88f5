package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/licensetower/pkg/cache"
)

func newTestClient(t *testing.T, h http.HandlerFunc, headers map[string]string) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	client := NewClient(c, "test:", time.Hour, headers)
	client.SetHTTPClient(server.Client())
	return client, server
}

func TestNewClient(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	defer c.Close()

	client := NewClient(c, "test:", time.Hour, map[string]string{"Authorization": "Bearer token"})
	if client.http == nil {
		t.Error("http client is nil")
	}
	if client.cache != cache.Cache(c) {
		t.Error("cache not set")
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("headers not set")
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, nil)
	if client.cache == nil {
		t.Fatal("nil cache should be replaced")
	}
	if client.headers != nil {
		t.Error("nil headers should stay nil")
	}
}

func TestClientGet(t *testing.T) {
	var ua string
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(map[string]string{"message": "hello"})
	}, nil)

	var resp struct {
		Message string `json:"message"`
	}
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("message = %q, want hello", resp.Message)
	}
	if ua != UserAgent {
		t.Errorf("User-Agent = %q", ua)
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var gotDefault, gotOverride string
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotDefault = r.Header.Get("X-Default")
		gotOverride = r.Header.Get("X-Override")
		w.Write([]byte(`{}`))
	}, map[string]string{"X-Default": "default", "X-Override": "default"})

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{"X-Override": "overridden"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if gotDefault != "default" {
		t.Errorf("X-Default = %q", gotDefault)
	}
	if gotOverride != "overridden" {
		t.Errorf("X-Override = %q, want overridden", gotOverride)
	}
}

func TestClientGetText(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<project/>"))
	}, nil)

	text, err := client.GetText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetText() error: %v", err)
	}
	if text != "<project/>" {
		t.Errorf("GetText() = %q", text)
	}
}

func TestClientGetStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		want      error
		retryable bool
	}{
		{"not found", http.StatusNotFound, ErrNotFound, false},
		{"gone", http.StatusGone, ErrNotFound, false},
		{"server error", http.StatusInternalServerError, ErrNetwork, true},
		{"forbidden", http.StatusForbidden, ErrNetwork, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}, nil)

			_, err := client.GetBytes(context.Background(), server.URL)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if got := cache.IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestClientCachedHit(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	defer c.Close()
	client := NewClient(c, "test:", time.Hour, nil)

	type data struct {
		Value string `json:"value"`
	}
	fetches := 0
	fetch := func(v *data) func() error {
		return func() error {
			fetches++
			v.Value = "fetched"
			return nil
		}
	}

	var first data
	if err := client.Cached(context.Background(), "key", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	var second data
	if err := client.Cached(context.Background(), "key", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetches != 1 {
		t.Errorf("fetches = %d, want 1", fetches)
	}
	if second.Value != "fetched" {
		t.Errorf("cached value = %q", second.Value)
	}

	// The namespace is applied to the stored key.
	if _, hit, _ := c.Get(context.Background(), "test:key"); !hit {
		t.Error("expected entry under namespaced key")
	}
}

func TestClientCachedRefresh(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	defer c.Close()
	client := NewClient(c, "test:", time.Hour, nil)

	fetches := 0
	var value string
	fetch := func() error {
		fetches++
		value = "fetched"
		return nil
	}

	for i := 0; i < 2; i++ {
		if err := client.Cached(context.Background(), "key", true, &value, fetch); err != nil {
			t.Fatalf("Cached() error: %v", err)
		}
	}
	if fetches != 2 {
		t.Errorf("fetches = %d, want 2", fetches)
	}
}

func TestClientCachedFetchError(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, nil)

	fetches := 0
	var value string
	err := client.Cached(context.Background(), "key", false, &value, func() error {
		fetches++
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Cached() error = %v, want ErrNotFound", err)
	}
	if fetches != 1 {
		t.Errorf("non-retryable error fetched %d times, want 1", fetches)
	}
}

func TestClientCachedBytes(t *testing.T) {
	var requests atomic.Int32
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte("<project/>"))
	}, nil)

	ctx := context.Background()
	fetch := func() ([]byte, error) { return client.GetBytes(ctx, server.URL) }

	for i := 0; i < 3; i++ {
		data, err := client.CachedBytes(ctx, "pom", false, fetch)
		if err != nil {
			t.Fatalf("CachedBytes() error: %v", err)
		}
		if string(data) != "<project/>" {
			t.Errorf("data = %q", data)
		}
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code      int
		wantErr   bool
		want      error
		retryable bool
	}{
		{code: 200},
		{code: 404, wantErr: true, want: ErrNotFound},
		{code: 410, wantErr: true, want: ErrNotFound},
		{code: 429, wantErr: true, want: ErrNetwork, retryable: true},
		{code: 500, wantErr: true, want: ErrNetwork, retryable: true},
		{code: 503, wantErr: true, want: ErrNetwork, retryable: true},
		{code: 400, wantErr: true, want: ErrNetwork},
		{code: 403, wantErr: true, want: ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := checkStatus(tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkStatus(%d) = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("checkStatus(%d) = %v, want %v", tt.code, err, tt.want)
			}
			if cache.IsRetryable(err) != tt.retryable {
				t.Errorf("checkStatus(%d) retryable = %v, want %v", tt.code, !tt.retryable, tt.retryable)
			}
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	if got := NewHTTPClient().Timeout; got != httpTimeout {
		t.Errorf("Timeout = %v, want %v", got, httpTimeout)
	}
}
