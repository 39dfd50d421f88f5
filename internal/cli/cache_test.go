package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/licensetower/pkg/cache"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCachePathCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(home, appName); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	fc, err := newFileCache()
	if err != nil {
		t.Fatalf("newFileCache: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"maven:pom:a", "maven:pom:b"} {
		if err := fc.Set(ctx, key, []byte(`"x"`), time.Hour); err != nil {
			t.Fatalf("Set(%s): %v", key, err)
		}
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	for _, key := range []string{"maven:pom:a", "maven:pom:b"} {
		if _, ok, _ := fc.Get(ctx, key); ok {
			t.Errorf("%s still cached after clear", key)
		}
	}
}

func TestCacheClearCommandEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear on missing dir: %v", err)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	t.Run("no cache", func(t *testing.T) {
		got, err := c.newCache(ctx, defaultConfig(), true)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := got.(*cache.NullCache); !ok {
			t.Errorf("newCache(noCache) = %T, want *cache.NullCache", got)
		}
	})

	t.Run("file cache", func(t *testing.T) {
		got, err := c.newCache(ctx, defaultConfig(), false)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := got.(*cache.FileCache); !ok {
			t.Errorf("newCache() = %T, want *cache.FileCache", got)
		}
	})

	t.Run("unreachable redis falls back to file cache", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.RedisAddr = "127.0.0.1:1"
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		got, err := c.newCache(ctx, cfg, false)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := got.(*cache.FileCache); !ok {
			t.Errorf("newCache() = %T, want *cache.FileCache", got)
		}
	})
}
