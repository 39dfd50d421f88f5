package integrations

import (
	"errors"
	"net/http"
	"time"

	"github.com/matzehuels/licensetower/pkg/buildinfo"
)

const httpTimeout = 10 * time.Second

// UserAgent identifies licensetower to registries.
var UserAgent = buildinfo.UserAgent()

var (
	// ErrNotFound is returned when a package or resource doesn't exist in the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
