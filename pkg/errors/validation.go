package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// coordinatePartRegex matches Maven groupId and artifactId segments.
var coordinatePartRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-]*$`)

// ValidateCoordinate validates a Maven groupId/artifactId pair.
//
// The validation rules are intentionally conservative:
//   - Neither part may be empty
//   - No control characters or whitespace
//   - No path traversal sequences (..)
//   - Only letters, digits, '.', '-' and '_'
//   - Maximum length of 256 characters per part
func ValidateCoordinate(group, artifact string) error {
	if err := validateCoordinatePart("groupId", group); err != nil {
		return err
	}
	return validateCoordinatePart("artifactId", artifact)
}

func validateCoordinatePart(kind, value string) error {
	if value == "" {
		return New(ErrCodeInvalidCoordinate, "%s cannot be empty", kind)
	}
	if len(value) > 256 {
		return New(ErrCodeInvalidCoordinate, "%s too long (max 256 characters)", kind)
	}
	for _, r := range value {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters: %q", kind, value)
		}
	}
	if strings.Contains(value, "..") {
		return New(ErrCodeInvalidCoordinate, "%s cannot contain path traversal sequences (..)", kind)
	}
	if !coordinatePartRegex.MatchString(value) {
		return New(ErrCodeInvalidCoordinate, "invalid %s: %q", kind, value)
	}
	return nil
}

// ValidateURL parses rawURL and requires an absolute URL with a scheme.
// Relative references and strings the URL parser rejects are reported
// with ErrCodeInvalidURL.
func ValidateURL(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, New(ErrCodeInvalidURL, "URL cannot be empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, Wrap(ErrCodeInvalidURL, err, "invalid URL %q", rawURL)
	}
	if u.Scheme == "" {
		return nil, New(ErrCodeInvalidURL, "URL %q has no scheme", rawURL)
	}
	return u, nil
}
