package license

import (
	"path"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/licensetower/pkg/errors"
)

// DefaultExtension is appended to file names without a usable extension.
const DefaultExtension = ".txt"

var nameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// FileName derives a stable, flat file name for l.
//
// The base name is the last segment of the URL path. A non-empty license
// name is prefixed as "<name> - ". When the result has no '.' or the last
// '.' is within its final two characters, [DefaultExtension] is appended.
//
// An error with code [errors.ErrCodeInvalidURL] is returned when the URL
// cannot be parsed or has no scheme.
func FileName(l License) (string, error) {
	u, err := errors.ValidateURL(l.URL)
	if err != nil {
		return "", err
	}

	base := lastSegment(u.Path)
	if u.Opaque != "" && base == "" {
		base = lastSegment(u.Opaque)
	}

	name := base
	if l.Name != "" {
		name = nameReplacer.Replace(l.Name) + " - " + base
	}

	idx := strings.LastIndex(name, ".")
	if idx == -1 || utf8.RuneCountInString(name[idx:]) <= 2 {
		name += DefaultExtension
	}
	return name, nil
}

// lastSegment returns the final element of a slash separated path,
// ignoring trailing slashes. The root and the empty path yield "".
func lastSegment(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}
