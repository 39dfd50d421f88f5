package deps

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/licensetower/pkg/errors"
)

// ListSource reads the output of "mvn dependency:list".
//
// Lines look like
//
//	[INFO]    org.slf4j:slf4j-api:jar:2.0.9:compile -- module org.slf4j
//
// with an optional classifier between type and version. Anything else in
// the file is ignored. The list does not tell direct from transitive
// dependencies, so both modes return every entry.
type ListSource struct {
	path string
	opts Options
}

// NewListSource creates a Source for the dependency list at path.
func NewListSource(path string, opts Options) *ListSource {
	return &ListSource{path: path, opts: opts.WithDefaults()}
}

// Dependencies implements [Source].
func (s *ListSource) Dependencies(ctx context.Context, transitive bool) ([]Artifact, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("read dependency list: %w", err)
	}
	defer f.Close()

	if !transitive {
		s.opts.Logger("%s: dependency list includes transitive dependencies", s.path)
	}

	var out []Artifact
	seen := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, ok := parseListLine(sc.Text())
		if !ok || seen[a.Key()] {
			continue
		}
		seen[a.Key()] = true
		out = append(out, a)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dependency list: %w", err)
	}
	return out, nil
}

func parseListLine(line string) (Artifact, bool) {
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(strings.TrimPrefix(line, "[INFO]"))
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Artifact{}, false
	}

	parts := strings.Split(fields[0], ":")
	var a Artifact
	switch len(parts) {
	case 5:
		a = Artifact{Group: parts[0], Artifact: parts[1], Type: parts[2], Version: parts[3], Scope: parts[4]}
	case 6:
		a = Artifact{Group: parts[0], Artifact: parts[1], Type: parts[2], Classifier: parts[3], Version: parts[4], Scope: parts[5]}
	default:
		return Artifact{}, false
	}
	if a.Version == "" || errors.ValidateCoordinate(a.Group, a.Artifact) != nil {
		return Artifact{}, false
	}
	return a, true
}
