package maven

import (
	"regexp"
	"strings"
)

const maxInterpolationPasses = 10

var propertyRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolate replaces ${name} references with values from props.
// References resolving to further references are expanded up to
// maxInterpolationPasses times; unknown references are left as is.
func interpolate(s string, props map[string]string) string {
	for i := 0; i < maxInterpolationPasses && strings.Contains(s, "${"); i++ {
		next := propertyRef.ReplaceAllStringFunc(s, func(ref string) string {
			if v, ok := props[ref[2:len(ref)-1]]; ok {
				return v
			}
			return ref
		})
		if next == s {
			break
		}
		s = next
	}
	return s
}

// unresolved reports whether s still contains a property reference.
func unresolved(s string) bool {
	return strings.Contains(s, "${")
}

// modelProperties returns the implicit project.* properties of a POM.
func modelProperties(groupID, artifactID, version string, parent *pomParent) map[string]string {
	props := map[string]string{
		"project.groupId":    groupID,
		"project.artifactId": artifactID,
		"project.version":    version,
		"pom.groupId":        groupID,
		"pom.artifactId":     artifactID,
		"pom.version":        version,
		"groupId":            groupID,
		"artifactId":         artifactID,
		"version":            version,
	}
	if parent != nil {
		props["project.parent.groupId"] = parent.GroupID
		props["project.parent.artifactId"] = parent.ArtifactID
		props["project.parent.version"] = parent.Version
		props["parent.version"] = parent.Version
	}
	return props
}
