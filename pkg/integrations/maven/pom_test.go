package maven

import (
	"testing"
)

func TestParsePOM_Latin1(t *testing.T) {
	doc := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?>
<project><artifactId>x</artifactId><licenses><license><name>Licen`), 0xE7, 'a')
	doc = append(doc, []byte(`</name><url>http://example.org/l</url></license></licenses></project>`)...)

	pom, err := parsePOM(doc)
	if err != nil {
		t.Fatalf("parsePOM: %v", err)
	}
	if got := pom.Licenses[0].Name; got != "Licença" {
		t.Errorf("name = %q, want Licença", got)
	}
}

func TestParsePOM_Properties(t *testing.T) {
	pom, err := parsePOM([]byte(`<project>
  <properties>
    <a> 1 </a>
    <b.c>${a}.2</b.c>
  </properties>
</project>`))
	if err != nil {
		t.Fatalf("parsePOM: %v", err)
	}
	if pom.Properties["a"] != "1" || pom.Properties["b.c"] != "${a}.2" {
		t.Errorf("Properties = %v", pom.Properties)
	}
}

func TestParsePOM_NotAProject(t *testing.T) {
	if _, err := parsePOM([]byte(`<html><body>404</body></html>`)); err == nil {
		t.Error("non-POM document should fail")
	}
}

func TestInterpolate(t *testing.T) {
	props := map[string]string{
		"a":       "1",
		"b":       "${a}.2",
		"loop":    "${loop}",
		"version": "3",
	}
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"${a}", "1"},
		{"${b}", "1.2"},
		{"v${version}-${a}", "v3-1"},
		{"${missing}", "${missing}"},
		{"${loop}", "${loop}"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := interpolate(tt.in, props); got != tt.want {
			t.Errorf("interpolate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
