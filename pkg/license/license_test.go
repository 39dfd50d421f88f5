package license

import "testing"

func TestIdentityKey(t *testing.T) {
	id := Identity{Group: "org.apache.commons", Artifact: "commons-lang3"}
	if got := id.Key(); got != "org.apache.commons:commons-lang3" {
		t.Errorf("Key() = %q", got)
	}
	if id.String() != id.Key() {
		t.Errorf("String() = %q, want Key()", id.String())
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key    string
		want   Identity
		wantOK bool
	}{
		{"g:a", Identity{"g", "a"}, true},
		{"g:a:1.0", Identity{"g", "a"}, true},
		{"g", Identity{}, false},
		{":a", Identity{}, false},
		{"g:", Identity{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := ParseKey(tt.key)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseKey(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestProjectWithVersion(t *testing.T) {
	orig := Project{
		Identity: Identity{"g", "a"},
		Version:  "1.0",
		Licenses: []License{{Name: "MIT", URL: "https://opensource.org/licenses/MIT"}},
	}

	next := orig.WithVersion("2.0")

	if next.Version != "2.0" {
		t.Errorf("Version = %q, want 2.0", next.Version)
	}
	if orig.Version != "1.0" {
		t.Errorf("original Version changed to %q", orig.Version)
	}
	if next.Identity != orig.Identity {
		t.Errorf("Identity changed: %v", next.Identity)
	}

	next.Licenses[0].Name = "changed"
	if orig.Licenses[0].Name != "MIT" {
		t.Error("WithVersion copy aliases the original license slice")
	}
}

func TestProjectString(t *testing.T) {
	p := Project{Identity: Identity{"g", "a"}, Version: "1.0"}
	if got := p.String(); got != "g:a:1.0" {
		t.Errorf("String() = %q", got)
	}
	p.Version = ""
	if got := p.String(); got != "g:a" {
		t.Errorf("String() without version = %q", got)
	}
}

func TestProjectEqual(t *testing.T) {
	a := Project{Identity: Identity{"g", "a"}, Version: "1", Licenses: []License{{URL: "u1"}, {URL: "u2"}}}
	b := a.WithVersion("1")
	if !a.Equal(b) {
		t.Error("Equal() = false for identical projects")
	}
	b.Licenses = []License{{URL: "u2"}, {URL: "u1"}}
	if a.Equal(b) {
		t.Error("Equal() = true for different license order")
	}
}
