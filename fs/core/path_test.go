package core_test

import (
	"testing"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// TestNewPathNormalization verifies lexical normalization of names.
func TestNewPathNormalization(t *testing.T) {
	tests := []struct {
		name  string
		elems []string
		want  string
	}{
		{"empty", nil, "."},
		{"root slash", []string{"/"}, "."},
		{"dot", []string{"."}, "."},
		{"simple", []string{"a/b.txt"}, "a/b.txt"},
		{"joined", []string{"a", "b", "c.txt"}, "a/b/c.txt"},
		{"trailing slash", []string{"a/b/"}, "a/b"},
		{"double slash", []string{"a//b"}, "a/b"},
		{"inner dot", []string{"a/./b"}, "a/b"},
		{"inner dotdot", []string{"a/b/../c"}, "a/c"},
		{"escape above root", []string{"../../a"}, "a"},
		{"leading slash", []string{"/a/b"}, "a/b"},
		{"only dotdot", []string{".."}, "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := core.NewPath(nil, tt.elems...)
			if got := p.String(); got != tt.want {
				t.Errorf("NewPath(%q).String() = %q, want %q", tt.elems, got, tt.want)
			}
		})
	}
}

// TestPathLexical verifies the pure path components.
func TestPathLexical(t *testing.T) {
	p := core.NewPath(nil, "web/simple/index.html")

	if got := p.Base(); got != "index.html" {
		t.Errorf("Base() = %q, want %q", got, "index.html")
	}
	if got := p.Ext(); got != ".html" {
		t.Errorf("Ext() = %q, want %q", got, ".html")
	}
	if got := p.Parent().String(); got != "web/simple" {
		t.Errorf("Parent() = %q, want %q", got, "web/simple")
	}
	if got := p.Join("..", "other").String(); got != "web/simple/other" {
		t.Errorf("Join(.., other) = %q, want %q", got, "web/simple/other")
	}
	if p.IsRoot() {
		t.Error("IsRoot() = true for a nested path")
	}
}

// TestPathRoot verifies the backend root's fixed points.
func TestPathRoot(t *testing.T) {
	root := core.NewPath(nil)

	if !root.IsRoot() {
		t.Error("IsRoot() = false for the root")
	}
	if got := root.Parent(); !got.IsRoot() {
		t.Errorf("Parent() of root = %q, want the root itself", got)
	}
	if got := root.Base(); got != "." {
		t.Errorf("Base() of root = %q, want %q", got, ".")
	}
	if got := root.Join("a").String(); got != "a" {
		t.Errorf("Join(a) on root = %q, want %q", got, "a")
	}
}

// TestPathMatch verifies lexical pattern matching.
func TestPathMatch(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
		wantErr bool
	}{
		{"a/b.txt", "a/*.txt", true, false},
		{"a/b.txt", "*.txt", false, false},
		{"b.txt", "*.txt", true, false},
		{"a/b.txt", "a/?.txt", true, false},
		{"a/b.txt", "[", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.path+"_"+tt.pattern, func(t *testing.T) {
			got, err := core.NewPath(nil, tt.path).Match(tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Match(%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}
