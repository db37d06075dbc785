package server

import (
	"testing"

	"github.com/Kush-Singh-26/devserve/internal/config"
)

func TestRewrite_DocsRule(t *testing.T) {
	rw := NewRewriter(config.Default().Rewrites)

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "bare prefix", path: "/docs", want: "/docs/html"},
		{name: "trailing slash", path: "/docs/", want: "/docs/html/"},
		{name: "file under docs", path: "/docs/index.html", want: "/docs/html/index.html"},
		{name: "prefix repeated later", path: "/docs/docs/nested.html", want: "/docs/html/docs/nested.html"},
		{name: "literal prefix match", path: "/docsearch.js", want: "/docs/htmlearch.js"},
		{name: "prefix not at start", path: "/api/docs/index.html", want: "/api/docs/index.html"},
		{name: "root", path: "/", want: "/"},
		{name: "wasm", path: "/app.wasm", want: "/app.wasm"},
		{name: "case sensitive", path: "/Docs/index.html", want: "/Docs/index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rw.Rewrite(tt.path); got != tt.want {
				t.Errorf("Rewrite(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestRewrite_AppliedOnce(t *testing.T) {
	rw := NewRewriter(config.Default().Rewrites)

	once := rw.Rewrite("/docs/index.html")
	twice := rw.Rewrite(once)
	if once != "/docs/html/index.html" {
		t.Fatalf("Rewrite() = %q", once)
	}
	// A second pass would match again; the handler must only rewrite once
	if twice != "/docs/html/html/index.html" {
		t.Errorf("second Rewrite() = %q", twice)
	}
}

func TestRewrite_FirstMatchingRuleWins(t *testing.T) {
	rw := NewRewriter([]config.RewriteRule{
		{Prefix: "/docs/api", Target: "/generated/api"},
		{Prefix: "/docs", Target: "/docs/html"},
		{Prefix: "/generated", Target: "/never"},
	})

	tests := []struct {
		path string
		want string
	}{
		{path: "/docs/api/index.html", want: "/generated/api/index.html"},
		{path: "/docs/guide.html", want: "/docs/html/guide.html"},
		{path: "/generated/x", want: "/never/x"},
		{path: "/other", want: "/other"},
	}

	for _, tt := range tests {
		if got := rw.Rewrite(tt.path); got != tt.want {
			t.Errorf("Rewrite(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRewrite_NoRules(t *testing.T) {
	rw := NewRewriter(nil)
	if got := rw.Rewrite("/docs/index.html"); got != "/docs/index.html" {
		t.Errorf("Rewrite() = %q, want unchanged", got)
	}
}
