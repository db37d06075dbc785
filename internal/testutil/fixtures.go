// Package testutil provides served-root fixtures for tests
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// WasmBytes is a minimal valid WebAssembly module header.
var WasmBytes = "\x00asm\x01\x00\x00\x00"

// SampleFiles is the served-root layout shared by the server tests:
// an app, its wasm binary, and a generated docs tree under docs/html.
var SampleFiles = map[string]string{
	"index.html":                 "<html><body>app</body></html>",
	"app.wasm":                   WasmBytes,
	"app.js":                     "console.log('app');",
	"style.css":                  "body { margin: 0; }",
	"docs/html/index.html":       "<html><body>docs</body></html>",
	"docs/html/classes.html":     "<html><body>classes</body></html>",
	"docs/html/docs/nested.html": "<html><body>nested</body></html>",
	"assets/logo.svg":            "<svg></svg>",
	"assets/data.bin":            "\x01\x02\x03",
	"assets/fonts/readme.txt":    "fonts",
}

// CreateTestFilesystem returns an in-memory served root holding SampleFiles.
func CreateTestFilesystem(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range SampleFiles {
		if err := WriteFileVFS(fs, "/"+name, []byte(content)); err != nil {
			t.Fatalf("Failed to create fixture %s: %v", name, err)
		}
	}
	return fs
}

// CreateTestRoot writes SampleFiles into a temporary directory and returns its path.
func CreateTestRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	fs := afero.NewBasePathFs(afero.NewOsFs(), root)
	for name, content := range SampleFiles {
		if err := WriteFileVFS(fs, "/"+name, []byte(content)); err != nil {
			t.Fatalf("Failed to create fixture %s: %v", name, err)
		}
	}
	return root
}

// WriteFile creates name (slash-separated, relative to root) on disk.
func WriteFile(t *testing.T, root, name, content string) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(name, "/")))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return full
}

// WriteFileVFS writes data to path, creating parent directories.
func WriteFileVFS(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write VFS file %s: %w", path, err)
	}
	return nil
}
