package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"syscall"
	"testing"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "root", path: "/", want: "/"},
		{name: "file", path: "/app.wasm", want: "/app.wasm"},
		{name: "nested", path: "/docs/html/index.html", want: "/docs/html/index.html"},
		{name: "duplicate slashes", path: "//docs///html/", want: "/docs/html"},
		{name: "dot segments", path: "/./docs/./html", want: "/docs/html"},
		{name: "no leading slash", path: "index.html", want: "/index.html"},
		{name: "parent escape", path: "/../../etc/passwd", wantErr: errTraversal},
		{name: "parent inside", path: "/docs/html/../../../etc/passwd", wantErr: errTraversal},
		{name: "trailing parent", path: "/docs/..", wantErr: errTraversal},
		{name: "nul byte", path: "/index.html\x00.txt", wantErr: errInvalidPath},
		{name: "dots in name", path: "/a..b.txt", want: "/a..b.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePath(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("resolvePath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolvePath(%q) unexpected error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("resolvePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestRedirectTarget(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		query string
		want  string
	}{
		{name: "docs", path: "/docs", want: "/docs/"},
		{name: "query kept", path: "/assets", query: "v=1", want: "/assets/?v=1"},
		{name: "scheme relative collapsed", path: "//evil.example", want: "/evil.example/"},
		{name: "escaped", path: "/my dir", want: "/my%20dir/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redirectTarget(tt.path, tt.query); got != tt.want {
				t.Errorf("redirectTarget(%q, %q) = %q, want %q", tt.path, tt.query, got, tt.want)
			}
		})
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not exist", err: fs.ErrNotExist, want: http.StatusNotFound},
		{name: "wrapped not exist", err: &os.PathError{Op: "open", Path: "/x", Err: syscall.ENOENT}, want: http.StatusNotFound},
		{name: "not a directory", err: &os.PathError{Op: "open", Path: "/a.html/b", Err: syscall.ENOTDIR}, want: http.StatusNotFound},
		{name: "permission", err: fmt.Errorf("open: %w", fs.ErrPermission), want: http.StatusForbidden},
		{name: "other", err: errors.New("disk on fire"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestBindError(t *testing.T) {
	inner := errors.New("address already in use")
	err := error(&BindError{Addr: ":8000", Err: inner})

	if !errors.Is(err, inner) {
		t.Error("BindError should unwrap to its cause")
	}
	var bindErr *BindError
	if !errors.As(err, &bindErr) || bindErr.Addr != ":8000" {
		t.Errorf("errors.As() = %v", bindErr)
	}
	if got := err.Error(); got != "cannot listen on :8000: address already in use" {
		t.Errorf("Error() = %q", got)
	}
}
