package server

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// resolvePath turns a (rewritten) request path into a clean, slash-separated
// name inside the served root. Any ".." segment is rejected rather than
// clamped, so a traversal attempt never reaches the filesystem.
func resolvePath(requestPath string) (string, error) {
	if strings.IndexByte(requestPath, 0) >= 0 {
		return "", errInvalidPath
	}
	// http.Dir applies the same restriction on Windows
	if filepath.Separator != '/' && strings.ContainsRune(requestPath, filepath.Separator) {
		return "", errInvalidPath
	}

	for _, segment := range strings.Split(requestPath, "/") {
		if segment == ".." {
			return "", errTraversal
		}
	}

	return validatePath("/", path.Clean("/"+requestPath))
}

// validatePath ensures that name stays within base after cleaning.
func validatePath(base, name string) (string, error) {
	rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(name))
	if err != nil {
		return "", errTraversal
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errTraversal
	}
	return name, nil
}

// redirectTarget builds the Location for a directory requested without a
// trailing slash. Leading slashes are collapsed so the result can never be
// read as a scheme-relative URL.
func redirectTarget(requestPath, rawQuery string) string {
	target := "/" + strings.TrimLeft(requestPath, "/")
	if !strings.HasSuffix(target, "/") {
		target += "/"
	}
	target = (&url.URL{Path: target}).EscapedPath()
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target
}
