package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/devserve/internal/config"
)

// HandlerOptions configures the static file handler.
type HandlerOptions struct {
	Rewrites         []config.RewriteRule
	ContentTypes     map[string]string
	IndexFiles       []string
	DirectoryListing bool
	NotFoundPage     string // relative to the root, empty for the plain body
	Logger           *slog.Logger
}

// HandlerOptionsFromConfig copies the file-serving settings out of cfg.
func HandlerOptionsFromConfig(cfg *config.Config, logger *slog.Logger) HandlerOptions {
	return HandlerOptions{
		Rewrites:         cfg.Rewrites,
		ContentTypes:     cfg.ContentTypes,
		IndexFiles:       cfg.IndexFiles,
		DirectoryListing: cfg.DirectoryListing,
		NotFoundPage:     cfg.NotFoundPage,
		Logger:           logger,
	}
}

type fileHandler struct {
	fs       afero.Fs
	rewriter *Rewriter
	types    contentTypes
	opts     HandlerOptions
	logger   *slog.Logger
}

// NewHandler serves files from fsys, which must already be rooted at the
// served directory. Every per-request failure is answered with an HTTP
// status; nothing propagates past ServeHTTP.
func NewHandler(fsys afero.Fs, opts HandlerOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &fileHandler{
		fs:       fsys,
		rewriter: NewRewriter(opts.Rewrites),
		types:    newContentTypes(opts.ContentTypes),
		opts:     opts,
		logger:   logger,
	}
}

func (h *fileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		h.writeError(w, r, http.StatusMethodNotAllowed)
		return
	}

	requestPath := r.URL.Path
	if !strings.HasPrefix(requestPath, "/") {
		requestPath = "/" + requestPath
	}

	name, err := resolvePath(h.rewriter.Rewrite(requestPath))
	if err != nil {
		h.logger.Warn("Rejected request path", "path", r.URL.Path, "error", err)
		h.writeError(w, r, http.StatusForbidden)
		return
	}

	f, err := h.fs.Open(name)
	if err != nil {
		h.fail(w, r, name, err)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		h.fail(w, r, name, err)
		return
	}

	if info.IsDir() {
		h.serveDir(w, r, name, f)
		return
	}
	if !info.Mode().IsRegular() {
		h.writeError(w, r, http.StatusNotFound)
		return
	}

	if mediaType, ok := h.types.lookup(requestPath); ok {
		w.Header().Set("Content-Type", mediaType)
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (h *fileHandler) serveDir(w http.ResponseWriter, r *http.Request, name string, dir afero.File) {
	if !strings.HasSuffix(r.URL.Path, "/") {
		http.Redirect(w, r, redirectTarget(r.URL.Path, r.URL.RawQuery), http.StatusMovedPermanently)
		return
	}

	for _, index := range h.opts.IndexFiles {
		if h.serveIndex(w, r, path.Join(name, index)) {
			return
		}
	}

	if !h.opts.DirectoryListing {
		h.writeError(w, r, http.StatusNotFound)
		return
	}

	entries, err := dir.Readdir(-1)
	if err != nil {
		h.fail(w, r, name, err)
		return
	}
	h.writeListing(w, r, entries)
}

// serveIndex reports whether indexName existed and was served.
func (h *fileHandler) serveIndex(w http.ResponseWriter, r *http.Request, indexName string) bool {
	f, err := h.fs.Open(indexName)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	http.ServeContent(w, r, indexName, info.ModTime(), f)
	return true
}

func (h *fileHandler) fail(w http.ResponseWriter, r *http.Request, name string, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Failed to serve file", "path", name, "error", err)
	} else {
		h.logger.Debug("File not served", "path", name, "status", status, "error", err)
	}
	h.writeError(w, r, status)
}

func (h *fileHandler) writeError(w http.ResponseWriter, r *http.Request, status int) {
	if status == http.StatusNotFound && h.opts.NotFoundPage != "" {
		if content, err := afero.ReadFile(h.fs, path.Join("/", h.opts.NotFoundPage)); err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(status)
			if r.Method != http.MethodHead {
				_, _ = w.Write(content)
			}
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = fmt.Fprintf(w, "%d - %s", status, http.StatusText(status))
	}
}
