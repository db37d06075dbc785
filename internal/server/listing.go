package server

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
)

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Directory listing for {{.Path}}</title>
</head>
<body>
<h1>Directory listing for {{.Path}}</h1>
<hr>
<ul>
{{range .Entries}}<li><a href="{{.Href}}">{{.Name}}</a></li>
{{end}}</ul>
<hr>
</body>
</html>
`))

type listingEntry struct {
	Name string
	Href string
}

type listingPage struct {
	Path    string
	Entries []listingEntry
}

// writeListing renders entries sorted case-insensitively, directories
// suffixed with "/".
func (h *fileHandler) writeListing(w http.ResponseWriter, r *http.Request, entries []os.FileInfo) {
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	page := listingPage{Path: r.URL.Path, Entries: make([]listingEntry, 0, len(entries))}
	for _, e := range entries {
		name := e.Name()
		href := (&url.URL{Path: name}).String()
		if e.IsDir() {
			name += "/"
			href += "/"
		}
		page.Entries = append(page.Entries, listingEntry{Name: name, Href: href})
	}

	var buf bytes.Buffer
	if err := listingTemplate.Execute(&buf, page); err != nil {
		h.logger.Error("Failed to render directory listing", "path", r.URL.Path, "error", err)
		h.writeError(w, r, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
}
