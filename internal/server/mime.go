package server

import (
	"sort"
	"strings"
)

// contentTypes holds suffix -> media type overrides, checked before the
// standard extension table.
type contentTypes struct {
	suffixes []string
	types    map[string]string
}

func newContentTypes(overrides map[string]string) contentTypes {
	ct := contentTypes{types: make(map[string]string, len(overrides))}
	for suffix, mediaType := range overrides {
		ct.suffixes = append(ct.suffixes, suffix)
		ct.types[suffix] = mediaType
	}
	// Longest suffix first so ".tar.gz" beats ".gz"
	sort.Slice(ct.suffixes, func(i, j int) bool {
		if len(ct.suffixes[i]) != len(ct.suffixes[j]) {
			return len(ct.suffixes[i]) > len(ct.suffixes[j])
		}
		return ct.suffixes[i] < ct.suffixes[j]
	})
	return ct
}

// lookup matches the literal, case-sensitive suffix of the request path.
func (ct contentTypes) lookup(requestPath string) (string, bool) {
	for _, suffix := range ct.suffixes {
		if strings.HasSuffix(requestPath, suffix) {
			return ct.types[suffix], true
		}
	}
	return "", false
}
