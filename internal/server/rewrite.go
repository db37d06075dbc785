package server

import (
	"strings"

	"github.com/Kush-Singh-26/devserve/internal/config"
)

// Rewriter maps request paths onto other locations under the served root.
type Rewriter struct {
	rules []config.RewriteRule
}

// NewRewriter keeps rules in configuration order.
func NewRewriter(rules []config.RewriteRule) *Rewriter {
	return &Rewriter{rules: append([]config.RewriteRule(nil), rules...)}
}

// Rewrite applies the first rule whose prefix starts p, replacing that
// prefix once. Later occurrences of the prefix are left alone, and at most
// one rule ever applies.
func (rw *Rewriter) Rewrite(p string) string {
	for _, r := range rw.rules {
		if strings.HasPrefix(p, r.Prefix) {
			return strings.Replace(p, r.Prefix, r.Target, 1)
		}
	}
	return p
}
