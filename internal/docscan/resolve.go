package docscan

import (
	"path"
	"strings"
)

// Resolve returns the logical path of reference as seen from the document at
// referencing. An empty reference yields referencing itself. A leading slash
// makes the reference site-root relative.
//
// Resolve never fails: a reference climbing above the root keeps its leading
// ".." segments (see EscapesRoot).
func Resolve(referencing, reference string) string {
	if reference == "" {
		return Clean(referencing)
	}
	if strings.HasPrefix(reference, "/") {
		return Clean(reference)
	}
	return Clean(path.Join(path.Dir(referencing), reference))
}

// Clean normalizes a logical path. Leading slashes are dropped; Clean is
// idempotent.
func Clean(p string) string {
	return path.Clean(strings.TrimLeft(p, "/"))
}

// EscapesRoot reports whether a cleaned logical path points outside the tree.
func EscapesRoot(p string) bool {
	return p == ".." || strings.HasPrefix(p, "../")
}
