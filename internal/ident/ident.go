// Package ident compares SQL identifiers.
//
// The SQL parser folds unquoted identifiers to lower case, while catalog
// documents and file names keep whatever case their authors chose. Every
// identity comparison in leapgraph goes through this package so that
// "Users", "users" and "USERS" name the same table.
package ident

import (
	"strings"

	"golang.org/x/text/cases"
)

// keySep cannot appear in an identifier read from a catalog or parser.
const keySep = "\x1f"

// Fold returns the case-folded form of s.
// A Caser is stateful, so a fresh one is used per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Equal reports whether a and b name the same identifier.
func Equal(a, b string) bool {
	if a == b {
		return true
	}
	return Fold(a) == Fold(b)
}

// EqualPath reports whether two qualified paths match segment by segment.
func EqualPath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Key returns a map key for a qualified path.
func Key(path []string) string {
	folded := make([]string, len(path))
	for i, seg := range path {
		folded[i] = Fold(seg)
	}
	return strings.Join(folded, keySep)
}
