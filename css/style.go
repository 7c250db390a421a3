// Package css implements the small subset of CSS handling the tutorial
// needs: tolerant line-by-line declaration parsing, solution checking and
// style maps used to render the preview.
package css

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"unicode"
)

// Style maps camelCase property names (e.g. "justifyContent") to values.
// Styles are treated as immutable snapshots: every function returning a
// Style returns a fresh map.
type Style map[string]string

// PropertyName converts hyphen-case CSS property name to the camelCase form
// used as Style key ("justify-content" -> "justifyContent").
func PropertyName(name string) string {
	if !strings.Contains(name, "-") {
		return name
	}
	var b strings.Builder
	b.Grow(len(name))
	upper := false
	for _, r := range name {
		switch {
		case r == '-':
			if upper {
				b.WriteByte('-')
			}
			upper = true
		case upper && r >= 'a' && r <= 'z':
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		default:
			if upper {
				// keep hyphen when it is not followed by a letter
				b.WriteByte('-')
				upper = false
			}
			b.WriteRune(r)
		}
	}
	if upper {
		b.WriteByte('-')
	}
	return b.String()
}

// CSSName converts camelCase Style key back to hyphen-case CSS property name.
func CSSName(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Merge layers styles in order, later layers override earlier ones. Nil
// layers are skipped. Result is always a new non-nil map.
func Merge(layers ...Style) Style {
	size := 0
	for _, l := range layers {
		size += len(l)
	}
	out := make(Style, size)
	for _, l := range layers {
		maps.Copy(out, l)
	}
	return out
}

// Clone returns a copy of the style.
func (s Style) Clone() Style {
	return Merge(s)
}

// With returns a copy of the style with a single property set.
func (s Style) With(key, value string) Style {
	return Merge(s, Style{key: value})
}

// Keys returns property keys in alphabetical order.
func (s Style) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// Equal reports whether both styles hold the same declarations.
func (s Style) Equal(other Style) bool {
	return maps.Equal(s, other)
}

// WriteTo writes style as CSS declarations, one per line, sorted by property
// name for deterministic output, implementing io.WriterTo.
func (s Style) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, key := range s.Keys() {
		n, err := fmt.Fprintf(w, "%s: %s;\n", CSSName(key), s[key])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns declarations block text.
func (s Style) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// Inline returns declarations suitable for HTML style attribute.
func (s Style) Inline() string {
	parts := make([]string, 0, len(s))
	for _, key := range s.Keys() {
		parts = append(parts, CSSName(key)+": "+s[key])
	}
	return strings.Join(parts, "; ")
}
