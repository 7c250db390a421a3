package css

import (
	"regexp"
	"strings"
)

// declarationPattern matches a line holding exactly one declaration:
// lowercase property, colon, value without semicolons, optional trailing
// semicolon.
var declarationPattern = regexp.MustCompile(`^\s*([a-z-]+)\s*:\s*([^;]+);?\s*$`)

// lockedProperties are fixed by the editor frame and cannot be changed from
// learner text. Container is always "display: flex".
var lockedProperties = map[string]bool{
	"display": true,
}

// IsLocked reports whether hyphen-case property is fixed by the editor.
func IsLocked(property string) bool {
	return lockedProperties[property]
}

// matchDeclaration returns hyphen-case property and trimmed value of the line
// if it holds a single declaration.
func matchDeclaration(line string) (string, string, bool) {
	m := declarationPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// ParseDeclarations turns free-form learner text into a style mapping. Text
// is scanned line by line, lines which are not a single declaration are
// skipped silently since they are usually still being typed. When property
// repeats the later line wins.
func ParseDeclarations(text string) Style {
	style := make(Style)
	if strings.TrimSpace(text) == "" {
		return style
	}
	for line := range strings.Lines(text) {
		property, value, ok := matchDeclaration(strings.TrimRight(line, "\r\n"))
		if !ok || IsLocked(property) {
			continue
		}
		style[PropertyName(property)] = value
	}
	return style
}
