package css

import "strings"

// Normalize trims text and collapses every run of whitespace to a single
// space. Nothing else is touched: semicolons, case and declaration order
// survive as typed.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Check reports whether learner text matches canonical solution after
// whitespace normalization. The comparison is textual, "display:flex" and
// "display: flex;" are different answers.
func Check(text, solution string) bool {
	return Normalize(text) == Normalize(solution)
}
