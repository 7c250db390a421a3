package css

import (
	"fmt"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Reason explains why a line does not contribute to the preview.
type Reason int

const (
	ReasonNotDeclaration Reason = iota // line is not a CSS declaration at all
	ReasonMultiple                     // several declarations on a single line
	ReasonUpperCase                    // property name is not lowercase
	ReasonComment                      // comments are not supported
	ReasonLocked                       // property is fixed by the editor frame
	ReasonMalformed                    // looks like declaration, but does not fit line pattern
)

func (r Reason) String() string {
	switch r {
	case ReasonMultiple:
		return "several declarations on one line, preview needs one per line"
	case ReasonUpperCase:
		return "property names must be lowercase"
	case ReasonComment:
		return "comments are ignored"
	case ReasonLocked:
		return "property is fixed by the editor"
	case ReasonMalformed:
		return "declaration is malformed"
	default:
		return "not a CSS declaration"
	}
}

// Diagnostic describes single line ignored by ParseDeclarations.
type Diagnostic struct {
	Line       int      // 1-based line number
	Text       string   // line as typed
	Reason     Reason
	Properties []string // property names recognized on the line, if any
}

func (d Diagnostic) String() string {
	if len(d.Properties) > 0 {
		return fmt.Sprintf("line %d: %s (%s)", d.Line, d.Reason, strings.Join(d.Properties, ", "))
	}
	return fmt.Sprintf("line %d: %s", d.Line, d.Reason)
}

// maxGrammarSteps bounds tokenizer loop for a single line.
const maxGrammarSteps = 256

// Diagnose reports every non-blank line of learner text which is skipped by
// ParseDeclarations together with probable reason. It has no influence on
// parsing or checking and is only used to give hints.
func Diagnose(text string) []Diagnostic {
	var diags []Diagnostic
	num := 0
	for line := range strings.Lines(text) {
		num++
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if property, _, ok := matchDeclaration(line); ok {
			if IsLocked(property) {
				diags = append(diags, Diagnostic{Line: num, Text: line, Reason: ReasonLocked, Properties: []string{property}})
			}
			continue
		}
		diags = append(diags, explain(num, line))
	}
	return diags
}

// explain tokenizes line as inline declaration list to find out what learner
// meant.
func explain(num int, line string) Diagnostic {
	d := Diagnostic{Line: num, Text: line, Reason: ReasonNotDeclaration}

	p := css.NewParser(parse.NewInputString(line), true)

	comments := 0
	for range maxGrammarSteps {
		gt, _, data := p.Next()
		if gt == css.ErrorGrammar {
			break
		}
		switch gt {
		case css.DeclarationGrammar:
			d.Properties = append(d.Properties, string(data))
		case css.CommentGrammar:
			comments++
		}
	}

	switch {
	case len(d.Properties) > 1:
		d.Reason = ReasonMultiple
	case hasUpper(line) && matchesLowered(line):
		d.Reason = ReasonUpperCase
	case len(d.Properties) == 1:
		d.Reason = ReasonMalformed
	case comments > 0:
		d.Reason = ReasonComment
	}
	return d
}

// matchesLowered reports whether line would be accepted with different case.
func matchesLowered(line string) bool {
	_, _, ok := matchDeclaration(strings.ToLower(line))
	return ok
}

func hasUpper(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}
