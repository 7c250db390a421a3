package tutor

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"unicode/utf8"

	sprig "github.com/go-task/slim-sprig/v3"

	"flexclass/levels"
	"flexclass/preview"
)

const cardTemplates = `
{{- define "list" -}}
{{ range .Levels -}}
{{ printf "%3d" .ID }} {{ if .Done }}[x]{{ else }}[ ]{{ end }} {{ .Headline }}
{{ end -}}
{{ .Header }}
{{ end -}}

{{- define "card" -}}
Level {{ .Level.ID }} of {{ .Count }}{{ if .Done }} (completed){{ end }}
{{ .Headline }}

{{ wrap 76 .Level.Description }}
{{- with .Level.Properties }}

Properties:
{{- range . }}
  {{ printf "%-14s" .Name }} {{ .Description }}
{{- end }}
{{- end }}

{{ .Editor }}
{{ end -}}

{{- define "status" -}}
[level {{ .Level.ID }}/{{ .Count }} {{ .Clock }}{{ with .Countdown }} | {{ . }}{{ end }}] {{ .Header }}
{{ end -}}

{{- define "help" -}}
Type declarations line by line, they are added to the editor.
Commands:
{{- range . }}
  {{ printf "%-12s" .Name }} {{ .Usage }}
{{- end }}
{{ end -}}
`

var cards = template.Must(template.New("cards").Funcs(cardFuncs()).Parse(cardTemplates))

// cardFuncs adds wrap to sprig functions, slim-sprig does not carry it.
func cardFuncs() template.FuncMap {
	funcs := sprig.FuncMap()
	funcs["wrap"] = wrapText
	return funcs
}

// wrapText refills text into lines no longer than width. Words longer than
// width get a line of their own.
func wrapText(width int, text string) string {
	var (
		b    strings.Builder
		line int
	)
	for _, word := range strings.Fields(text) {
		n := utf8.RuneCountInString(word)
		switch {
		case line == 0:
		case line+1+n > width:
			b.WriteByte('\n')
			line = 0
		default:
			b.WriteByte(' ')
			line++
		}
		b.WriteString(word)
		line += n
	}
	return b.String()
}

type listEntry struct {
	ID       int
	Done     bool
	Headline string
}

type listCard struct {
	Levels []listEntry
	Header string
}

type levelCard struct {
	Level    levels.Level
	Count    int
	Done     bool
	Headline string
	Editor   string
}

func newLevelCard(catalog *levels.Catalog, l levels.Level, done bool, text string) levelCard {
	return levelCard{
		Level:    l,
		Count:    catalog.Len(),
		Done:     done,
		Headline: catalog.Headline(l),
		Editor:   preview.EditorText(l, text),
	}
}

func render(w io.Writer, name string, data any) error {
	if err := cards.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("unable to render %s: %w", name, err)
	}
	return nil
}
