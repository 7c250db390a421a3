package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/gosimple/slug"

	"flexclass/css"
	"flexclass/levels"
)

const maxSlugLen = 48

// Page carries texts shown around the preview.
type Page struct {
	Lang     string
	Headline string
	Progress string
}

// Document renders scene as a standalone HTML page. Editor part shows learner
// text inside its selector block, classroom part shows desks beneath
// students using resolved inline styles.
func Document(scene Scene, page Page, theme *Theme) *etree.Document {
	doc := etree.NewDocument()
	// empty divs must not be self-closed in HTML
	doc.WriteSettings.CanonicalEndTags = true
	doc.CreateDirective("DOCTYPE html")

	html := doc.CreateElement("html")
	if len(page.Lang) > 0 {
		html.CreateAttr("lang", page.Lang)
	}

	head := html.CreateElement("head")
	head.CreateElement("meta").CreateAttr("charset", "utf-8")
	head.CreateElement("title").SetText(fmt.Sprintf("%s: level %d", theme.Page.Title, scene.Level.ID))
	head.CreateElement("style").SetText(pageStyle(theme))

	body := html.CreateElement("body")
	header := body.CreateElement("header")
	header.CreateElement("h1").SetText(fmt.Sprintf("Level %d", scene.Level.ID))
	if len(page.Progress) > 0 {
		p := header.CreateElement("p")
		p.CreateAttr("class", "progress")
		p.SetText(page.Progress)
	}
	if len(page.Headline) > 0 {
		header.CreateElement("h2").SetText(page.Headline)
	}
	header.CreateElement("p").SetText(scene.Level.Description)

	if len(scene.Level.Properties) > 0 {
		dl := body.CreateElement("dl")
		dl.CreateAttr("class", "properties")
		for _, p := range scene.Level.Properties {
			dl.CreateElement("dt").SetText(p.Name)
			dl.CreateElement("dd").SetText(p.Description)
		}
	}

	pre := body.CreateElement("pre")
	pre.CreateAttr("class", "editor")
	pre.SetText(EditorText(scene.Level, scene.Text))

	classroom := body.CreateElement("div")
	classroom.CreateAttr("class", "classroom")
	classroom.CreateAttr("style", css.Style{"position": "relative", "padding": theme.Container.Padding, "background": theme.Container.Background}.Inline())

	desks := classroom.CreateElement("div")
	desks.CreateAttr("id", "desk-container")
	desks.CreateAttr("style", css.Merge(scene.DeskContainer, css.Style{"position": "absolute", "inset": theme.Container.Padding, "width": "auto"}).Inline())
	for _, d := range scene.Desks {
		div := desks.CreateElement("div")
		div.CreateAttr("class", "desk")
		div.CreateAttr("style", d.Style.Inline())
	}

	students := classroom.CreateElement("div")
	students.CreateAttr("id", strings.TrimPrefix(levels.ContainerSelector, "#"))
	students.CreateAttr("style", css.Merge(scene.Container, css.Style{"position": "relative"}).Inline())
	for _, s := range scene.Students {
		div := students.CreateElement("div")
		div.CreateAttr("class", strings.TrimSpace(strings.TrimPrefix(levels.ItemSelector, ".")+" "+s.Class))
		div.CreateAttr("style", s.Style.Inline())
	}

	doc.Indent(2)
	return doc
}

// EditorText returns learner text wrapped into the selector block exactly
// as editor frame shows it.
func EditorText(level levels.Level, text string) string {
	var b strings.Builder
	b.WriteString(level.TargetSelector)
	b.WriteString(" {\n")
	if !level.TargetsItems() {
		b.WriteString("  display: flex;\n")
	}
	for line := range strings.Lines(text) {
		b.WriteString("  ")
		b.WriteString(strings.TrimRight(line, "\r\n"))
		b.WriteByte('\n')
	}
	b.WriteString("}")
	return b.String()
}

// WriteHTML renders scene and writes it to w.
func WriteHTML(w io.Writer, scene Scene, page Page, theme *Theme) error {
	if _, err := Document(scene, page, theme).WriteTo(w); err != nil {
		return fmt.Errorf("unable to write preview: %w", err)
	}
	return nil
}

// FileName returns file name for level preview, e.g.
// "level-03-practice-using-justify-content-again.html".
func FileName(level levels.Level, headline string) string {
	s := slug.Make(headline)
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
		if i := strings.LastIndexByte(s, '-'); i > 0 {
			s = s[:i]
		}
	}
	if len(s) == 0 {
		return fmt.Sprintf("level-%02d.html", level.ID)
	}
	return fmt.Sprintf("level-%02d-%s.html", level.ID, s)
}

func pageStyle(theme *Theme) string {
	return fmt.Sprintf(`
body { margin: 2em; background: %s; font-family: %s; }
.progress { font-weight: bold; }
.properties dt { font-family: monospace; font-weight: bold; }
.editor { padding: 1em; border-radius: 8px; background: %s; color: %s; }
`, theme.Page.Background, theme.Page.Font, theme.Page.EditorBackground, theme.Page.EditorColor)
}
