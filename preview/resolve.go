// Package preview turns level and learner text into concrete styles for
// every visible element and renders them as a standalone HTML page.
package preview

import (
	"flexclass/css"
	"flexclass/levels"
)

// Item is a single student or desk.
type Item struct {
	Color string
	Class string
	Style css.Style
}

// Scene holds resolved styles of everything preview shows.
type Scene struct {
	Level  levels.Level
	Text   string
	Parsed css.Style

	Container     css.Style
	Students      []Item
	DeskContainer css.Style
	Desks         []Item
}

// Resolve computes styles for level with learner text applied. Layers go
// from fixed geometry to learner declarations, later layers win. Desks never
// see learner declarations.
func Resolve(level levels.Level, text string, theme *Theme) Scene {
	parsed := css.ParseDeclarations(text)

	var gap css.Style
	if level.Wrapping {
		gap = css.Style{"gap": theme.WrapGap}
	}

	var containerText, itemText css.Style
	if level.TargetsItems() {
		itemText = parsed
	} else {
		containerText = parsed
	}

	scene := Scene{
		Level:  level,
		Text:   text,
		Parsed: parsed,
		Container: css.Merge(
			css.Style{"display": "flex", "minHeight": theme.Container.MinHeight, "width": "100%"},
			level.InitialLayout,
			gap,
			containerText,
		),
		DeskContainer: css.Merge(
			deskContainerBase(level),
			level.TargetLayout,
			gap,
		),
	}

	for _, s := range level.Students {
		scene.Students = append(scene.Students, Item{
			Color: s.Color,
			Class: s.ClassName,
			Style: css.Merge(
				css.Style{
					"width":           theme.Student.Width,
					"height":          theme.Student.Height,
					"borderRadius":    theme.Student.Radius,
					"backgroundColor": s.Color,
				},
				s.Style,
				itemText,
			),
		})
	}

	for _, d := range level.Desks {
		scene.Desks = append(scene.Desks, Item{
			Color: d.Color,
			Style: css.Merge(
				css.Style{
					"width":           theme.Desk.Width,
					"height":          theme.Desk.Height,
					"borderRadius":    theme.Desk.Radius,
					"backgroundColor": d.Color,
					"opacity":         theme.Desk.Opacity,
					"border":          theme.Desk.Border + " " + d.Color,
				},
				d.Style,
			),
		})
	}
	return scene
}

// deskContainerBase fills the whole container so desks line up with the
// students above them. Wrapping levels grow with content.
func deskContainerBase(level levels.Level) css.Style {
	s := css.Style{"display": "flex", "width": "100%"}
	if !level.Wrapping {
		s["height"] = "100%"
	}
	return s
}
