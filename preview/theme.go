package preview

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed theme.toml
var defaultTheme []byte

type (
	PageTheme struct {
		Title            string `toml:"title"`
		Background       string `toml:"background"`
		Font             string `toml:"font"`
		EditorBackground string `toml:"editor_background"`
		EditorColor      string `toml:"editor_color"`
	}

	ContainerTheme struct {
		MinHeight  string `toml:"min_height"`
		Padding    string `toml:"padding"`
		Background string `toml:"background"`
	}

	ItemTheme struct {
		Width  string `toml:"width"`
		Height string `toml:"height"`
		Radius string `toml:"radius"`
	}

	DeskTheme struct {
		ItemTheme
		Opacity string `toml:"opacity"`
		// Border without color, desk color is appended.
		Border string `toml:"border"`
	}

	// Theme describes fixed geometry and colors of the preview.
	Theme struct {
		WrapGap   string         `toml:"wrap_gap"`
		Page      PageTheme      `toml:"page"`
		Container ContainerTheme `toml:"container"`
		Student   ItemTheme      `toml:"student"`
		Desk      DeskTheme      `toml:"desk"`
	}
)

// DefaultTheme returns theme built into the program.
func DefaultTheme() (*Theme, error) {
	t := &Theme{}
	if err := decodeTheme(defaultTheme, t); err != nil {
		return nil, fmt.Errorf("bad built-in theme: %w", err)
	}
	return t, nil
}

// LoadTheme returns built-in theme with values from file at path laid over
// it. Empty path means built-in theme.
func LoadTheme(path string) (*Theme, error) {
	t, err := DefaultTheme()
	if err != nil || len(path) == 0 {
		return t, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read theme file: %w", err)
	}
	if err := decodeTheme(data, t); err != nil {
		return nil, fmt.Errorf("unable to decode theme file '%s': %w", path, err)
	}
	return t, nil
}

func decodeTheme(data []byte, t *Theme) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(t)
}
