// Package levels holds the puzzle catalog. Catalog is loaded once and never
// changes afterwards.
package levels

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strconv"

	validator "github.com/go-playground/validator/v10"
	"github.com/rupor-github/gencfg"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	yaml "gopkg.in/yaml.v3"

	"flexclass/css"
)

//go:embed levels.yaml
var defaultCatalog []byte

// Target selectors used by levels.
const (
	ContainerSelector = "#student-container"
	ItemSelector      = ".student"
)

type (
	// PropertyDoc is a single entry of the hint panel.
	PropertyDoc struct {
		Name        string `yaml:"name" validate:"required"`
		Description string `yaml:"description" validate:"required"`
	}

	// Student is an item learner moves around.
	Student struct {
		Color     string    `yaml:"color" validate:"required"`
		ClassName string    `yaml:"class,omitempty"`
		Style     css.Style `yaml:"style,omitempty"`
	}

	// Desk is a non-interactive placeholder showing where a student should end up.
	Desk struct {
		Color string    `yaml:"color" validate:"required"`
		Style css.Style `yaml:"style,omitempty"`
	}

	// Level is a single puzzle.
	Level struct {
		ID             int           `yaml:"id" validate:"gt=0"`
		Description    string        `yaml:"description" validate:"required"`
		TargetSelector string        `yaml:"target" validate:"oneof=#student-container .student"`
		Solution       string        `yaml:"solution" validate:"required"`
		Students       []Student     `yaml:"students" validate:"min=1,dive"`
		Desks          []Desk        `yaml:"desks" validate:"dive"`
		TargetLayout   css.Style     `yaml:"target_layout"`
		InitialLayout  css.Style     `yaml:"initial_layout,omitempty"`
		Wrapping       bool          `yaml:"wrapping,omitempty"`
		Properties     []PropertyDoc `yaml:"properties,omitempty" validate:"dive"`
	}

	// Catalog is an ordered list of levels.
	Catalog struct {
		Lang   string  `yaml:"lang" validate:"required,bcp47_language_tag"`
		Levels []Level `yaml:"levels" validate:"min=1,dive"`

		splitter *splitter
	}
)

// TargetsItems reports whether learner declarations apply to every student
// rather than to the container.
func (l Level) TargetsItems() bool {
	return l.TargetSelector == ItemSelector
}

// Default returns catalog built into the program.
func Default(log *zap.Logger) (*Catalog, error) {
	return Load(defaultCatalog, log)
}

// Load decodes and validates catalog data.
func Load(data []byte, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}

	c := &Catalog{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("failed to decode levels: %w", err)
	}
	if err := gencfg.Validate(c, gencfg.WithAdditionalChecks(ascendingIDs)); err != nil {
		return nil, fmt.Errorf("invalid levels: %w", err)
	}

	tag, err := language.Parse(c.Lang)
	if err != nil {
		return nil, fmt.Errorf("bad catalog language: %w", err)
	}
	c.splitter = newSplitter(tag, log)

	log.Debug("Levels loaded", zap.Int("count", len(c.Levels)), zap.Stringer("lang", tag))
	return c, nil
}

// ascendingIDs makes sure level ids are unique and go in ascending order,
// completion set and persisted solutions are keyed by them.
func ascendingIDs(sl validator.StructLevel) {
	c := sl.Current().Interface().(Catalog)
	prev := 0
	for i, l := range c.Levels {
		if l.ID <= prev {
			sl.ReportError(c.Levels[i].ID, fmt.Sprintf("Levels[%d].ID", i), "ID", "ascending", strconv.Itoa(prev))
		}
		prev = l.ID
	}
}

// Len returns number of levels.
func (c *Catalog) Len() int {
	return len(c.Levels)
}

// At returns level at index.
func (c *Catalog) At(index int) (Level, bool) {
	if index < 0 || index >= len(c.Levels) {
		return Level{}, false
	}
	return c.Levels[index], true
}

// Index returns position of level with given id or -1.
func (c *Catalog) Index(id int) int {
	for i, l := range c.Levels {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// ByID returns level with given id.
func (c *Catalog) ByID(id int) (Level, error) {
	if i := c.Index(id); i >= 0 {
		return c.Levels[i], nil
	}
	return Level{}, errors.New("no such level")
}

// IDs returns all level ids in catalog order.
func (c *Catalog) IDs() []int {
	ids := make([]int, 0, len(c.Levels))
	for _, l := range c.Levels {
		ids = append(ids, l.ID)
	}
	return ids
}

// Headline returns first sentence of level description.
func (c *Catalog) Headline(l Level) string {
	return c.splitter.First(l.Description)
}
