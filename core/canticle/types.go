package canticle

import (
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FocuswithJustin/commedia/core/roman"
)

// Canticle names as they appear in source file names and document keys.
const (
	Inferno    = "inferno"
	Purgatorio = "purgatorio"
	Paradiso   = "paradiso"
)

// Names lists the canticles in reading order.
var Names = []string{Inferno, Purgatorio, Paradiso}

// IsKnown reports whether name is one of the three canticles.
func IsKnown(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

var titleCaser = cases.Title(language.Italian)

// Title returns the capitalized form of a canticle name ("inferno" -> "Inferno").
func Title(name string) string {
	return titleCaser.String(name)
}

// Canticle is one of the three major divisions of the work.
type Canticle struct {
	// Name is the lowercase canticle name (e.g., "inferno").
	Name string `json:"name"`

	// Cantos are ordered as encountered in the source.
	Cantos []*Canto `json:"cantos"`
}

// Title returns the capitalized canticle name.
func (c *Canticle) Title() string {
	return Title(c.Name)
}

// Canto returns the canto with the given number, or nil.
func (c *Canticle) Canto(number int) *Canto {
	for _, canto := range c.Cantos {
		if canto.Number == number {
			return canto
		}
	}
	return nil
}

// LineCount returns the number of verse lines across all cantos.
func (c *Canticle) LineCount() int {
	n := 0
	for _, canto := range c.Cantos {
		n += len(canto.Lines)
	}
	return n
}

// WordCount returns the number of words across all cantos.
func (c *Canticle) WordCount() int {
	n := 0
	for _, canto := range c.Cantos {
		for _, line := range canto.Lines {
			n += line.WordCount()
		}
	}
	return n
}

// BoundaryCount returns the total number of syllable boundary markers.
func (c *Canticle) BoundaryCount() int {
	n := 0
	for _, canto := range c.Cantos {
		for _, line := range canto.Lines {
			for _, s := range line.Syllables {
				n += s
			}
		}
	}
	return n
}

// Canto is a chapter-like subdivision of a canticle.
type Canto struct {
	// Number is converted from the roman numeral heading.
	Number int `json:"number"`

	// Lines are ordered by strictly increasing line number.
	Lines []*Line `json:"lines"`
}

// Numeral returns the canto number as a roman numeral, or the decimal
// number when it is outside the representable range.
func (c *Canto) Numeral() string {
	s, err := roman.FromInt(c.Number)
	if err != nil {
		return strconv.Itoa(c.Number)
	}
	return s
}

// Line returns the line with the given number, or nil.
func (c *Canto) Line(number int) *Line {
	for _, line := range c.Lines {
		if line.Number == number {
			return line
		}
	}
	return nil
}

// Line is a single verse line.
type Line struct {
	Number      int    `json:"number"`
	FirstLetter string `json:"first_letter"`
	Rhyme       string `json:"rhyme"`

	// Syllables holds the boundary count of each word; word position p
	// (1-based) is Syllables[p-1].
	Syllables []int `json:"syllables"`

	// Words holds the literal text of each word with markers removed,
	// co-indexed with Syllables.
	Words []string `json:"words"`
}

// WordCount returns the number of words in the line.
func (l *Line) WordCount() int {
	return len(l.Syllables)
}
