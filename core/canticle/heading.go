package canticle

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/commedia/core/errors"
	"github.com/FocuswithJustin/commedia/core/roman"
)

// Heading is a parsed canto heading such as "Inferno • Canto XIV".
type Heading struct {
	Canticle string // Capitalized canticle name as written
	Numeral  string // Roman numeral as written
	Canto    int    // Converted canto number
}

// HeadingPrefix returns the text every canto heading of the named canticle starts with.
func HeadingPrefix(name string) string {
	return Title(name) + " • Canto "
}

// headingGrammar is the participle grammar for canto headings.
//
//nolint:govet // participle grammar tags are not standard struct tags
type headingGrammar struct {
	Canticle string `@Word "•" "Canto"`
	Numeral  string `@Word`
}

var headingLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `\p{L}+`},
	{Name: "Bullet", Pattern: `•`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var headingParser = participle.MustBuild[headingGrammar](
	participle.Lexer(headingLexer),
	participle.Elide("Whitespace"),
)

// ParseHeading parses a canto heading and converts its roman numeral.
func ParseHeading(s string) (*Heading, error) {
	s = strings.TrimSpace(s)
	parsed, err := headingParser.ParseString("", s)
	if err != nil {
		return nil, &errors.ParseError{
			Format:  "heading",
			Message: fmt.Sprintf("%q: %v", s, err),
			Err:     errors.ErrMalformedLine,
		}
	}

	number, err := roman.ToInt(parsed.Numeral)
	if err != nil {
		return nil, errors.Wrapf(err, "heading %q", s)
	}

	return &Heading{
		Canticle: parsed.Canticle,
		Numeral:  parsed.Numeral,
		Canto:    number,
	}, nil
}
