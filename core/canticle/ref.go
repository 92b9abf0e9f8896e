package canticle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/commedia/core/errors"
	"github.com/FocuswithJustin/commedia/core/roman"
)

// Ref addresses a canticle, canto, line or word.
type Ref struct {
	// Canticle is the lowercase canticle name.
	Canticle string `json:"canticle"`

	// Canto is the canto number (0 for whole-canticle references).
	Canto int `json:"canto,omitempty"`

	// Line is the line number (0 for whole-canto references).
	Line int `json:"line,omitempty"`

	// Word is the 1-based word position (0 for whole-line references).
	Word int `json:"word,omitempty"`
}

// refGrammar is the participle grammar for references.
// Examples: "Inferno", "Inferno.1", "Inferno.XXXIV.139", "Paradiso.33.145.2"
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Canticle string    `@Ident`
	CantoRef *cantoRef `( "." @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type cantoRef struct {
	Number  *int     `( @Int`
	Numeral *string  `| @Numeral )`
	LineRef *lineRef `( "." @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type lineRef struct {
	Line int  `@Int`
	Word *int `( "." @Int )?`
}

// refLexer defines the lexer for references.
// Ident needs a lowercase second letter so that numerals such as "XIV" are not
// taken for canticle names.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z][a-z]+`},
	{Name: "Numeral", Pattern: `[IVXLCDM]+`},
	{Name: "Punct", Pattern: `\.`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses a reference string. The canto may be written in decimal or
// as a roman numeral.
func ParseRef(s string) (*Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.NewParse("reference", "", "empty reference string")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, &errors.ParseError{Format: "reference", Message: fmt.Sprintf("%q: %v", s, err)}
	}

	name := strings.ToLower(parsed.Canticle)
	if !IsKnown(name) {
		return nil, errors.NewNotFound("canticle", parsed.Canticle)
	}

	ref := &Ref{Canticle: name}
	if cr := parsed.CantoRef; cr != nil {
		if cr.Numeral != nil {
			n, err := roman.ToInt(*cr.Numeral)
			if err != nil {
				return nil, errors.Wrapf(err, "reference %q", s)
			}
			ref.Canto = n
		} else if cr.Number != nil {
			ref.Canto = *cr.Number
		}

		if lr := cr.LineRef; lr != nil {
			ref.Line = lr.Line
			if lr.Word != nil {
				ref.Word = *lr.Word
			}
		}
	}

	return ref, nil
}

// String returns the canonical dotted form, e.g. "Inferno.1.3".
func (r *Ref) String() string {
	var sb strings.Builder
	sb.WriteString(Title(r.Canticle))
	for _, part := range []int{r.Canto, r.Line, r.Word} {
		if part == 0 {
			break
		}
		sb.WriteString(".")
		sb.WriteString(strconv.Itoa(part))
	}
	return sb.String()
}

// Match is the result of resolving a Ref. Fields below the reference's depth
// are nil (or 0 for Word).
type Match struct {
	Canticle *Canticle
	Canto    *Canto
	Line     *Line
	Word     int
}

// Find resolves ref against parsed canticles.
func Find(canticles []*Canticle, ref *Ref) (*Match, error) {
	m := &Match{}
	for _, c := range canticles {
		if c.Name == ref.Canticle {
			m.Canticle = c
			break
		}
	}
	if m.Canticle == nil {
		return nil, errors.NewNotFound("canticle", ref.Canticle)
	}
	if ref.Canto == 0 {
		return m, nil
	}

	if m.Canto = m.Canticle.Canto(ref.Canto); m.Canto == nil {
		return nil, errors.NewNotFound("canto", ref.String())
	}
	if ref.Line == 0 {
		return m, nil
	}

	if m.Line = m.Canto.Line(ref.Line); m.Line == nil {
		return nil, errors.NewNotFound("line", ref.String())
	}
	if ref.Word == 0 {
		return m, nil
	}

	if ref.Word > m.Line.WordCount() {
		return nil, errors.NewNotFound("word", ref.String())
	}
	m.Word = ref.Word
	return m, nil
}
