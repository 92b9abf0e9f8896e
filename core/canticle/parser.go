package canticle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/FocuswithJustin/commedia/core/errors"
)

// PrefixWidth is the width, in characters, of the right-aligned line number field.
const PrefixWidth = 4

// maxLineBytes bounds a single source line.
const maxLineBytes = 1 << 20

// ParseFile opens path and parses it as the named canticle.
func ParseFile(name, path string) (*Canticle, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIO("open", path, fmt.Errorf("%w: %w", errors.ErrMissingInput, err))
		}
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	p := &parser{name: name, path: path}
	return p.parse(f)
}

// Parse parses the source text of the named canticle.
// Any structural error aborts the parse; no partial canticle is returned.
func Parse(name string, r io.Reader) (*Canticle, error) {
	p := &parser{name: name}
	return p.parse(r)
}

type parser struct {
	name string
	path string
}

func (p *parser) fail(lineNo int, err error) *errors.ParseError {
	return &errors.ParseError{
		Format:  "canticle",
		Path:    p.path,
		Line:    lineNo,
		Message: err.Error(),
		Err:     err,
	}
}

func (p *parser) parse(r io.Reader) (*Canticle, error) {
	if !IsKnown(p.name) {
		return nil, errors.NewValidation("canticle", fmt.Sprintf("unknown canticle %q", p.name))
	}

	c := &Canticle{Name: p.name, Cantos: []*Canto{}}
	prefix := HeadingPrefix(p.name)
	title := Title(p.name)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var canto *Canto
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := norm.NFC.String(scanner.Text())

		if strings.TrimSpace(text) == "" {
			continue
		}

		if strings.HasPrefix(text, prefix) {
			h, err := ParseHeading(text)
			if err != nil {
				return nil, p.fail(lineNo, err)
			}
			if h.Canticle != title {
				return nil, p.fail(lineNo, fmt.Errorf("%w: heading names %q in %s", errors.ErrMalformedLine, h.Canticle, title))
			}
			if c.Canto(h.Canto) != nil {
				return nil, p.fail(lineNo, fmt.Errorf("%w: duplicate canto %d", errors.ErrMalformedLine, h.Canto))
			}
			canto = &Canto{Number: h.Canto, Lines: []*Line{}}
			c.Cantos = append(c.Cantos, canto)
			continue
		}

		if canto == nil {
			return nil, p.fail(lineNo, fmt.Errorf("%w: verse line before the first canto heading", errors.ErrMalformedLine))
		}

		line, err := parseVerse(text)
		if err != nil {
			return nil, p.fail(lineNo, err)
		}
		if n := len(canto.Lines); n > 0 && line.Number <= canto.Lines[n-1].Number {
			return nil, p.fail(lineNo, fmt.Errorf("%w: line %d follows line %d in canto %d",
				errors.ErrMalformedLine, line.Number, canto.Lines[n-1].Number, canto.Number))
		}
		canto.Lines = append(canto.Lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.NewIO("read", p.path, err)
	}

	return c, nil
}

// parseVerse parses one verse line: number prefix, then marker-annotated words.
func parseVerse(text string) (*Line, error) {
	runes := []rune(text)
	width := min(PrefixWidth, len(runes))
	field := string(runes[:width])

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, field)
	if digits == "" {
		return nil, fmt.Errorf("%w: no digits in line number field %q", errors.ErrMalformedLine, field)
	}
	number, err := strconv.Atoi(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: line number %q: %v", errors.ErrMalformedLine, digits, err)
	}

	words := strings.Fields(string(runes[width:]))
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: line %d has no words", errors.ErrMalformedLine, number)
	}

	first := []rune(words[0])
	if len(first) < 2 {
		return nil, fmt.Errorf("%w: first word %q of line %d is too short", errors.ErrMalformedLine, words[0], number)
	}

	line := &Line{
		Number:      number,
		FirstLetter: string(first[1]),
		Rhyme:       RhymeFragment(words[len(words)-1]),
		Syllables:   make([]int, len(words)),
		Words:       make([]string, len(words)),
	}
	for i, w := range words {
		line.Syllables[i] = SyllableCount(w)
		line.Words[i] = WordText(w)
	}
	return line, nil
}
