package tables

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/FocuswithJustin/commedia/core/canticle"
	"github.com/FocuswithJustin/commedia/core/errors"
)

// Documents holds the raw bytes of the four documents joined by Decode.
type Documents struct {
	Structure []byte
	Rhymes    []byte
	Letters   []byte
	Words     []byte
}

// Get returns the bytes of the given kind.
func (d *Documents) Get(kind Kind) []byte {
	switch kind {
	case KindStructure:
		return d.Structure
	case KindRhymes:
		return d.Rhymes
	case KindLetters:
		return d.Letters
	case KindWords:
		return d.Words
	}
	return nil
}

// Set stores the bytes of the given kind.
func (d *Documents) Set(kind Kind, data []byte) {
	switch kind {
	case KindStructure:
		d.Structure = data
	case KindRhymes:
		d.Rhymes = data
	case KindLetters:
		d.Letters = data
	case KindWords:
		d.Words = data
	}
}

// entry is an object member whose key is a decimal number.
type entry struct {
	key   string
	n     int
	value gjson.Result
}

// Decode joins the four documents into canticle records.
//
// The structure document drives the join: every canticle, canto, line and
// word it contains must also be present in the rhymes, letters and words
// documents, otherwise a NotFoundError wrapping ErrMissingReference is
// returned and nothing is decoded. Canticles keep document order; cantos,
// lines and words are ordered by numeric key.
func Decode(docs *Documents) ([]*canticle.Canticle, error) {
	roots := make(map[Kind]gjson.Result, len(Kinds))
	for _, kind := range Kinds {
		data := docs.Get(kind)
		if !gjson.ValidBytes(data) {
			return nil, &errors.ParseError{Format: "JSON", Path: string(kind), Message: "invalid JSON document"}
		}
		root := gjson.ParseBytes(data)
		if !root.IsObject() {
			return nil, &errors.ParseError{Format: "JSON", Path: string(kind), Message: "top level is not an object"}
		}
		roots[kind] = root
	}

	d := &decoder{roots: roots}
	var canticles []*canticle.Canticle
	var err error
	roots[KindStructure].ForEach(func(key, value gjson.Result) bool {
		var c *canticle.Canticle
		c, err = d.canticle(key.String(), value)
		if err != nil {
			return false
		}
		canticles = append(canticles, c)
		return true
	})
	if err != nil {
		return nil, err
	}
	return canticles, nil
}

type decoder struct {
	roots map[Kind]gjson.Result
}

// lookup resolves path in the document of the given kind.
func (d *decoder) lookup(kind Kind, resource string, path ...string) (gjson.Result, error) {
	r := d.roots[kind]
	for _, key := range path {
		r = r.Get(escapeKey(key))
		if !r.Exists() {
			return r, errors.NewMissingReference(resource, strings.Join(path, "."))
		}
	}
	return r, nil
}

func (d *decoder) lookupString(kind Kind, resource string, path ...string) (string, error) {
	r, err := d.lookup(kind, resource, path...)
	if err != nil {
		return "", err
	}
	if r.Type != gjson.String {
		return "", &errors.ParseError{
			Format:  "JSON",
			Path:    string(kind),
			Message: fmt.Sprintf("%s at %s is not a string", resource, strings.Join(path, ".")),
		}
	}
	return r.String(), nil
}

func (d *decoder) canticle(name string, value gjson.Result) (*canticle.Canticle, error) {
	for _, kind := range []Kind{KindRhymes, KindLetters, KindWords} {
		if _, err := d.lookup(kind, "canticle", name); err != nil {
			return nil, err
		}
	}

	cantos, err := numericEntries(KindStructure, name, value)
	if err != nil {
		return nil, err
	}

	c := &canticle.Canticle{Name: name, Cantos: make([]*canticle.Canto, 0, len(cantos))}
	for _, ce := range cantos {
		canto, err := d.canto(name, ce)
		if err != nil {
			return nil, err
		}
		c.Cantos = append(c.Cantos, canto)
	}
	return c, nil
}

func (d *decoder) canto(name string, ce entry) (*canticle.Canto, error) {
	path := name + "." + ce.key
	lines, err := numericEntries(KindStructure, path, ce.value)
	if err != nil {
		return nil, err
	}

	canto := &canticle.Canto{Number: ce.n, Lines: make([]*canticle.Line, 0, len(lines))}
	for _, le := range lines {
		line, err := d.line(name, ce.key, le)
		if err != nil {
			return nil, err
		}
		canto.Lines = append(canto.Lines, line)
	}
	return canto, nil
}

func (d *decoder) line(name, cantoKey string, le entry) (*canticle.Line, error) {
	path := strings.Join([]string{name, cantoKey, le.key}, ".")
	words, err := numericEntries(KindStructure, path, le.value)
	if err != nil {
		return nil, err
	}

	rhyme, err := d.lookupString(KindRhymes, "rhyme", name, cantoKey, le.key)
	if err != nil {
		return nil, err
	}
	letter, err := d.lookupString(KindLetters, "first letter", name, cantoKey, le.key)
	if err != nil {
		return nil, err
	}

	line := &canticle.Line{
		Number:      le.n,
		FirstLetter: letter,
		Rhyme:       rhyme,
		Syllables:   make([]int, len(words)),
		Words:       make([]string, len(words)),
	}
	for i, we := range words {
		if we.n != i+1 {
			return nil, &errors.ParseError{
				Format:  "JSON",
				Path:    string(KindStructure),
				Message: fmt.Sprintf("word positions of %s are not contiguous from 1: found %d at index %d", path, we.n, i),
			}
		}
		if we.value.Type != gjson.Number || we.value.Num != float64(int(we.value.Num)) || we.value.Num < 0 {
			return nil, &errors.ParseError{
				Format:  "JSON",
				Path:    string(KindStructure),
				Message: fmt.Sprintf("syllable count at %s.%s is not a non-negative integer", path, we.key),
			}
		}
		line.Syllables[i] = int(we.value.Int())

		text, err := d.lookupString(KindWords, "word text", name, cantoKey, le.key, we.key)
		if err != nil {
			return nil, err
		}
		line.Words[i] = text
	}
	return line, nil
}

// numericEntries lists the members of obj sorted by numeric key.
func numericEntries(kind Kind, path string, obj gjson.Result) ([]entry, error) {
	if !obj.IsObject() {
		return nil, &errors.ParseError{
			Format:  "JSON",
			Path:    string(kind),
			Message: fmt.Sprintf("%s is not an object", path),
		}
	}

	var entries []entry
	var err error
	obj.ForEach(func(key, value gjson.Result) bool {
		n, convErr := strconv.Atoi(key.String())
		if convErr != nil || n < 0 {
			err = &errors.ParseError{
				Format:  "JSON",
				Path:    string(kind),
				Message: fmt.Sprintf("key %q under %s is not a number", key.String(), path),
			}
			return false
		}
		entries = append(entries, entry{key: key.String(), n: n, value: value})
		return true
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(entries, func(a, b entry) int { return a.n - b.n })
	for i := 1; i < len(entries); i++ {
		if entries[i].n == entries[i-1].n {
			return nil, &errors.ParseError{
				Format:  "JSON",
				Path:    string(kind),
				Message: fmt.Sprintf("duplicate key %d under %s", entries[i].n, path),
			}
		}
	}
	return entries, nil
}

// escapeKey escapes gjson path syntax in a literal object key.
func escapeKey(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
