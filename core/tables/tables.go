// Package tables encodes parsed canticles into the per-kind JSON documents
// exchanged between the extraction and restructuring stages, and joins those
// documents back into records.
//
// Every document covers all canticles and is keyed canticle → canto → line,
// continuing to word position for the structure and words documents:
//
//	{"inferno": {"1": {"1": {"1": 1, "2": 2, ...}}}}
//
// Canticle keys are sorted as strings. Canto, line and word keys are decimal
// strings sorted by numeric value, so "10" follows "9".
package tables

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/commedia/core/canticle"
	"github.com/FocuswithJustin/commedia/core/errors"
)

// Kind identifies one of the documents.
type Kind string

const (
	// KindStructure maps each word position to its syllable boundary count.
	KindStructure Kind = "structure"
	// KindRhymes maps each line to its rhyme fragment.
	KindRhymes Kind = "rhymes"
	// KindLetters maps each line to its first letter.
	KindLetters Kind = "letters"
	// KindWords maps each word position to its literal text.
	KindWords Kind = "words"
)

// Kinds lists every document kind in output order.
var Kinds = []Kind{KindStructure, KindRhymes, KindLetters, KindWords}

// Indent is the indentation of encoded documents.
const Indent = "    "

// object is a JSON object that keeps the key order it was built with.
type object struct {
	keys   []string
	values []any
}

func (o *object) set(key string, value any) {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
}

// MarshalJSON implements json.Marshaler.
func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalRaw(key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalRaw(o.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRaw marshals v compactly without HTML escaping.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Encode renders the document of the given kind for all canticles.
// Encoding the same canticles twice yields identical bytes.
func Encode(kind Kind, canticles []*canticle.Canticle) ([]byte, error) {
	if !slices.Contains(Kinds, kind) {
		return nil, errors.NewValidation("kind", fmt.Sprintf("unknown document kind %q", kind))
	}

	sorted := slices.Clone(canticles)
	slices.SortStableFunc(sorted, func(a, b *canticle.Canticle) int {
		return strings.Compare(a.Name, b.Name)
	})

	root := &object{}
	for i, c := range sorted {
		if i > 0 && sorted[i-1].Name == c.Name {
			return nil, errors.NewValidation("canticles", fmt.Sprintf("duplicate canticle %q", c.Name))
		}
		root.set(c.Name, encodeCanticle(kind, c))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(root); err != nil {
		return nil, errors.Wrapf(err, "encode %s document", kind)
	}
	return buf.Bytes(), nil
}

func encodeCanticle(kind Kind, c *canticle.Canticle) *object {
	cantos := slices.Clone(c.Cantos)
	slices.SortStableFunc(cantos, func(a, b *canticle.Canto) int { return a.Number - b.Number })

	out := &object{}
	for _, canto := range cantos {
		lines := slices.Clone(canto.Lines)
		slices.SortStableFunc(lines, func(a, b *canticle.Line) int { return a.Number - b.Number })

		co := &object{}
		for _, line := range lines {
			co.set(strconv.Itoa(line.Number), lineValue(kind, line))
		}
		out.set(strconv.Itoa(canto.Number), co)
	}
	return out
}

func lineValue(kind Kind, line *canticle.Line) any {
	switch kind {
	case KindRhymes:
		return line.Rhyme
	case KindLetters:
		return line.FirstLetter
	case KindWords:
		words := &object{}
		for i, w := range line.Words {
			words.set(strconv.Itoa(i+1), w)
		}
		return words
	default:
		words := &object{}
		for i, s := range line.Syllables {
			words.set(strconv.Itoa(i+1), s)
		}
		return words
	}
}
