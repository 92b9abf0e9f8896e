// Package tree builds the labelled hierarchy consumed by the visualization:
// root → canticle → canto → line → word, each level annotated with counts.
package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/FocuswithJustin/commedia/core/canticle"
	"github.com/FocuswithJustin/commedia/core/errors"
)

// RootName is the name of the root node.
const RootName = "Divine Comedy"

// Indent is the indentation of the encoded tree.
const Indent = "  "

// Root is the top of the tree.
type Root struct {
	Name          string          `json:"name"`
	CanticleCount int             `json:"canticleCount"`
	Children      []*CanticleNode `json:"children"`
}

// CanticleNode holds one canticle.
type CanticleNode struct {
	Name       string       `json:"name"`
	CantoCount int          `json:"cantoCount"`
	Children   []*CantoNode `json:"children"`
}

// CantoNode holds one canto; Name is the canto number.
type CantoNode struct {
	Name      string      `json:"name"`
	LineCount int         `json:"lineCount"`
	Children  []*LineNode `json:"children"`
}

// LineNode holds one line; Name is the line number.
type LineNode struct {
	Name        string      `json:"name"`
	WordCount   int         `json:"wordCount"`
	FirstLetter string      `json:"first_letter"`
	Rhyme       string      `json:"rhyme"`
	Children    []*WordNode `json:"children"`
}

// WordNode is a leaf; Name is the 1-based word position.
type WordNode struct {
	Name      string `json:"name"`
	SyllCount int    `json:"syllCount"`
	Text      string `json:"text"`
}

// Build restructures canticle records into a tree. Children keep the order of
// the records they come from. A line whose word texts do not cover every
// syllable count is a missing cross-reference and aborts the build.
func Build(canticles []*canticle.Canticle) (*Root, error) {
	root := &Root{
		Name:          RootName,
		CanticleCount: len(canticles),
		Children:      make([]*CanticleNode, 0, len(canticles)),
	}

	for _, c := range canticles {
		cn := &CanticleNode{
			Name:       c.Title(),
			CantoCount: len(c.Cantos),
			Children:   make([]*CantoNode, 0, len(c.Cantos)),
		}
		for _, canto := range c.Cantos {
			node, err := buildCanto(c.Name, canto)
			if err != nil {
				return nil, err
			}
			cn.Children = append(cn.Children, node)
		}
		root.Children = append(root.Children, cn)
	}
	return root, nil
}

func buildCanto(name string, canto *canticle.Canto) (*CantoNode, error) {
	node := &CantoNode{
		Name:      strconv.Itoa(canto.Number),
		LineCount: len(canto.Lines),
		Children:  make([]*LineNode, 0, len(canto.Lines)),
	}
	for _, line := range canto.Lines {
		if len(line.Words) != len(line.Syllables) {
			return nil, errors.NewMissingReference("word text",
				fmt.Sprintf("%s.%d.%d", name, canto.Number, line.Number))
		}
		ln := &LineNode{
			Name:        strconv.Itoa(line.Number),
			WordCount:   line.WordCount(),
			FirstLetter: line.FirstLetter,
			Rhyme:       line.Rhyme,
			Children:    make([]*WordNode, 0, line.WordCount()),
		}
		for i, syll := range line.Syllables {
			ln.Children = append(ln.Children, &WordNode{
				Name:      strconv.Itoa(i + 1),
				SyllCount: syll,
				Text:      line.Words[i],
			})
		}
		node.Children = append(node.Children, ln)
	}
	return node, nil
}

// WordCount returns the number of word nodes in the tree.
func (r *Root) WordCount() int {
	n := 0
	for _, c := range r.Children {
		for _, canto := range c.Children {
			for _, line := range canto.Children {
				n += len(line.Children)
			}
		}
	}
	return n
}

// Encode renders the tree as indented JSON.
func Encode(root *Root) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
