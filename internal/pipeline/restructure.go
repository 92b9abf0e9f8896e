package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/FocuswithJustin/commedia/core/bundle"
	"github.com/FocuswithJustin/commedia/core/cas"
	"github.com/FocuswithJustin/commedia/core/errors"
	"github.com/FocuswithJustin/commedia/core/tables"
	"github.com/FocuswithJustin/commedia/core/tree"
	"github.com/FocuswithJustin/commedia/internal/config"
	"github.com/FocuswithJustin/commedia/internal/logging"
)

// KindTree labels the restructured tree document.
const KindTree = "tree"

// LoadDocuments reads the four documents joined by the restructurer.
// A missing document is an IOError wrapping ErrMissingInput.
func LoadDocuments(cfg *config.Config) (*tables.Documents, error) {
	docs := &tables.Documents{}
	for _, kind := range tables.Kinds {
		path := cfg.DocumentPath(kind)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewIO("read", path, fmt.Errorf("%w: %w", errors.ErrMissingInput, err))
			}
			return nil, errors.NewIO("read", path, err)
		}
		docs.Set(kind, data)
	}
	return docs, nil
}

// BuildTree joins documents and renders the tree document.
func BuildTree(cfg *config.Config, docs *tables.Documents) (*tree.Root, *Document, error) {
	canticles, err := tables.Decode(docs)
	if err != nil {
		return nil, nil, err
	}
	root, err := tree.Build(canticles)
	if err != nil {
		return nil, nil, err
	}
	data, err := tree.Encode(root)
	if err != nil {
		return nil, nil, errors.Wrap(err, "encode tree")
	}
	return root, &Document{Kind: KindTree, Path: cfg.TreePath(), Data: data, Digest: cas.Sum(data)}, nil
}

// RestructureResult reports what Restructure wrote.
type RestructureResult struct {
	Root     *tree.Root
	Document *Document
}

// Restructure joins the syllable-count, rhyme, first-letter and word-text
// documents into the labelled tree and writes it. A key of the syllable-count
// document missing from any other document aborts the stage.
func Restructure(ctx context.Context, cfg *config.Config) (*RestructureResult, error) {
	start := time.Now()

	docs, err := LoadDocuments(cfg)
	if err != nil {
		return nil, err
	}
	return restructure(ctx, cfg, docs, start)
}

// RestructureBundle is Restructure reading its documents from a verified
// bundle instead of the output directory.
func RestructureBundle(ctx context.Context, cfg *config.Config, archivePath string) (*RestructureResult, error) {
	start := time.Now()

	m, contents, err := bundle.Read(archivePath)
	if err != nil {
		return nil, err
	}
	docs, err := bundleDocuments(archivePath, m, contents)
	if err != nil {
		return nil, err
	}
	return restructure(ctx, cfg, docs, start)
}

func restructure(ctx context.Context, cfg *config.Config, docs *tables.Documents, start time.Time) (*RestructureResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, doc, err := BuildTree(cfg, docs)
	if err != nil {
		return nil, err
	}
	if err := commit(ctx, cfg.OutDir(), []*Document{doc}); err != nil {
		return nil, err
	}

	logging.StageFinished(ctx, "restructure", time.Since(start), "words", root.WordCount())
	return &RestructureResult{Root: root, Document: doc}, nil
}
