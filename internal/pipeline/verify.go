package pipeline

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/FocuswithJustin/commedia/core/cas"
	cerrors "github.com/FocuswithJustin/commedia/core/errors"
	"github.com/FocuswithJustin/commedia/core/tables"
	"github.com/FocuswithJustin/commedia/internal/config"
	"github.com/FocuswithJustin/commedia/internal/logging"
)

// ErrStale is returned by Verify when a document on disk differs from a fresh
// rendering of the sources.
var ErrStale = errors.New("documents are out of date")

// Check is the outcome of verifying one document.
type Check struct {
	Kind    string
	Path    string
	Want    *cas.HashResult
	Got     *cas.HashResult // nil when the file is missing
	Missing bool
}

// OK reports whether the file on disk matches the fresh rendering.
func (c *Check) OK() bool {
	return !c.Missing && c.Want.Equal(c.Got)
}

// Verify re-renders every document in memory and compares it byte for byte,
// by digest, with the file on disk. The tree document is checked only when it
// exists. Every check is returned; the error wraps ErrStale when any fails.
func Verify(ctx context.Context, cfg *config.Config) ([]*Check, error) {
	start := time.Now()

	canticles, err := ParseAll(ctx, cfg)
	if err != nil {
		return nil, err
	}
	docs, err := Render(cfg, canticles)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(cfg.TreePath()); statErr == nil {
		all := &tables.Documents{}
		for _, kind := range tables.Kinds {
			data, err := tables.Encode(kind, canticles)
			if err != nil {
				return nil, err
			}
			all.Set(kind, data)
		}
		_, treeDoc, err := BuildTree(cfg, all)
		if err != nil {
			return nil, err
		}
		docs = append(docs, treeDoc)
	}

	checks := make([]*Check, 0, len(docs))
	stale := 0
	for _, d := range docs {
		c := &Check{Kind: d.Kind, Path: d.Path, Want: d.Digest}
		got, err := cas.SumFile(d.Path)
		switch {
		case err == nil:
			c.Got = got
		case os.IsNotExist(err):
			c.Missing = true
		default:
			return nil, cerrors.NewIO("read", d.Path, err)
		}
		if !c.OK() {
			stale++
			logging.LoggerFromContext(ctx).Warn("document_stale", "kind", c.Kind, "path", c.Path, "missing", c.Missing)
		}
		checks = append(checks, c)
	}

	logging.StageFinished(ctx, "verify", time.Since(start), "documents", len(checks), "stale", stale)
	if stale > 0 {
		return checks, cerrors.Wrapf(ErrStale, "%d of %d documents", stale, len(checks))
	}
	return checks, nil
}
