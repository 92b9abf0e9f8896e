// Package pipeline runs the extraction and restructuring stages and the
// operations built on their outputs. Stages run sequentially; the context is
// checked between canticles only.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/FocuswithJustin/commedia/core/canticle"
	"github.com/FocuswithJustin/commedia/core/cas"
	"github.com/FocuswithJustin/commedia/core/errors"
	"github.com/FocuswithJustin/commedia/core/tables"
	"github.com/FocuswithJustin/commedia/internal/config"
	"github.com/FocuswithJustin/commedia/internal/logging"
)

// LockFileName is the lock file guarding commits into an output directory.
const LockFileName = ".commedia.lock"

// lockTimeout bounds the wait for another run's commit.
var lockTimeout = 5 * time.Second

// Document is a generated document ready to be committed.
type Document struct {
	Kind   string
	Path   string
	Data   []byte
	Digest *cas.HashResult
}

// ParseAll parses the source text of every configured canticle, in
// configuration order.
func ParseAll(ctx context.Context, cfg *config.Config) ([]*canticle.Canticle, error) {
	canticles := make([]*canticle.Canticle, 0, len(cfg.Canticles))
	for _, name := range cfg.Canticles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := cfg.SourcePath(name)
		logging.DebugContext(ctx, "parsing canticle", "canticle", name, "path", path)
		c, err := canticle.ParseFile(name, path)
		if err != nil {
			return nil, err
		}
		logging.CanticleParsed(ctx, name, len(c.Cantos), c.LineCount(), "words", c.WordCount())
		canticles = append(canticles, c)
	}
	return canticles, nil
}

// Render encodes the documents extract writes, without touching the disk.
func Render(cfg *config.Config, canticles []*canticle.Canticle) ([]*Document, error) {
	kinds := cfg.ExtractKinds()
	docs := make([]*Document, 0, len(kinds))
	for _, kind := range kinds {
		data, err := tables.Encode(kind, canticles)
		if err != nil {
			return nil, err
		}
		docs = append(docs, &Document{
			Kind:   string(kind),
			Path:   cfg.DocumentPath(kind),
			Data:   data,
			Digest: cas.Sum(data),
		})
	}
	return docs, nil
}

// ExtractResult reports what Extract wrote.
type ExtractResult struct {
	Canticles []*canticle.Canticle
	Documents []*Document
}

// Extract parses every canticle and writes the syllable, rhyme, first-letter
// and (optionally) word-text documents. Nothing is written unless every
// canticle parsed and every document encoded.
func Extract(ctx context.Context, cfg *config.Config) (*ExtractResult, error) {
	start := time.Now()

	canticles, err := ParseAll(ctx, cfg)
	if err != nil {
		return nil, err
	}
	docs, err := Render(cfg, canticles)
	if err != nil {
		return nil, err
	}
	if err := commit(ctx, cfg.OutDir(), docs); err != nil {
		return nil, err
	}

	logging.StageFinished(ctx, "extract", time.Since(start), "documents", len(docs))
	return &ExtractResult{Canticles: canticles, Documents: docs}, nil
}

// commit writes docs atomically while holding the output directory lock.
func commit(ctx context.Context, dir string, docs []*Document) error {
	lock, err := acquireLock(ctx, dir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	files := make([]cas.File, len(docs))
	for i, d := range docs {
		files[i] = cas.File{Path: d.Path, Data: d.Data}
	}
	if err := cas.Commit(files); err != nil {
		return errors.NewIO("commit", dir, err)
	}

	for _, d := range docs {
		logging.DocumentWritten(ctx, d.Kind, d.Path, len(d.Data), d.Digest.SHA256)
	}
	return nil
}

// acquireLock takes the exclusive lock of an output directory.
// Returns the lock (caller must defer Unlock()) or error if lock held.
func acquireLock(ctx context.Context, dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewIO("create directory", dir, err)
	}

	lockPath := filepath.Join(dir, LockFileName)
	lock := flock.New(lockPath)

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("lock acquisition failed: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run is writing to %s (lock held: %s)", dir, lockPath)
	}
	return lock, nil
}
