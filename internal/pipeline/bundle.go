package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FocuswithJustin/commedia/core/bundle"
	"github.com/FocuswithJustin/commedia/core/errors"
	"github.com/FocuswithJustin/commedia/core/tables"
	"github.com/FocuswithJustin/commedia/internal/config"
	"github.com/FocuswithJustin/commedia/internal/logging"
)

// Version is the version recorded in bundle manifests.
var Version = "dev"

// Pack bundles the generated documents into a compressed archive. Every
// document extract writes must exist; the tree document is included when
// present.
func Pack(ctx context.Context, cfg *config.Config, archivePath string, compression bundle.CompressionType) (*bundle.Manifest, error) {
	type entry struct {
		kind, path string
		optional   bool
	}
	var entries []entry
	for _, kind := range cfg.ExtractKinds() {
		entries = append(entries, entry{kind: string(kind), path: cfg.DocumentPath(kind)})
	}
	entries = append(entries, entry{kind: KindTree, path: cfg.TreePath(), optional: true})

	sources := make([]bundle.Source, 0, len(entries))
	for _, e := range entries {
		data, err := os.ReadFile(e.path)
		if err != nil {
			if os.IsNotExist(err) {
				if e.optional {
					continue
				}
				return nil, errors.NewIO("read", e.path, fmt.Errorf("%w: %w", errors.ErrMissingInput, err))
			}
			return nil, errors.NewIO("read", e.path, err)
		}
		sources = append(sources, bundle.Source{Name: filepath.Base(e.path), Kind: e.kind, Data: data})
	}

	opts := bundle.DefaultPackOptions()
	opts.Compression = compression
	opts.Tool.Version = Version
	m, err := bundle.Pack(archivePath, sources, opts)
	if err != nil {
		return nil, err
	}

	logging.InfoContext(ctx, "bundle_packed",
		"path", archivePath,
		"bundle_run_id", m.RunID,
		"compression", string(m.Compression),
		"artifacts", len(m.Artifacts),
	)
	return m, nil
}

// Unpack verifies a bundle and extracts its documents into destDir under the
// output directory lock.
func Unpack(ctx context.Context, archivePath, destDir string) (*bundle.Manifest, error) {
	lock, err := acquireLock(ctx, destDir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	m, err := bundle.Unpack(archivePath, destDir)
	if err != nil {
		return nil, err
	}
	for _, a := range m.Artifacts {
		logging.DocumentWritten(ctx, a.Kind, filepath.Join(destDir, a.Name), int(a.SizeBytes), a.SHA256)
	}
	return m, nil
}

// bundleDocuments returns the tables documents held by a verified bundle.
func bundleDocuments(archivePath string, m *bundle.Manifest, contents map[string][]byte) (*tables.Documents, error) {
	docs := &tables.Documents{}
	for _, kind := range tables.Kinds {
		found := false
		for _, a := range m.Artifacts {
			if a.Kind == string(kind) {
				docs.Set(kind, contents[a.Name])
				found = true
				break
			}
		}
		if !found {
			return nil, errors.NewIO("read", archivePath,
				fmt.Errorf("%w: bundle has no %s document", errors.ErrMissingInput, kind))
		}
	}
	return docs, nil
}
