package pipeline

import (
	"context"
	"slices"

	"github.com/FocuswithJustin/commedia/core/canticle"
	"github.com/FocuswithJustin/commedia/core/errors"
	"github.com/FocuswithJustin/commedia/core/sqlite"
	"github.com/FocuswithJustin/commedia/internal/config"
	"github.com/FocuswithJustin/commedia/internal/logging"
)

// Lookup resolves a reference such as "Inferno.XXXIV.139" against the
// parsed source of the referenced canticle.
func Lookup(ctx context.Context, cfg *config.Config, s string) (*canticle.Ref, *canticle.Match, error) {
	ref, err := canticle.ParseRef(s)
	if err != nil {
		return nil, nil, err
	}
	if !slices.Contains(cfg.Canticles, ref.Canticle) {
		return nil, nil, errors.NewNotFound("canticle", ref.Canticle)
	}

	sub := *cfg
	sub.Canticles = []string{ref.Canticle}
	canticles, err := ParseAll(ctx, &sub)
	if err != nil {
		return nil, nil, err
	}
	m, err := canticle.Find(canticles, ref)
	if err != nil {
		return nil, nil, err
	}
	return ref, m, nil
}

// Stat summarizes one canticle.
type Stat struct {
	Name       string
	Title      string
	Cantos     int
	Lines      int
	Words      int
	Boundaries int
}

// Stats parses every canticle and summarizes it.
func Stats(ctx context.Context, cfg *config.Config) ([]Stat, error) {
	canticles, err := ParseAll(ctx, cfg)
	if err != nil {
		return nil, err
	}
	stats := make([]Stat, 0, len(canticles))
	for _, c := range canticles {
		stats = append(stats, Stat{
			Name:       c.Name,
			Title:      c.Title(),
			Cantos:     len(c.Cantos),
			Lines:      c.LineCount(),
			Words:      c.WordCount(),
			Boundaries: c.BoundaryCount(),
		})
	}
	return stats, nil
}

// ExportSQLite parses every canticle and writes it into the database at path.
func ExportSQLite(ctx context.Context, cfg *config.Config, path string) (*sqlite.Counts, error) {
	canticles, err := ParseAll(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open database", path, err)
	}
	defer db.Close()

	counts, err := sqlite.Export(ctx, db, canticles)
	if err != nil {
		return nil, err
	}
	logging.InfoContext(ctx, "sqlite_exported",
		"path", path,
		"driver", sqlite.DriverType(),
		"canticles", counts.Canticles,
		"lines", counts.Lines,
		"words", counts.Words,
	)
	return counts, nil
}
