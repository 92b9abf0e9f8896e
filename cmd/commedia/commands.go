package main

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/commedia/core/bundle"
	"github.com/FocuswithJustin/commedia/core/sqlite"
	"github.com/FocuswithJustin/commedia/internal/pipeline"
)

// ExtractCmd runs the canticle parser.
type ExtractCmd struct {
	NoWords bool `name:"no-words" help:"Do not write the word-text document"`
}

func (c *ExtractCmd) Run(app *App) error {
	if c.NoWords {
		app.Config.EmitWords = false
	}
	res, err := pipeline.Extract(app.Ctx, app.Config)
	if err != nil {
		return err
	}
	for _, d := range res.Documents {
		fmt.Fprintf(app.Out, "%s\t%s\n", d.Digest.SHA256[:12], d.Path)
	}
	return nil
}

// RestructureCmd runs the tree restructurer.
type RestructureCmd struct {
	Bundle string `name:"bundle" help:"Read the documents from a bundle instead of the output directory" type:"existingfile"`
}

func (c *RestructureCmd) Run(app *App) error {
	var res *pipeline.RestructureResult
	var err error
	if c.Bundle != "" {
		res, err = pipeline.RestructureBundle(app.Ctx, app.Config, c.Bundle)
	} else {
		res, err = pipeline.Restructure(app.Ctx, app.Config)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "%s\t%s (%d words)\n", res.Document.Digest.SHA256[:12], res.Document.Path, res.Root.WordCount())
	return nil
}

// VerifyCmd checks the documents on disk against a fresh rendering.
type VerifyCmd struct{}

func (c *VerifyCmd) Run(app *App) error {
	checks, err := pipeline.Verify(app.Ctx, app.Config)
	if checks != nil {
		fmt.Fprintln(app.Out, renderChecks(checks))
	}
	return err
}

// PackCmd bundles the generated documents.
type PackCmd struct {
	Out         string `name:"out" short:"o" help:"Archive path (default from config)" type:"path"`
	Compression string `name:"compression" help:"Compression (xz, gzip; default from config)"`
}

func (c *PackCmd) Run(app *App) error {
	out := c.Out
	if out == "" {
		out = app.Config.BundlePath()
	}
	compression := c.Compression
	if compression == "" {
		compression = app.Config.Bundle.Compression
	}

	m, err := pipeline.Pack(app.Ctx, app.Config, out, bundle.CompressionType(compression))
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Packed %d documents into %s (run %s)\n", len(m.Artifacts), out, m.RunID)
	return nil
}

// UnpackCmd verifies and extracts a bundle.
type UnpackCmd struct {
	Archive string `arg:"" help:"Bundle to extract" type:"existingfile"`
	Dest    string `name:"dest" short:"d" help:"Destination directory (default: output directory)" type:"path"`
}

func (c *UnpackCmd) Run(app *App) error {
	dest := c.Dest
	if dest == "" {
		dest = app.Config.OutDir()
	}
	m, err := pipeline.Unpack(app.Ctx, c.Archive, dest)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Extracted %d documents from run %s (%s) into %s\n", len(m.Artifacts), m.RunID, m.CreatedAt, dest)
	return nil
}

// ExportSQLiteCmd writes the canticles into SQLite.
type ExportSQLiteCmd struct {
	DB string `name:"db" help:"Database path (default from config)" type:"path"`
}

func (c *ExportSQLiteCmd) Run(app *App) error {
	path := c.DB
	if path == "" {
		path = app.Config.DatabasePath()
	}
	counts, err := pipeline.ExportSQLite(app.Ctx, app.Config, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Exported %d canticles, %d cantos, %d lines, %d words to %s (%s driver)\n",
		counts.Canticles, counts.Cantos, counts.Lines, counts.Words, path, sqlite.DriverType())
	return nil
}

// LookupCmd resolves a reference.
type LookupCmd struct {
	Ref string `arg:"" help:"Reference: Canticle[.Canto[.Line[.Word]]], canto as number or numeral"`
}

func (c *LookupCmd) Run(app *App) error {
	ref, m, err := pipeline.Lookup(app.Ctx, app.Config, c.Ref)
	if err != nil {
		return err
	}

	switch {
	case m.Canto == nil:
		fmt.Fprintf(app.Out, "%s: %d cantos, %d lines\n", m.Canticle.Title(), len(m.Canticle.Cantos), m.Canticle.LineCount())
	case m.Line == nil:
		fmt.Fprintf(app.Out, "%s • Canto %s: %d lines\n", m.Canticle.Title(), m.Canto.Numeral(), len(m.Canto.Lines))
	case m.Word == 0:
		fmt.Fprintf(app.Out, "%s  %s\n", ref, strings.Join(m.Line.Words, " "))
		fmt.Fprintf(app.Out, "first letter %q, rhyme %q, syllable boundaries %v\n", m.Line.FirstLetter, m.Line.Rhyme, m.Line.Syllables)
	default:
		fmt.Fprintf(app.Out, "%s  %s (%d syllable boundaries)\n", ref, m.Line.Words[m.Word-1], m.Line.Syllables[m.Word-1])
	}
	return nil
}

// StatsCmd prints per-canticle totals.
type StatsCmd struct{}

func (c *StatsCmd) Run(app *App) error {
	stats, err := pipeline.Stats(app.Ctx, app.Config)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Out, renderStats(stats))
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	fmt.Fprintf(app.Out, "commedia version %s (sqlite %s)\n", version, sqlite.DriverType())
	return nil
}
