// Command commedia extracts syllable, rhyme and first-letter documents from
// the annotated text of the Divine Comedy and restructures them into the tree
// consumed by the visualization.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/commedia/internal/config"
	"github.com/FocuswithJustin/commedia/internal/logging"
	"github.com/FocuswithJustin/commedia/internal/pipeline"
)

const version = "0.1.0"

// CLI defines the command-line interface for commedia.
type CLI struct {
	// Global flags
	Config    string `name:"config" short:"c" help:"TOML configuration file" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`
	TextDir   string `name:"text-dir" help:"Directory holding the annotated source texts" type:"path"`
	OutputDir string `name:"output-dir" help:"Directory receiving the generated documents" type:"path"`

	Extract      ExtractCmd      `cmd:"" help:"Parse the canticles and write the syllable, rhyme and first-letter documents"`
	Restructure  RestructureCmd  `cmd:"" help:"Join the documents into the visualization tree"`
	Verify       VerifyCmd       `cmd:"" help:"Check that the documents on disk match the sources"`
	Pack         PackCmd         `cmd:"" help:"Bundle the documents into a compressed archive"`
	Unpack       UnpackCmd       `cmd:"" help:"Verify and extract a bundle"`
	ExportSQLite ExportSQLiteCmd `cmd:"" name:"export-sqlite" help:"Write the parsed canticles into a SQLite database"`
	Lookup       LookupCmd       `cmd:"" help:"Print a canto, line or word, e.g. Inferno.XXXIV.139"`
	Stats        StatsCmd        `cmd:"" help:"Print per-canticle totals"`
	Version      VersionCmd      `cmd:"" help:"Print version information"`
}

// App carries what every command needs.
type App struct {
	Config *config.Config
	Out    io.Writer
	Ctx    context.Context
}

// setup loads the configuration, applies flag overrides and initializes logging.
func (c *CLI) setup(out io.Writer) (*App, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.TextDir != "" {
		cfg.TextDir = c.TextDir
	}
	if c.OutputDir != "" {
		cfg.OutputDir = c.OutputDir
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Log.Format = c.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(level, format)

	ctx := logging.WithRunID(context.Background(), uuid.NewString())
	return &App{Config: cfg, Out: out, Ctx: ctx}, nil
}

// run parses args and executes the selected command.
func run(args []string, out io.Writer, options ...kong.Option) error {
	var cli CLI
	options = append([]kong.Option{
		kong.Name("commedia"),
		kong.Description("Divine Comedy metrics - syllables, rhymes and first letters"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(out, os.Stderr),
	}, options...)

	parser, err := kong.New(&cli, options...)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	app, err := cli.setup(out)
	if err != nil {
		return err
	}
	return ctx.Run(app)
}

func main() {
	pipeline.Version = version
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "commedia: error: %v\n", err)
		os.Exit(1)
	}
}
