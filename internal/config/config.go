// Package config loads the pipeline configuration from an optional TOML file.
// Every setting has a default: sources and documents live side by side in
// ../text under fixed names.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/FocuswithJustin/commedia/core/bundle"
	"github.com/FocuswithJustin/commedia/core/canticle"
	"github.com/FocuswithJustin/commedia/core/errors"
	"github.com/FocuswithJustin/commedia/core/tables"
	"github.com/FocuswithJustin/commedia/internal/validation"
)

// CanticlePlaceholder is replaced by the canticle name in SourcePattern.
const CanticlePlaceholder = "{canticle}"

// Config holds every setting of a pipeline run.
type Config struct {
	// TextDir holds the annotated source texts.
	TextDir string `toml:"text_dir"`
	// OutputDir receives the generated documents. Defaults to TextDir.
	OutputDir string `toml:"output_dir"`
	// SourcePattern names a canticle's source file inside TextDir.
	SourcePattern string `toml:"source_pattern"`
	// Canticles lists the canticles to process.
	Canticles []string `toml:"canticles"`
	// EmitWords makes extract also write the word-text document.
	EmitWords bool `toml:"emit_words"`

	Outputs Outputs      `toml:"outputs"`
	Bundle  BundleConfig `toml:"bundle"`
	SQLite  SQLiteConfig `toml:"sqlite"`
	Log     LogConfig    `toml:"log"`
}

// Outputs holds the file names of the generated documents.
type Outputs struct {
	Structure string `toml:"structure"`
	Rhymes    string `toml:"rhymes"`
	Letters   string `toml:"letters"`
	Words     string `toml:"words"`
	Tree      string `toml:"tree"`
}

// BundleConfig configures pack.
type BundleConfig struct {
	Path        string `toml:"path"`
	Compression string `toml:"compression"`
}

// SQLiteConfig configures export-sqlite.
type SQLiteConfig struct {
	Path string `toml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		TextDir:       "../text",
		SourcePattern: CanticlePlaceholder + "_syllnew.txt",
		Canticles:     append([]string(nil), canticle.Names...),
		EmitWords:     true,
		Outputs: Outputs{
			Structure: "commedia_structure.json",
			Rhymes:    "commedia_rhymes.json",
			Letters:   "commedia_line_letters.json",
			Words:     "commedia_words.json",
			Tree:      "restructured_commedia.json",
		},
		Bundle: BundleConfig{
			Path:        "commedia.tar.xz",
			Compression: string(bundle.CompressionXZ),
		},
		SQLite: SQLiteConfig{Path: "commedia.db"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the TOML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, errors.NewIO("read config", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse parses TOML content over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.NewParse("TOML", "", err.Error())
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.NewValidation("config", "unknown keys: "+strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks canticle names, paths and enumerated settings.
func (c *Config) Validate() error {
	if err := validation.ValidatePath(c.TextDir); err != nil {
		return errors.NewValidation("text_dir", err.Error())
	}
	if c.OutputDir != "" {
		if err := validation.ValidatePath(c.OutputDir); err != nil {
			return errors.NewValidation("output_dir", err.Error())
		}
	}

	if !strings.Contains(c.SourcePattern, CanticlePlaceholder) {
		return errors.NewValidation("source_pattern", fmt.Sprintf("must contain %s", CanticlePlaceholder))
	}
	if err := validation.ValidateFilename(strings.ReplaceAll(c.SourcePattern, CanticlePlaceholder, canticle.Inferno)); err != nil {
		return errors.NewValidation("source_pattern", err.Error())
	}

	if len(c.Canticles) == 0 {
		return errors.NewValidation("canticles", "at least one canticle is required")
	}
	seen := make(map[string]bool, len(c.Canticles))
	for _, name := range c.Canticles {
		if !canticle.IsKnown(name) {
			return errors.NewValidation("canticles", fmt.Sprintf("unknown canticle %q", name))
		}
		if seen[name] {
			return errors.NewValidation("canticles", fmt.Sprintf("duplicate canticle %q", name))
		}
		seen[name] = true
	}

	names := map[string]string{
		"outputs.structure": c.Outputs.Structure,
		"outputs.rhymes":    c.Outputs.Rhymes,
		"outputs.letters":   c.Outputs.Letters,
		"outputs.words":     c.Outputs.Words,
		"outputs.tree":      c.Outputs.Tree,
	}
	used := make(map[string]string, len(names))
	for field, name := range names {
		if err := validation.ValidateFilename(name); err != nil {
			return errors.NewValidation(field, err.Error())
		}
		if other, dup := used[name]; dup {
			return errors.NewValidation(field, fmt.Sprintf("%q is also used by %s", name, other))
		}
		used[name] = field
	}

	switch bundle.CompressionType(c.Bundle.Compression) {
	case bundle.CompressionXZ, bundle.CompressionGzip:
	default:
		return errors.NewValidation("bundle.compression", fmt.Sprintf("unsupported compression %q", c.Bundle.Compression))
	}
	return nil
}

// SourcePath returns the path of a canticle's source text.
func (c *Config) SourcePath(name string) string {
	return filepath.Join(c.TextDir, strings.ReplaceAll(c.SourcePattern, CanticlePlaceholder, name))
}

// OutDir returns the directory receiving generated documents.
func (c *Config) OutDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return c.TextDir
}

// DocumentPath returns the path of the document of the given kind.
func (c *Config) DocumentPath(kind tables.Kind) string {
	var name string
	switch kind {
	case tables.KindStructure:
		name = c.Outputs.Structure
	case tables.KindRhymes:
		name = c.Outputs.Rhymes
	case tables.KindLetters:
		name = c.Outputs.Letters
	case tables.KindWords:
		name = c.Outputs.Words
	}
	return filepath.Join(c.OutDir(), name)
}

// TreePath returns the path of the restructured tree document.
func (c *Config) TreePath() string {
	return filepath.Join(c.OutDir(), c.Outputs.Tree)
}

// BundlePath returns the default bundle path. A relative bundle.path is
// resolved against the output directory.
func (c *Config) BundlePath() string {
	return c.underOutDir(c.Bundle.Path)
}

// DatabasePath returns the default SQLite path, resolved like BundlePath.
func (c *Config) DatabasePath() string {
	return c.underOutDir(c.SQLite.Path)
}

func (c *Config) underOutDir(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.OutDir(), path)
}

// ExtractKinds lists the document kinds extract writes.
func (c *Config) ExtractKinds() []tables.Kind {
	kinds := []tables.Kind{tables.KindStructure, tables.KindRhymes, tables.KindLetters}
	if c.EmitWords {
		kinds = append(kinds, tables.KindWords)
	}
	return kinds
}
