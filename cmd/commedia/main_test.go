package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/commedia/core/tables"
	"github.com/FocuswithJustin/commedia/internal/config"
	"github.com/FocuswithJustin/commedia/internal/logging"
	"github.com/FocuswithJustin/commedia/internal/pipeline"
)

const infernoText = `Inferno • Canto I

  1 |Nel |mez|zo |del |cam|min |di |no|stra |vi|ta
  2 |mi |ri|tro|vai |per |u|na |sel|va o|scu|ra,
`

const purgatorioText = `Purgatorio • Canto I

  1 |Per |cor|rer |mi|glior |ac|que al|za |le |ve|le
`

const paradisoText = `Paradiso • Canto I

  1 |La |glo|ria |di |co|lui |che |tut|to |muo|ve
`

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// createTextDir writes the three source texts and returns the directory.
func createTextDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range map[string]string{
		"inferno":    infernoText,
		"purgatorio": purgatorioText,
		"paradiso":   paradisoText,
	} {
		path := filepath.Join(dir, name+"_syllnew.txt")
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, &out)
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("commedia %s failed: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestExtractAndRestructure(t *testing.T) {
	dir := createTextDir(t)

	out := mustRun(t, "--text-dir", dir, "extract")
	for _, name := range []string{"commedia_structure.json", "commedia_rhymes.json", "commedia_line_letters.json", "commedia_words.json"} {
		if !strings.Contains(out, filepath.Join(dir, name)) {
			t.Errorf("extract output missing %s:\n%s", name, out)
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	out = mustRun(t, "--text-dir", dir, "restructure")
	if !strings.Contains(out, "restructured_commedia.json") {
		t.Errorf("restructure output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "restructured_commedia.json")); err != nil {
		t.Errorf("tree not written: %v", err)
	}

	out = mustRun(t, "--text-dir", dir, "verify")
	if strings.Count(out, "ok") != 5 {
		t.Errorf("verify should report 5 ok documents:\n%s", out)
	}
}

func TestExtractNoWords(t *testing.T) {
	dir := createTextDir(t)
	mustRun(t, "--text-dir", dir, "extract", "--no-words")

	if _, err := os.Stat(filepath.Join(dir, "commedia_words.json")); !os.IsNotExist(err) {
		t.Errorf("words document should not be written, stat error = %v", err)
	}
}

func TestVerifyReportsStale(t *testing.T) {
	dir := createTextDir(t)
	mustRun(t, "--text-dir", dir, "extract")

	if err := os.WriteFile(filepath.Join(dir, "commedia_rhymes.json"), []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--text-dir", dir, "verify")
	if !errors.Is(err, pipeline.ErrStale) {
		t.Fatalf("error = %v, want ErrStale", err)
	}
	if !strings.Contains(out, "stale") || !strings.Contains(out, "rhymes") {
		t.Errorf("verify output should flag the rhymes document:\n%s", out)
	}
}

func TestOutputDirAndConfigFile(t *testing.T) {
	dir := createTextDir(t)
	outDir := filepath.Join(t.TempDir(), "out")

	cfgPath := filepath.Join(t.TempDir(), "commedia.toml")
	content := "text_dir = \"" + filepath.ToSlash(dir) + "\"\n" +
		"output_dir = \"" + filepath.ToSlash(outDir) + "\"\n" +
		"canticles = [\"inferno\"]\n\n[outputs]\nrhymes = \"rime.json\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	mustRun(t, "--config", cfgPath, "extract")
	if _, err := os.Stat(filepath.Join(outDir, "rime.json")); err != nil {
		t.Errorf("configured rhymes document not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "commedia_structure.json")); !os.IsNotExist(err) {
		t.Error("documents should not be written to the text directory")
	}
}

func TestPackAndUnpack(t *testing.T) {
	dir := createTextDir(t)
	mustRun(t, "--text-dir", dir, "extract")
	mustRun(t, "--text-dir", dir, "restructure")

	archive := filepath.Join(t.TempDir(), "docs.tar.gz")
	out := mustRun(t, "--text-dir", dir, "pack", "--out", archive, "--compression", "gzip")
	if !strings.Contains(out, "Packed 5 documents") {
		t.Errorf("pack output = %q", out)
	}

	dest := t.TempDir()
	out = mustRun(t, "--text-dir", dir, "unpack", archive, "--dest", dest)
	if !strings.Contains(out, "Extracted 5 documents") {
		t.Errorf("unpack output = %q", out)
	}

	cfg := config.Default()
	cfg.TextDir = dir
	for _, kind := range tables.Kinds {
		want, err := os.ReadFile(cfg.DocumentPath(kind))
		if err != nil {
			t.Fatal(err)
		}
		got, err := os.ReadFile(filepath.Join(dest, filepath.Base(cfg.DocumentPath(kind))))
		if err != nil {
			t.Fatalf("unpacked %s: %v", kind, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("unpacked %s differs", kind)
		}
	}

	// A fresh output directory can be restructured straight from the bundle.
	fresh := t.TempDir()
	mustRun(t, "--text-dir", dir, "--output-dir", fresh, "restructure", "--bundle", archive)
	if _, err := os.Stat(filepath.Join(fresh, "restructured_commedia.json")); err != nil {
		t.Errorf("tree not written from bundle: %v", err)
	}
}

func TestPackDefaultPath(t *testing.T) {
	dir := createTextDir(t)
	mustRun(t, "--text-dir", dir, "extract")
	mustRun(t, "--text-dir", dir, "pack")

	if _, err := os.Stat(filepath.Join(dir, "commedia.tar.xz")); err != nil {
		t.Errorf("default bundle not written: %v", err)
	}
}

func TestLookup(t *testing.T) {
	dir := createTextDir(t)

	tests := []struct {
		ref  string
		want string
	}{
		{"inferno", "Inferno: 1 cantos, 2 lines"},
		{"Inferno.I", "Inferno • Canto I: 2 lines"},
		{"Inferno.1.2", "Inferno.1.2  mi ritrovai per una selva oscura,"},
		{"Paradiso.I.1.2", "Paradiso.1.1.2  gloria"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			out := mustRun(t, "--text-dir", dir, "lookup", tt.ref)
			if !strings.Contains(out, tt.want) {
				t.Errorf("lookup %s = %q, want it to contain %q", tt.ref, out, tt.want)
			}
		})
	}

	if _, err := runCLI(t, "--text-dir", dir, "lookup", "Inferno.9"); err == nil {
		t.Error("lookup of a missing canto should fail")
	}
}

func TestStats(t *testing.T) {
	dir := createTextDir(t)
	out := mustRun(t, "--text-dir", dir, "stats")

	for _, want := range []string{"Inferno", "Purgatorio", "Paradiso", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestExportSQLite(t *testing.T) {
	dir := createTextDir(t)
	db := filepath.Join(t.TempDir(), "commedia.db")

	out := mustRun(t, "--text-dir", dir, "export-sqlite", "--db", db)
	if !strings.Contains(out, "Exported 3 canticles, 3 cantos, 4 lines") {
		t.Errorf("export output = %q", out)
	}
	if _, err := os.Stat(db); err != nil {
		t.Errorf("database not written: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "version")
	if !strings.Contains(out, "commedia version "+version) {
		t.Errorf("version output = %q", out)
	}
}

func TestInvalidInvocations(t *testing.T) {
	dir := createTextDir(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"bad log level", []string{"--text-dir", dir, "--log-level", "loud", "stats"}},
		{"bad compression", []string{"--text-dir", dir, "pack", "--compression", "zstd"}},
		{"missing config", []string{"--config", filepath.Join(dir, "nope.toml"), "stats"}},
		{"missing sources", []string{"--text-dir", t.TempDir(), "extract"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("commedia %s should fail", strings.Join(tt.args, " "))
			}
		})
	}
}
