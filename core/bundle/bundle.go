package bundle

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/commedia/core/cas"
	"github.com/FocuswithJustin/commedia/core/errors"
	"github.com/FocuswithJustin/commedia/internal/validation"
)

// Injectable functions for testing
var (
	gzipNewWriterLevel = gzip.NewWriterLevel
	xzNewWriter        = xz.NewWriter
	gzipNewReader      = gzip.NewReader
	xzNewReader        = xz.NewReader
	newRunID           = uuid.NewString
	now                = time.Now
	writeToTarFunc     = writeToTarImpl
)

// CompressionType specifies the compression algorithm for bundle archives.
type CompressionType string

const (
	// CompressionXZ uses XZ/LZMA2 compression (default, best ratio).
	CompressionXZ CompressionType = "xz"
	// CompressionGzip uses gzip compression (stdlib, faster).
	CompressionGzip CompressionType = "gzip"
)

// PackOptions configures bundle packing behavior.
type PackOptions struct {
	// Compression specifies the compression algorithm. Defaults to XZ.
	Compression CompressionType
	// Tool is recorded in the manifest.
	Tool ToolInfo
}

// DefaultPackOptions returns the default packing options (XZ compression).
func DefaultPackOptions() *PackOptions {
	return &PackOptions{
		Compression: CompressionXZ,
		Tool:        ToolInfo{Name: "commedia"},
	}
}

// Source is one document to pack.
type Source struct {
	Name string
	Kind string
	Data []byte
}

// Pack writes sources into a compressed tar archive at archivePath, preceded
// by a manifest recording each source's size and digests. The archive file is
// replaced atomically.
func Pack(archivePath string, sources []Source, opts *PackOptions) (*Manifest, error) {
	if opts == nil {
		opts = DefaultPackOptions()
	}
	compression := opts.Compression
	if compression == "" {
		compression = CompressionXZ
	}
	if compression != CompressionXZ && compression != CompressionGzip {
		return nil, errors.NewValidation("compression", fmt.Sprintf("unsupported compression %q", compression))
	}

	manifest := &Manifest{
		BundleVersion: Version,
		RunID:         newRunID(),
		CreatedAt:     now().UTC().Format(time.RFC3339),
		Compression:   compression,
		Tool:          opts.Tool,
		Artifacts:     make([]*Artifact, 0, len(sources)),
	}
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		if err := validation.ValidateFilename(src.Name); err != nil {
			return nil, errors.NewValidation("name", fmt.Sprintf("artifact %q: %v", src.Name, err))
		}
		if src.Name == ManifestName || seen[src.Name] {
			return nil, errors.NewValidation("name", fmt.Sprintf("duplicate artifact %q", src.Name))
		}
		seen[src.Name] = true
		manifest.Artifacts = append(manifest.Artifacts, &Artifact{
			Name:       src.Name,
			Kind:       src.Kind,
			SizeBytes:  int64(len(src.Data)),
			HashResult: *cas.Sum(src.Data),
		})
	}

	var buf bytes.Buffer
	var compressWriter io.WriteCloser
	var err error
	switch compression {
	case CompressionGzip:
		compressWriter, err = gzipNewWriterLevel(&buf, gzip.BestCompression)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip writer: %w", err)
		}
	default:
		compressWriter, err = xzNewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
	}

	tarWriter := tar.NewWriter(compressWriter)
	modTime := now().UTC().Truncate(time.Second)

	manifestData, err := manifest.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize manifest: %w", err)
	}
	if err := writeToTarFunc(tarWriter, ManifestName, manifestData, modTime); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	for _, src := range sources {
		if err := writeToTarFunc(tarWriter, src.Name, src.Data, modTime); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", src.Name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish tar stream: %w", err)
	}
	if err := compressWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish %s stream: %w", compression, err)
	}

	if err := cas.WriteFile(archivePath, buf.Bytes()); err != nil {
		return nil, errors.NewIO("write", archivePath, err)
	}
	return manifest, nil
}

// DetectCompression detects the compression type of a bundle archive.
func DetectCompression(archivePath string) (CompressionType, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return "", errors.NewIO("open", archivePath, err)
	}
	defer file.Close()

	magic := make([]byte, validation.MagicLen)
	n, err := io.ReadFull(file, magic)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", errors.NewIO("read magic bytes", archivePath, err)
	}

	switch validation.DetectFileType(magic[:n]) {
	case validation.FileTypeXZ:
		return CompressionXZ, nil
	case validation.FileTypeGzip:
		return CompressionGzip, nil
	}
	return "", errors.NewValidation("archive", "unknown magic bytes")
}

// Read opens a bundle, verifies every member against the manifest and
// returns the manifest with the member contents keyed by name. Nothing is
// returned unless the whole archive verifies.
func Read(archivePath string) (*Manifest, map[string][]byte, error) {
	compression, err := DetectCompression(archivePath)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(archivePath)
	if err != nil {
		return nil, nil, errors.NewIO("open", archivePath, err)
	}
	defer file.Close()

	var decompressReader io.Reader
	switch compression {
	case CompressionGzip:
		gzReader, err := gzipNewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		decompressReader = gzReader
	default:
		xzReader, err := xzNewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		decompressReader = xzReader
	}

	tarReader := tar.NewReader(decompressReader)
	var manifest *Manifest
	contents := make(map[string][]byte)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read tar header: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		if header.Size > validation.MaxFileSize {
			return nil, nil, errors.NewValidation(header.Name, "archive member exceeds size limit")
		}

		data, err := io.ReadAll(io.LimitReader(tarReader, validation.MaxFileSize))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", header.Name, err)
		}

		if manifest == nil {
			if header.Name != ManifestName {
				return nil, nil, errors.NewValidation("archive", fmt.Sprintf("first member is %q, not %s", header.Name, ManifestName))
			}
			manifest, err = ParseManifest(data)
			if err != nil {
				return nil, nil, err
			}
			continue
		}

		artifact := manifest.Artifact(header.Name)
		if artifact == nil {
			return nil, nil, errors.NewValidation("archive", fmt.Sprintf("member %q is not in the manifest", header.Name))
		}
		if _, dup := contents[header.Name]; dup {
			return nil, nil, errors.NewValidation("archive", fmt.Sprintf("duplicate member %q", header.Name))
		}
		if int64(len(data)) != artifact.SizeBytes {
			return nil, nil, fmt.Errorf("%s: %w: size %d, want %d", header.Name, cas.ErrDigestMismatch, len(data), artifact.SizeBytes)
		}
		if err := cas.Verify(data, &artifact.HashResult); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", header.Name, err)
		}
		contents[header.Name] = data
	}

	if manifest == nil {
		return nil, nil, errors.NewValidation("archive", "archive does not contain "+ManifestName)
	}
	for _, a := range manifest.Artifacts {
		if _, ok := contents[a.Name]; !ok {
			return nil, nil, errors.NewNotFound("archive member", a.Name)
		}
	}
	return manifest, contents, nil
}

// Unpack verifies a bundle and extracts its documents into destDir.
func Unpack(archivePath, destDir string) (*Manifest, error) {
	manifest, contents, err := Read(archivePath)
	if err != nil {
		return nil, err
	}

	files := make([]cas.File, 0, len(manifest.Artifacts))
	for _, a := range manifest.Artifacts {
		rel, err := validation.SanitizePath(destDir, a.Name)
		if err != nil {
			return nil, errors.NewValidation("name", fmt.Sprintf("artifact %q: %v", a.Name, err))
		}
		files = append(files, cas.File{Path: filepath.Join(destDir, rel), Data: contents[a.Name]})
	}
	if err := cas.Commit(files); err != nil {
		return nil, errors.NewIO("extract", destDir, err)
	}
	return manifest, nil
}

// writeToTarImpl writes a file to the tar archive.
func writeToTarImpl(tw *tar.Writer, name string, data []byte, modTime time.Time) error {
	header := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0644,
		Size:     int64(len(data)),
		ModTime:  modTime,
	}

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	_, err := tw.Write(data)
	return err
}
