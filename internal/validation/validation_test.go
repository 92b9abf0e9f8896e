package validation

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizePath(t *testing.T) {
	baseDir := "/tmp/test"

	tests := []struct {
		name      string
		userPath  string
		want      string
		wantError error
	}{
		{
			name:     "simple valid path",
			userPath: "commedia_structure.json",
			want:     "commedia_structure.json",
		},
		{
			name:     "nested valid path",
			userPath: "docs/commedia_rhymes.json",
			want:     filepath.Join("docs", "commedia_rhymes.json"),
		},
		{
			name:     "redundant separators",
			userPath: "docs//file.json",
			want:     filepath.Join("docs", "file.json"),
		},
		{
			name:     "dot component",
			userPath: "./file.json",
			want:     "file.json",
		},
		{
			name:     "double dot inside a name",
			userPath: "canto..json",
			want:     "canto..json",
		},
		{
			name:      "traversal with dotdot",
			userPath:  "../etc/passwd",
			wantError: ErrPathTraversal,
		},
		{
			name:      "traversal in middle",
			userPath:  "docs/../../etc/passwd",
			wantError: ErrPathTraversal,
		},
		{
			name:      "bare dotdot",
			userPath:  "..",
			wantError: ErrPathTraversal,
		},
		{
			name:      "absolute path",
			userPath:  "/etc/passwd",
			wantError: ErrPathTraversal,
		},
		{
			name:      "empty path",
			userPath:  "",
			wantError: ErrEmptyPath,
		},
		{
			name:      "too long",
			userPath:  strings.Repeat("a", MaxPathLength+1),
			wantError: ErrPathTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePath(baseDir, tt.userPath)
			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Errorf("SanitizePath() error = %v, want %v", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizePath() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SanitizePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		wantError error
	}{
		{"valid", "restructured_commedia.json", nil},
		{"unicode", "purgatorio_sìllabe.txt", nil},
		{"empty", "", ErrInvalidFilename},
		{"dot", ".", ErrInvalidFilename},
		{"dotdot", "..", ErrInvalidFilename},
		{"slash", "a/b.json", ErrInvalidFilename},
		{"backslash", `a\b.json`, ErrInvalidFilename},
		{"null byte", "a\x00.json", ErrInvalidFilename},
		{"control", "a\n.json", ErrInvalidFilename},
		{"leading hyphen", "-rf", ErrInvalidFilename},
		{"too long", strings.Repeat("a", MaxFilenameLength+1), ErrFilenameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.filename)
			if tt.wantError == nil {
				if err != nil {
					t.Errorf("ValidateFilename(%q) = %v, want nil", tt.filename, err)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("ValidateFilename(%q) = %v, want %v", tt.filename, err, tt.wantError)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError error
	}{
		{"relative", "../text", nil},
		{"absolute", "/srv/commedia/text", nil},
		{"empty", "", ErrEmptyPath},
		{"null byte", "../te\x00xt", ErrInvalidCharacter},
		{"control", "../text\r", ErrInvalidCharacter},
		{"too long", strings.Repeat("a", MaxPathLength+1), ErrPathTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantError == nil {
				if err != nil {
					t.Errorf("ValidatePath(%q) = %v, want nil", tt.path, err)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("ValidatePath(%q) = %v, want %v", tt.path, err, tt.wantError)
			}
		})
	}
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want FileType
	}{
		{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00, 0x04}, FileTypeXZ},
		{"gzip", []byte{0x1f, 0x8b, 0x08, 0x00}, FileTypeGzip},
		{"sqlite", []byte("SQLite format 3\x00\x10\x00"), FileTypeSQLite},
		{"json", []byte(`{"inferno": {}}`), FileTypeUnknown},
		{"truncated xz", []byte{0xfd, 0x37, 0x7a}, FileTypeUnknown},
		{"empty", nil, FileTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFileType(tt.buf); got != tt.want {
				t.Errorf("DetectFileType() = %s, want %s", got, tt.want)
			}
		})
	}
}
