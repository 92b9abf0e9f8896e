// Package bundle packs generated documents into a single compressed tar
// archive with a manifest of their digests, and verifies and extracts such
// archives.
package bundle

import (
	"encoding/json"
	"fmt"

	"github.com/FocuswithJustin/commedia/core/cas"
	"github.com/FocuswithJustin/commedia/core/errors"
)

// Version is the current bundle format version.
const Version = "1.0.0"

// ManifestName is the name of the manifest entry, always the first member.
const ManifestName = "manifest.json"

// Manifest describes the contents of a bundle.
type Manifest struct {
	BundleVersion string          `json:"bundle_version"`
	RunID         string          `json:"run_id"`
	CreatedAt     string          `json:"created_at"`
	Compression   CompressionType `json:"compression"`
	Tool          ToolInfo        `json:"tool"`
	Artifacts     []*Artifact     `json:"artifacts"`
}

// ToolInfo describes the tool that created the bundle.
type ToolInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Artifact describes one packed document.
type Artifact struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	SizeBytes int64  `json:"size_bytes"`
	cas.HashResult
}

// Artifact returns the artifact with the given name, or nil.
func (m *Manifest) Artifact(name string) *Artifact {
	for _, a := range m.Artifacts {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// ToJSON serializes the manifest to indented JSON.
func (m *Manifest) ToJSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// ParseManifest parses a manifest from JSON.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.NewParse("JSON", ManifestName, err.Error())
	}
	if m.BundleVersion == "" {
		return nil, errors.NewValidation("bundle_version", "manifest has no bundle version")
	}

	seen := make(map[string]bool, len(m.Artifacts))
	for _, a := range m.Artifacts {
		if a == nil || a.Name == "" {
			return nil, errors.NewValidation("artifacts", "artifact without a name")
		}
		if seen[a.Name] {
			return nil, errors.NewValidation("artifacts", fmt.Sprintf("duplicate artifact %q", a.Name))
		}
		seen[a.Name] = true
	}
	return &m, nil
}
