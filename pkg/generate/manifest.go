package generate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-tlgen/pkg/emit"
)

// ManifestName is the fingerprint record kept inside the published tree.
const ManifestName = "tlgen.manifest.json"

// Manifest records what a published output tree was generated from: the
// schema layer, the schema text hash, and a hash per rendered file. Two runs
// over identical input produce identical manifests, which is how unchanged
// output is detected before any write.
type Manifest struct {
	Layer      int               `json:"layer"`
	SchemaHash string            `json:"schema_sha256"`
	Files      map[string]string `json:"files"`
}

// NewManifest fingerprints a rendered file set.
func NewManifest(layer int, schema []byte, files []emit.File) Manifest {
	m := Manifest{
		Layer:      layer,
		SchemaHash: hashBytes(schema),
		Files:      make(map[string]string, len(files)),
	}
	for _, f := range files {
		m.Files[f.Path] = hashBytes(f.Content)
	}
	return m
}

// Paths returns the recorded file paths in sorted order.
func (m Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Files))
	for path := range m.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Equal reports whether two manifests describe the same output.
func (m Manifest) Equal(other Manifest) bool {
	if m.Layer != other.Layer || m.SchemaHash != other.SchemaHash {
		return false
	}
	if len(m.Files) != len(other.Files) {
		return false
	}
	for path, hash := range m.Files {
		if other.Files[path] != hash {
			return false
		}
	}
	return true
}

// Encode renders the manifest as indented JSON.
func (m Manifest) Encode() ([]byte, error) {
	payload, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("generate: encode manifest: %w", err)
	}
	return append(payload, '\n'), nil
}

// LoadManifest reads the manifest from a published output tree. A missing
// directory or manifest is not an error; found reports whether one existed.
func LoadManifest(dir string) (Manifest, bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if os.IsNotExist(err) {
		return Manifest{}, false, nil
	}
	if err != nil {
		return Manifest{}, false, fmt.Errorf("generate: read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, false, fmt.Errorf("generate: decode manifest: %w", err)
	}
	return m, true, nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
