package generate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-tlgen/pkg/emit"
)

// publish writes the rendered files plus the manifest into a staging
// directory next to the target, then swaps it into place. Any failure
// removes the staging tree and leaves previously published output intact.
func publish(outputDir string, files []emit.File, manifest Manifest) (err error) {
	parent := filepath.Dir(filepath.Clean(outputDir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	staging, err := os.MkdirTemp(parent, ".tlgen-stage-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(staging)
		}
	}()

	for _, f := range files {
		target := filepath.Join(staging, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("stage %s: %w", f.Path, err)
		}
		if err := os.WriteFile(target, f.Content, 0o644); err != nil {
			return fmt.Errorf("stage %s: %w", f.Path, err)
		}
	}

	payload, err := manifest.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(staging, ManifestName), payload, 0o644); err != nil {
		return fmt.Errorf("stage manifest: %w", err)
	}

	return swap(staging, outputDir)
}

// swap replaces target with staging via rename, restoring the previous tree
// if the final rename fails.
func swap(staging, target string) error {
	previous := ""
	if _, err := os.Stat(target); err == nil {
		previous = staging + "-old"
		if err := os.Rename(target, previous); err != nil {
			return fmt.Errorf("retire previous output: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat output dir: %w", err)
	}

	if err := os.Rename(staging, target); err != nil {
		if previous != "" {
			if restoreErr := os.Rename(previous, target); restoreErr != nil {
				return fmt.Errorf("replace output: %v (restore failed: %w)", err, restoreErr)
			}
		}
		return fmt.Errorf("replace output: %w", err)
	}

	if previous != "" {
		if err := os.RemoveAll(previous); err != nil {
			return fmt.Errorf("remove previous output: %w", err)
		}
	}
	return nil
}
