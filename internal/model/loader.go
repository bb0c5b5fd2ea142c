package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// zstSuffix marks a zstd-compressed artifact on disk.
const zstSuffix = ".zst"

// maxArtifactBytes caps the decoded artifact size. The production artifacts
// are a few hundred KB; anything near this limit is a corrupt or hostile file.
const maxArtifactBytes = 32 << 20

// LoadArtifact reads one artifact file and returns its runtime regressor.
// Files ending in ".zst" are transparently decompressed.
func LoadArtifact(path string) (Regressor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, zstSuffix) {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to init zstd reader for %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	raw, err := io.ReadAll(io.LimitReader(r, maxArtifactBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	if len(raw) > maxArtifactBytes {
		return nil, fmt.Errorf("artifact %s exceeds %d bytes", path, maxArtifactBytes)
	}

	var doc artifact
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode artifact %s: %w", path, err)
	}

	reg, err := newRegressor(&doc)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact %s: %w", path, err)
	}
	return reg, nil
}
