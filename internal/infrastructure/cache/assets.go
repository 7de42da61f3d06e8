package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// AssetStore keeps generated report images on disk, one PNG per distinct
// image prompt. Regenerating a report from an unchanged brief reuses the
// stored image instead of calling the image API again.
type AssetStore struct {
	dir    string
	logger *zap.Logger
}

// NewAssetStore creates the assets directory if needed.
func NewAssetStore(dir string, logger *zap.Logger) (*AssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating assets directory: %w", err)
	}
	return &AssetStore{dir: dir, logger: logger}, nil
}

// Lookup returns the path of the image stored for prompt, if one exists.
func (s *AssetStore) Lookup(prompt string) (string, bool) {
	path := s.assetPath(prompt)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return "", false
	}
	return path, true
}

// Store writes png under a name derived from prompt and returns its path.
func (s *AssetStore) Store(prompt string, png []byte) (string, error) {
	tmp, err := os.CreateTemp(s.dir, "asset-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp asset file: %w", err)
	}
	if _, err := tmp.Write(png); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing asset: %w", err)
	}

	path := s.assetPath(prompt)
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("publishing asset: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("report image stored", zap.String("path", path), zap.Int("bytes", len(png)))
	}
	return path, nil
}

func (s *AssetStore) assetPath(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return filepath.Join(s.dir, "design_"+hex.EncodeToString(sum[:])+".png")
}
