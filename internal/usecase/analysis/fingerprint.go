package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/clientbrief/clientbrief/internal/domain/entities"
)

// Fingerprint derives the cache key for one analysis result. The same
// transcript analysed by the same model under the same prompt version always
// maps to the same entry; changing any of the three yields a new key.
// Nothing else in the program computes cache keys.
func Fingerprint(content, model, promptVersion string) string {
	sum := sha256.Sum256([]byte(model + ":" + promptVersion + ":" + content))
	return hex.EncodeToString(sum[:])
}

// briefCacheKey renders a design brief to its canonical JSON form so an
// unchanged brief fingerprints identically across runs.
func briefCacheKey(brief *entities.DesignBrief) (string, error) {
	raw, err := json.Marshal(brief)
	if err != nil {
		return "", fmt.Errorf("encoding design brief: %w", err)
	}
	return string(raw), nil
}
