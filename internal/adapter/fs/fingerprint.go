package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/migueleog01/partselect/internal/port"
)

// Fingerprint folds each file's path, modification time, and full byte
// content into a single corpus hash. Files are visited in lexicographic path
// order so an unchanged corpus always produces the same value, and touching a
// single byte in any file changes it.
func Fingerprint(files []port.FileInfo) (string, error) {
	sorted := make([]port.FileInfo, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	h := sha256.New()
	for _, f := range sorted {
		fmt.Fprintf(h, "%s\n%d\n", f.Path, f.ModTime)

		file, err := os.Open(f.Path)
		if err != nil {
			return "", fmt.Errorf("failed to hash %s: %w", f.Path, err)
		}
		_, err = io.Copy(h, file)
		file.Close()
		if err != nil {
			return "", fmt.Errorf("failed to hash %s: %w", f.Path, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
