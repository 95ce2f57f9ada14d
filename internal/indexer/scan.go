package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"docsection/internal/docconv"
)

// scanUploads lists the supported documents directly under dir, sorted by
// name for a deterministic indexing order. Subdirectories are not descended.
func scanUploads(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !docconv.SupportedExt(filepath.Ext(entry.Name())) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	return paths, nil
}
