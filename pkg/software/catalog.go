package software

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadCatalog reads a JSON catalog file: an array of entries.
func LoadCatalog(path string) ([]CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read software catalog: %w", err)
	}

	var catalog []CatalogEntry

	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse software catalog: %w", err)
	}

	return catalog, nil
}
