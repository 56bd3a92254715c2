package composer

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindProjectRoot walks up from start to the first directory holding a composer.json
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "composer.json")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("composer.json not found above %s", start)
}

// VendorDir resolves the vendor directory of a project. Relative vendor paths
// are taken from the project root holding composer.json, or from start when
// there is none.
func VendorDir(start, vendor string) string {
	if vendor == "" {
		vendor = "vendor"
	}
	if filepath.IsAbs(vendor) {
		return vendor
	}
	if root, err := FindProjectRoot(start); err == nil {
		return filepath.Join(root, vendor)
	}
	return filepath.Join(start, vendor)
}
