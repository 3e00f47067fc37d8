package preconditions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateInput checks if the input file exists, is a regular file and
// carries a supported extension.
func ValidateInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	if !isMeshFile(path) {
		return fmt.Errorf("%s is not a supported mesh file (must end in .stl or .3mf)", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read file %s: %w", path, err)
	}
	file.Close()

	return nil
}

// ValidateOutput checks if the output location is writable
func ValidateOutput(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory %s does not exist: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

func isMeshFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl", ".3mf":
		return true
	}
	return false
}
