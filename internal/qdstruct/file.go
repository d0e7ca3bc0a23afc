package qdstruct

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"qdcad/internal/core"
)

// Ext is the file extension used for qdStruct documents.
const Ext = ".qdStruct"

// EnsureExt appends Ext to path unless it already ends with it.
func EnsureExt(path string) string {
	if strings.HasSuffix(path, Ext) {
		return path
	}
	return path + Ext
}

// LoadFile reads and decodes the document at path.
func LoadFile(path string) (*core.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	g, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}

// SaveFile encodes g and replaces the file at path. The data is written to a
// temporary file in the same directory first so readers never observe a
// partially written document.
func SaveFile(path string, g *core.Grid) error {
	if err := Validate(g); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if err := write(tmp, g); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
