package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutputIsInput is returned when downloads would land on the input images.
var ErrOutputIsInput = errors.New("output folder is the input folder")

// FileManager maps input images to their place in the mirrored output tree.
// Images directly in the input folder land in the output folder; images in a
// sub directory land in the matching output sub directory suffixed with
// DerivativeDirSuffix.
type FileManager struct {
	inputDir  string
	outputDir string
}

// NewFileManager creates a FileManager for the given input and output folders.
func NewFileManager(inputDir, outputDir string) *FileManager {
	return &FileManager{
		inputDir:  filepath.Clean(inputDir),
		outputDir: filepath.Clean(outputDir),
	}
}

// InputDir returns the input folder.
func (fm *FileManager) InputDir() string {
	return fm.inputDir
}

// OutputDir returns the output folder.
func (fm *FileManager) OutputDir() string {
	return fm.outputDir
}

// Validate checks that downloaded images cannot overwrite the input images.
func (fm *FileManager) Validate() error {
	if fm.inputDir == fm.outputDir {
		return fmt.Errorf("%w: %s", ErrOutputIsInput, fm.inputDir)
	}
	return nil
}

// RelDir returns the directory of path relative to the input folder.
func (fm *FileManager) RelDir(path string) (string, error) {
	rel, err := filepath.Rel(fm.inputDir, filepath.Dir(filepath.Clean(path)))
	if err != nil {
		return "", fmt.Errorf("resolving %s against %s: %w", path, fm.inputDir, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path %s: outside of input folder", path)
	}
	return rel, nil
}

// DerivativeDir returns the output directory mirroring the input sub directory rel.
func (fm *FileManager) DerivativeDir(rel string) string {
	if rel == "." || rel == "" {
		return fm.outputDir
	}
	return filepath.Join(fm.outputDir, rel) + DerivativeDirSuffix
}

// DerivativePath returns where the transformed version of the input image at path is stored.
func (fm *FileManager) DerivativePath(path string) (string, error) {
	rel, err := fm.RelDir(path)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(fm.DerivativeDir(rel), filepath.Base(path))
	if dst == filepath.Clean(path) {
		return "", fmt.Errorf("%w: refusing to overwrite %s", ErrOutputIsInput, path)
	}
	return dst, nil
}

// EnsureDir creates dir and its parents.
func (fm *FileManager) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// NestedOutput reports whether the output folder lives inside the input folder,
// in which case the walker has to skip it.
func (fm *FileManager) NestedOutput() bool {
	rel, err := filepath.Rel(fm.inputDir, fm.outputDir)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
