package batch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dixieflatline76/Cornermark/util/log"
)

// IsSupportedImage reports whether name has a .jpg or .png extension, ignoring case.
func IsSupportedImage(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Walk calls fn for every supported image under root in lexical order.
// Directories listed in skip are not descended into. Unreadable sub
// directories are logged and skipped; an unreadable root is an error.
func Walk(ctx context.Context, root string, skip []string, fn func(path string) error) error {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[filepath.Clean(s)] = true
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("walking %s: %w", root, err)
			}
			log.Printf("Walk: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != root && skipped[filepath.Clean(path)] {
				log.Debugf("Walk: not descending into %s", path)
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !IsSupportedImage(d.Name()) {
			return nil
		}
		return fn(path)
	})
}
