// Package objpath computes the on-disk paths of compiled artifacts, adapted
// from the teacher's pkg/utils path-resolution helper (originally used to
// resolve a virtual-filesystem image's path relative to its invoking
// directory) to spec §6.3's artifact contract: one output file per input,
// named after the input's stem with a `.o`/`.s`/`.ll` extension.
package objpath

import (
	"path/filepath"
	"strings"
)

// Resolve returns relPath's absolute path and containing directory, exactly
// as the teacher's GetPathInfo did for a virtual-disk image path.
func Resolve(relPath string) (fullPath string, parentDir string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}
	parentDir = filepath.Dir(fullPath)
	return fullPath, parentDir, nil
}

// Stem returns inputPath's base name with its extension removed, e.g.
// "src/main.lm" -> "main".
func Stem(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ArtifactPath returns the output path for inputPath's compiled artifact,
// alongside the input file, with ext (no leading dot) as its extension.
func ArtifactPath(inputPath, ext string) string {
	dir := filepath.Dir(inputPath)
	return filepath.Join(dir, Stem(inputPath)+"."+ext)
}
