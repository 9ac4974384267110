package cmd

import (
	"os"
	"path/filepath"
	"strings"
)

// moduleNameFromPath derives a module name from a source file path: the
// base name with its extension stripped, e.g. "shaders/app.wesl" -> "app".
func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
