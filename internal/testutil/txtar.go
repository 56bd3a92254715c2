// Package testutil unpacks txtar fixture trees for tests
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

// Unpack writes every file of a txtar archive below dir
func Unpack(t testing.TB, dir, archive string) {
	t.Helper()

	ar := txtar.Parse([]byte(archive))
	for _, f := range ar.Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create fixture directory: %v", err)
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			t.Fatalf("failed to write fixture %s: %v", f.Name, err)
		}
	}
}

// Tree unpacks an archive into a fresh temporary directory and returns it
func Tree(t testing.TB, archive string) string {
	t.Helper()

	dir := t.TempDir()
	Unpack(t, dir, archive)
	return dir
}
