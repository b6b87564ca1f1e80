package docs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestFSEnumerator_FiltersByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "a")
	writeFile(t, root, "sub/b.md", "b")
	writeFile(t, root, "sub/ignored.txt", "x")
	writeFile(t, root, "IMAGE.png", "x")

	e := &FSEnumerator{Extension: ".md"}
	files, err := e.Enumerate(context.Background(), root)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a.md", "sub/b.md"}, files)
}

func TestFSEnumerator_SkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/objects/x.md", "x")
	writeFile(t, root, "visible.md", "v")

	e := &FSEnumerator{Extension: ".md"}
	files, err := e.Enumerate(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, []string{"visible.md"}, files)
}

func TestFSEnumerator_MissingRoot_ReturnsError(t *testing.T) {
	e := &FSEnumerator{Extension: ".md"}
	_, err := e.Enumerate(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
