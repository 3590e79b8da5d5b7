package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/textscope/domain"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDocumentReader_Collect(t *testing.T) {
	dir := t.TempDir()
	a := writeTestFile(t, dir, "a.txt", "alpha")
	b := writeTestFile(t, dir, "notes/b.md", "beta")
	writeTestFile(t, dir, "notes/image.png", "\x89PNG")
	c := writeTestFile(t, dir, "deep/er/c.txt", "gamma")

	reader := NewDocumentReader()

	t.Run("directory is searched recursively for supported files", func(t *testing.T) {
		files, err := reader.Collect([]string{dir})
		require.NoError(t, err)
		assert.Equal(t, []string{a, c, b}, files)
	})

	t.Run("glob and duplicates", func(t *testing.T) {
		files, err := reader.Collect([]string{filepath.Join(dir, "**", "*.txt"), a})
		require.NoError(t, err)
		assert.Equal(t, []string{a, c}, files)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := reader.Collect([]string{filepath.Join(dir, "*.docx")})
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidInput))
	})

	t.Run("only unsupported files", func(t *testing.T) {
		images := t.TempDir()
		writeTestFile(t, images, "logo.png", "\x89PNG")
		for _, pattern := range []string{images, filepath.Join(dir, "**", "*.png")} {
			files, err := reader.Collect([]string{pattern})
			require.Error(t, err, pattern)
			assert.Empty(t, files)
			assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidInput))
			assert.Contains(t, err.Error(), "no supported files found")
		}
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := reader.Collect([]string{filepath.Join(dir, "[")})
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidInput))
	})
}

func TestDocumentReader_Read(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "Quarterly Report.txt", "  Revenue   grew.\n\n\nCosts   fell.  \n")
	reader := NewDocumentReader()

	doc, err := reader.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", doc.Title)
	assert.Equal(t, "Revenue grew.\nCosts fell.", doc.Text)

	bad := writeTestFile(t, dir, "bad.txt", "\xff\xfe\xfd")
	_, err = reader.Read(context.Background(), bad)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidInput))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reader.Read(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocumentReader_ReadAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"one.txt", "two.txt", "three.txt", "four.txt", "five.txt"} {
		paths = append(paths, writeTestFile(t, dir, name, name))
	}

	docs, err := NewDocumentReader().ReadAll(context.Background(), paths, 2)
	require.NoError(t, err)
	require.Len(t, docs, len(paths))
	for i, doc := range docs {
		assert.Equal(t, paths[i], doc.Path)
	}

	_, err = NewDocumentReader().ReadAll(context.Background(), append(paths, filepath.Join(dir, "missing.txt")), 2)
	assert.Error(t, err)
}

func TestIsSupported(t *testing.T) {
	reader := NewDocumentReader()
	for _, name := range []string{"a.txt", "b.MD", "c.pdf", "d.docx", "e.html", "f.rst"} {
		assert.True(t, reader.IsSupported(name), name)
	}
	for _, name := range []string{"a.png", "b", "c.exe"} {
		assert.False(t, reader.IsSupported(name), name)
	}
}
