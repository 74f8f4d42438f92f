package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCollectDocumentsSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "invoice.txt", "2 cs Heinz Mustard 24.99")

	docs, err := collectDocuments([]string{path})
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "invoice.txt", docs[0].Filename)
	assert.Equal(t, "2 cs Heinz Mustard 24.99", docs[0].Text)
}

func TestCollectDocumentsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "b.txt", "second")
	writeTestFile(t, dir, "a.txt", "first")
	writeTestFile(t, dir, "notes.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o750))

	docs, err := collectDocuments([]string{dir})
	require.NoError(t, err)

	require.Len(t, docs, 2, "only .txt files are picked up")
	assert.Equal(t, "a.txt", docs[0].Filename, "documents are sorted by filename")
	assert.Equal(t, "b.txt", docs[1].Filename)
}

func TestCollectDocumentsMissingPath(t *testing.T) {
	_, err := collectDocuments([]string{filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)
}
