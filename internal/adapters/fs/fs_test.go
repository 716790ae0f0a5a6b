package fs_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flo/internal/adapters/fs"
)

var fingerprintPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestHasher_Fingerprint(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello")
	writeFile(t, dir, "b.txt", "hello")
	writeFile(t, dir, "c.txt", "changed")

	h := fs.NewHasher()
	sumA, err := h.Fingerprint(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Regexp(t, fingerprintPattern, sumA)

	sumB, err := h.Fingerprint(filepath.Join(dir, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, sumA, sumB, "identical content must fingerprint identically")

	sumC, err := h.Fingerprint(filepath.Join(dir, "c.txt"))
	require.NoError(t, err)
	assert.NotEqual(t, sumA, sumC, "different content must fingerprint differently")
}

func TestHasher_FingerprintMissing(t *testing.T) {
	h := fs.NewHasher()
	_, err := h.Fingerprint(filepath.Join(t.TempDir(), "ghost.txt"))
	require.Error(t, err)
}

func TestHasher_FingerprintAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data/score.xml", "<score/>")
	writeFile(t, dir, "build/notes.csv", "n,1")

	h := fs.NewHasher()
	got, err := h.FingerprintAll(dir, []string{"data/score.xml", "build/notes.csv"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Regexp(t, fingerprintPattern, got["data/score.xml"])
	assert.Regexp(t, fingerprintPattern, got["build/notes.csv"])
}

func TestHasher_FingerprintAllMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "present.txt", "x")

	h := fs.NewHasher()
	_, err := h.FingerprintAll(dir, []string{"present.txt", "absent.txt"})
	require.Error(t, err)
}

func TestVerifier_MissingOutputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "build/score.pdf", "pdf")

	v := fs.NewVerifier()
	missing, err := v.MissingOutputs(dir, []string{"build/score.pdf", "build/parts.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"build/parts.pdf"}, missing)
}

func TestVerifier_AllPresent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "out.csv", "x")

	v := fs.NewVerifier()
	missing, err := v.MissingOutputs(dir, []string{"out.csv"})
	require.NoError(t, err)
	assert.Empty(t, missing)
}
