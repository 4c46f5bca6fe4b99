package wipe

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var obfuscatedName = regexp.MustCompile(`^[0-9a-f]{16}\.pdf$`)

func TestObfuscateName_RenameChain(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tax-return-2025.pdf", 128, 'A')

	final, chain, err := obfuscateName(path, DefaultRenameRounds, nil, nil)
	require.NoError(t, err)
	require.Len(t, chain, DefaultRenameRounds)
	assert.Equal(t, chain[len(chain)-1], final)

	seen := map[string]bool{}
	for _, p := range chain {
		assert.Equal(t, dir, filepath.Dir(p))
		assert.Regexp(t, obfuscatedName, filepath.Base(p))
		assert.False(t, seen[p], "name reused: %s", p)
		seen[p] = true
	}

	for _, p := range append([]string{path}, chain[:len(chain)-1]...) {
		_, err := os.Lstat(p)
		assert.True(t, os.IsNotExist(err), "%s should be gone", p)
	}

	assert.Equal(t, []string{filepath.Base(final)}, listDir(t, dir))

	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Len(t, data, 128)
}

func TestObfuscateName_NoExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes", 1, 'A')

	final, _, err := obfuscateName(path, 3, nil, nil)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{16}$`, filepath.Base(final))
}

func TestObfuscateName_ZeroRounds(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "keep.txt", 1, 'A')

	final, chain, err := obfuscateName(path, 0, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, path, final)
	assert.Empty(t, chain)
}

func TestObfuscateName_MissingSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.txt")

	final, chain, err := obfuscateName(path, 3, nil, nil)
	require.Error(t, err)
	assert.Equal(t, path, final)
	assert.Empty(t, chain)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRandomName_SkipsTakenNames(t *testing.T) {
	dir := t.TempDir()
	// a constant source always produces the same candidate
	taken := filepath.Join(dir, "0000000000000000.txt")
	require.NoError(t, os.WriteFile(taken, nil, 0600))

	_, err := randomName(dir, ".txt", constReader{b: 0x00})
	assert.Error(t, err)

	name, err := randomName(dir, ".log", constReader{b: 0x00})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "0000000000000000.log"), name)
}
