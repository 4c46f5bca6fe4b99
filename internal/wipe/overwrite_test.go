package wipe

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func openRW(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestOverwrite_LastPassWins(t *testing.T) {
	dir := t.TempDir()
	const size = 200*1024 + 17
	path := writeFile(t, dir, "data.bin", size, 'A')
	f := openRW(t, path)

	passes := []Pattern{MotifPattern(0x00), MotifPattern(0xFF), RandomPattern()}
	rec := &progressRecorder{}
	prog := NewProgress(uint64(size)*uint64(len(passes)), rec.record, nil)

	err := overwrite(context.Background(), f, size, passes, overwriteOptions{ChunkSize: DefaultChunkSize, Rand: constReader{b: 0x3C}}, prog, zaptest.NewLogger(t))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, size)
	assert.Equal(t, bytes.Repeat([]byte{0x3C}, size), data)

	assert.Equal(t, uint64(size)*3, prog.Total)
	assert.Equal(t, prog.Total, prog.Processed)
	values := rec.snapshot()
	requireMonotonic(t, values)
	assert.Equal(t, 100, values[len(values)-1])
}

func TestOverwrite_MotifContinuesAcrossChunks(t *testing.T) {
	dir := t.TempDir()
	const size = 1000
	path := writeFile(t, dir, "data.bin", size, 'A')
	f := openRW(t, path)

	motif := []byte{0x92, 0x49, 0x24}
	prog := NewProgress(size, nil, nil)

	// 64 is not a multiple of 3, so each chunk starts at a different phase
	err := overwrite(context.Background(), f, size, []Pattern{MotifPattern(motif...)}, overwriteOptions{ChunkSize: 64}, prog, zaptest.NewLogger(t))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, size)
	for i, b := range data {
		if b != motif[i%3] {
			t.Fatalf("byte %d = %#x, want %#x", i, b, motif[i%3])
		}
	}
}

func TestOverwrite_EveryByteReplaced(t *testing.T) {
	dir := t.TempDir()
	const size = 3*DefaultChunkSize + 5
	path := writeFile(t, dir, "data.bin", size, 0x11)
	f := openRW(t, path)

	err := overwrite(context.Background(), f, size, []Pattern{MotifPattern(0xEE)}, overwriteOptions{}, NewProgress(size, nil, nil), zaptest.NewLogger(t))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xEE}, size), data)
}

func TestOverwrite_SizeChangedBeforePass(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.bin", 4096, 'A')
	f := openRW(t, path)

	err := overwrite(context.Background(), f, 8192, []Pattern{RandomPattern()}, overwriteOptions{}, NewProgress(8192, nil, nil), zaptest.NewLogger(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSizeChanged)
	assert.Equal(t, KindSizeChanged, KindOf(err))
}

func TestCheckSize(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.bin", 10, 'A')
	f := openRW(t, path)

	assert.NoError(t, checkSize(f, 10))

	require.NoError(t, os.WriteFile(path, make([]byte, 20), 0600))
	assert.ErrorIs(t, checkSize(f, 10), ErrSizeChanged)
}

func TestOverwrite_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.bin", 4096, 'A')
	f := openRW(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := overwrite(ctx, f, 4096, []Pattern{RandomPattern()}, overwriteOptions{}, NewProgress(4096, nil, nil), zaptest.NewLogger(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, KindCancelled, KindOf(err))
}

func TestOverwrite_Throttled(t *testing.T) {
	dir := t.TempDir()
	const size = 128 * 1024
	path := writeFile(t, dir, "data.bin", size, 'A')
	f := openRW(t, path)

	opts := overwriteOptions{ChunkSize: 32 * 1024, MaxSpeedMBps: 1000}
	err := overwrite(context.Background(), f, size, []Pattern{MotifPattern(0x00)}, opts, NewProgress(size, nil, nil), zaptest.NewLogger(t))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Clean(path))
	require.NoError(t, err)
	assert.Equal(t, make([]byte, size), data)
}

func TestRotate(t *testing.T) {
	motif := []byte{1, 2, 3}
	assert.Equal(t, []byte{1, 2, 3}, rotate(motif, 0))
	assert.Equal(t, []byte{2, 3, 1}, rotate(motif, 1))
	assert.Equal(t, []byte{3, 1, 2}, rotate(motif, 2))
	assert.Equal(t, []byte{1, 2, 3}, motif)
}
