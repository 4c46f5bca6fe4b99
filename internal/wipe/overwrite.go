package wipe

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// DefaultChunkSize размер чанка перезаписи
const DefaultChunkSize = 64 * 1024

type overwriteOptions struct {
	ChunkSize    int
	MaxSpeedMBps float64
	Rand         io.Reader
}

// overwrite выполняет все проходы над открытым файлом длины size.
// После каждого прохода данные сбрасываются на диск до начала следующего.
func overwrite(ctx context.Context, f *os.File, size int64, passes []Pattern, opts overwriteOptions, prog *Progress, logger *zap.Logger) error {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	buf := GetBuffer(chunkSize)
	defer PutBuffer(buf)

	writer := NewThrottledWriter(ctx, f, opts.MaxSpeedMBps, chunkSize)

	for i, pattern := range passes {
		if err := checkSize(f, size); err != nil {
			return err
		}

		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("pass %d: seek: %w", i+1, err)
		}

		if err := writePass(ctx, writer, buf, size, pattern, opts.Rand, prog); err != nil {
			return fmt.Errorf("pass %d/%d (%s): %w", i+1, len(passes), pattern, err)
		}

		if err := writer.Sync(); err != nil {
			return fmt.Errorf("pass %d/%d: sync: %w", i+1, len(passes), err)
		}

		if err := checkSize(f, size); err != nil {
			return err
		}

		logger.Debug("Pass completed",
			zap.String("file", f.Name()),
			zap.Int("pass", i+1),
			zap.Int("total", len(passes)),
			zap.Stringer("pattern", pattern))
	}

	return nil
}

// writePass записывает size байт одного прохода чанками
func writePass(ctx context.Context, w io.Writer, buf []byte, size int64, pattern Pattern, rnd io.Reader, prog *Progress) error {
	var written int64
	for written < size {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := int64(len(buf))
		if remaining := size - written; remaining < n {
			n = remaining
		}
		chunk := buf[:n]

		p := pattern
		if !p.Random && len(p.Motif) > 1 {
			// мотив продолжается с той же фазы, что и в конце прошлого чанка
			p = MotifPattern(rotate(p.Motif, int(written%int64(len(p.Motif))))...)
		}
		if err := FillPattern(chunk, p, rnd); err != nil {
			return err
		}

		if _, err := w.Write(chunk); err != nil {
			return err
		}

		written += n
		prog.Add(uint64(n))
	}
	return nil
}

// checkSize сверяет текущий размер файла с размером на момент старта
func checkSize(f *os.File, size int64) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if info.Size() != size {
		return fmt.Errorf("%w: expected %d bytes, found %d", ErrSizeChanged, size, info.Size())
	}
	return nil
}

func rotate(motif []byte, off int) []byte {
	if off == 0 || len(motif) == 0 {
		return motif
	}
	out := make([]byte, 0, len(motif))
	out = append(out, motif[off:]...)
	return append(out, motif[:off]...)
}
