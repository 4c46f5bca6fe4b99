package wipe

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"secureshred/internal/config"
	"secureshred/internal/system"
)

const (
	// DefaultFreeSpaceChunk размер блока записи временного файла (1МБ)
	DefaultFreeSpaceChunk = 1024 * 1024
	// DefaultSafetyMargin резерв свободного места, который не затирается (100МБ)
	DefaultSafetyMargin = 100 * 1024 * 1024

	tempFilePrefix = "__secureshred_"
)

// SaturatorConfig конфигурация для затирания свободного места
type SaturatorConfig struct {
	ChunkSize    int
	MaxSpeedMBps float64

	// Margin is kept free on the volume; 0 means DefaultSafetyMargin
	Margin uint64

	// FreeSpace reports available bytes for a directory; nil means system.FreeBytes
	FreeSpace func(path string) (uint64, error)
	// Rand overrides the secure random source; nil means crypto/rand
	Rand io.Reader
}

// SaturatorConfigFrom builds saturator settings from the loaded configuration
func SaturatorConfigFrom(cfg *config.Config) SaturatorConfig {
	return SaturatorConfig{
		ChunkSize:    cfg.FreeSpace.ChunkSize,
		Margin:       cfg.FreeSpaceMargin(),
		MaxSpeedMBps: cfg.Shred.MaxSpeedMBps,
	}
}

// Saturator fills the free space of a volume with random data through one
// temporary file and deletes it afterwards.
type Saturator struct {
	config SaturatorConfig
	logger *zap.Logger

	remove func(name string) error
}

// NewSaturator создает новый экземпляр Saturator
func NewSaturator(cfg SaturatorConfig, logger *zap.Logger) *Saturator {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultFreeSpaceChunk
	}
	if cfg.Margin == 0 {
		cfg.Margin = DefaultSafetyMargin
	}
	if cfg.FreeSpace == nil {
		cfg.FreeSpace = system.FreeBytes
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Reader
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saturator{config: cfg, logger: logger.Named("freespace"), remove: os.Remove}
}

// ShredFreeSpace writes random data into all free space of the volume
// holding targetDir except the safety margin, then removes the file.
// The method is recorded in the result; the fill is always random.
func (s *Saturator) ShredFreeSpace(ctx context.Context, targetDir string, method Method, progress ProgressFunc) *FreeSpaceResult {
	start := time.Now()
	resolved, _ := ParseMethod(string(method))

	result := &FreeSpaceResult{Target: targetDir, Method: resolved}
	finish := func(err *ShredError) *FreeSpaceResult {
		result.ElapsedTime = time.Since(start)
		result.fail(err)
		s.logger.Error("Free space wipe failed",
			zap.String("target", targetDir),
			zap.String("stage", string(err.Stage)),
			zap.String("kind", string(err.Kind)),
			zap.Error(err.Err))
		return result
	}

	dir, err := system.ValidatePath(targetDir)
	if err != nil {
		return finish(newError(StagePreflight, targetDir, err))
	}
	if info, err := os.Stat(dir); err != nil {
		return finish(newError(StagePreflight, dir, err))
	} else if !info.IsDir() {
		return finish(&ShredError{Kind: KindIOError, Stage: StagePreflight, Path: dir, Err: fmt.Errorf("%s is not a directory", dir)})
	}
	result.Target = dir

	free, err := s.config.FreeSpace(dir)
	if err != nil {
		return finish(newError(StagePreflight, dir, err))
	}
	if free <= s.config.Margin {
		return finish(&ShredError{
			Kind:  KindInsufficientSpace,
			Stage: StagePreflight,
			Path:  dir,
			Err:   fmt.Errorf("%w: %d bytes free, margin %d", ErrInsufficientSpace, free, s.config.Margin),
		})
	}
	target := free - s.config.Margin

	s.logger.Info("Free space wipe started",
		zap.String("target", dir),
		zap.Uint64("free", free),
		zap.Uint64("to_write", target))

	tempFile, err := s.createTempFile(dir)
	if err != nil {
		return finish(newError(StageFill, dir, err))
	}
	result.TempFile = tempFile.Name()

	written, fillErr := s.fill(ctx, tempFile, target, NewProgress(target, progress, s.logger))
	result.BytesWritten = written

	if closeErr := tempFile.Close(); fillErr == nil && closeErr != nil {
		fillErr = closeErr
	}

	if removeErr := s.remove(tempFile.Name()); removeErr != nil && !os.IsNotExist(removeErr) {
		if fillErr == nil {
			return finish(newError(StageCleanup, tempFile.Name(), removeErr))
		}
		combined := multierror.Append(fillErr, fmt.Errorf("cleanup of %s failed: %w", tempFile.Name(), removeErr))
		return finish(&ShredError{Kind: KindOf(fillErr), Stage: StageFill, Path: tempFile.Name(), Err: combined})
	}

	if fillErr != nil {
		return finish(newError(StageFill, tempFile.Name(), fillErr))
	}

	result.Success = true
	result.ElapsedTime = time.Since(start)

	s.logger.Info("Free space wipe completed",
		zap.String("target", dir),
		zap.Uint64("bytes_written", written),
		zap.Duration("elapsed", result.ElapsedTime))

	return result
}

// createTempFile создает уникальный временный файл в каталоге
func (s *Saturator) createTempFile(dir string) (*os.File, error) {
	for attempt := 0; attempt < 8; attempt++ {
		token := make([]byte, 8)
		if _, err := io.ReadFull(s.config.Rand, token); err != nil {
			return nil, fmt.Errorf("failed to generate temp name: %w", err)
		}

		name := filepath.Join(dir, tempFilePrefix+hex.EncodeToString(token)+".tmp")
		f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if os.IsExist(err) {
			continue
		}
		return f, err
	}
	return nil, fmt.Errorf("no free temp name in %s", dir)
}

// fill записывает target байт случайных данных и сбрасывает их на диск
func (s *Saturator) fill(ctx context.Context, f *os.File, target uint64, prog *Progress) (uint64, error) {
	buf := GetBuffer(s.config.ChunkSize)
	defer PutBuffer(buf)

	writer := NewThrottledWriter(ctx, f, s.config.MaxSpeedMBps, s.config.ChunkSize)

	var written uint64
	for written < target {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n := uint64(len(buf))
		if remaining := target - written; remaining < n {
			n = remaining
		}
		chunk := buf[:n]

		if err := FillPattern(chunk, RandomPattern(), s.config.Rand); err != nil {
			return written, err
		}

		m, err := writer.Write(chunk)
		written += uint64(m)
		if err != nil {
			return written, fmt.Errorf("write %s: %w", f.Name(), err)
		}

		prog.Add(n)
	}

	if err := writer.Sync(); err != nil {
		return written, fmt.Errorf("sync %s: %w", f.Name(), err)
	}
	prog.Finish()

	return written, nil
}
