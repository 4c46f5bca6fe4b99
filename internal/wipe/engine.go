package wipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"secureshred/internal/config"
	"secureshred/internal/security"
	"secureshred/internal/system"
)

// ErrNotRegular возвращается для путей, не являющихся обычными файлами
var ErrNotRegular = errors.New("not a regular file")

// EngineConfig параметры движка уничтожения файлов
type EngineConfig struct {
	ChunkSize      int
	MaxSpeedMBps   float64
	AuditHash      bool
	MaxConcurrent  int
	ProtectedPaths []string

	// RenameRounds: 0 means DefaultRenameRounds, NoRenames disables the chain
	RenameRounds int

	// Rand overrides the secure random source; nil means crypto/rand
	Rand io.Reader
}

// EngineConfigFrom builds engine settings from the loaded configuration
func EngineConfigFrom(cfg *config.Config) EngineConfig {
	rounds := cfg.Shred.RenameRounds
	if rounds == 0 {
		// rename_rounds: 0 in the file is an explicit opt-out
		rounds = NoRenames
	}
	return EngineConfig{
		ChunkSize:      cfg.Shred.ChunkSize,
		RenameRounds:   rounds,
		MaxSpeedMBps:   cfg.Shred.MaxSpeedMBps,
		AuditHash:      cfg.Shred.AuditHash,
		MaxConcurrent:  cfg.Shred.MaxConcurrent,
		ProtectedPaths: cfg.Security.ProtectedPaths,
	}
}

// Engine destroys files: overwrite passes, rename chain, truncate, unlink.
// It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	cfg    EngineConfig
	logger *zap.Logger

	// filesystem hooks, replaced in tests
	rename func(oldpath, newpath string) error
	remove func(name string) error
}

// NewEngine creates new shred engine
func NewEngine(cfg EngineConfig, logger *zap.Logger) *Engine {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	switch {
	case cfg.RenameRounds == 0:
		cfg.RenameRounds = DefaultRenameRounds
	case cfg.RenameRounds < 0:
		cfg.RenameRounds = 0
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.Named("shred"),
		rename: os.Rename,
		remove: os.Remove,
	}
}

// Shred irrecoverably destroys the regular file at path. A failed result
// never means the file was shredded; its content may be partially
// overwritten when the failure happened mid-pass.
func (e *Engine) Shred(ctx context.Context, path string, method Method, verify bool, progress ProgressFunc) *Result {
	start := time.Now()

	resolved, known := ParseMethod(string(method))
	if !known {
		e.logger.Warn("Unknown method, falling back to simple", zap.String("method", string(method)))
	}
	passes := ResolvePasses(resolved)

	res := &Result{
		File:   filepath.Base(path),
		Path:   path,
		Method: resolved,
	}
	log := e.logger.With(zap.String("path", path), zap.String("method", string(resolved)))

	finish := func(err *ShredError) *Result {
		res.ElapsedTime = time.Since(start)
		res.fail(err)
		log.Error("Shred failed",
			zap.String("stage", string(err.Stage)),
			zap.String("kind", string(err.Kind)),
			zap.Error(err.Err))
		return res
	}

	if err := ctx.Err(); err != nil {
		return finish(newError(StagePreflight, path, err))
	}

	info, err := os.Lstat(path)
	if err != nil {
		return finish(newError(StagePreflight, path, err))
	}
	if !info.Mode().IsRegular() {
		return finish(&ShredError{Kind: KindIOError, Stage: StagePreflight, Path: path, Err: ErrNotRegular})
	}
	if err := security.CheckTarget(e.cfg.ProtectedPaths, path); err != nil {
		return finish(newError(StagePreflight, path, err))
	}

	size := info.Size()
	res.Size = size

	if e.cfg.AuditHash {
		sum, err := HashFile(path)
		if err != nil {
			return finish(newError(StageHash, path, err))
		}
		res.SHA256 = sum
		log.Info("Audit hash", zap.String("sha256", sum))
	}

	log.Info("Shred started", zap.Int64("size", size), zap.Int("passes", len(passes)))

	prog := NewProgress(uint64(size)*uint64(len(passes)), progress, log)
	if err := e.overwriteFile(ctx, path, size, passes, prog, log); err != nil {
		return finish(newError(StageOverwrite, path, err))
	}
	prog.Finish()

	finalPath, chain, err := obfuscateName(path, e.cfg.RenameRounds, e.cfg.Rand, e.rename)
	if err != nil {
		return finish(newError(StageRename, finalPath, err))
	}
	log.Debug("Name obfuscated", zap.Int("renames", len(chain)), zap.String("final", finalPath))

	if err := truncateFile(finalPath); err != nil {
		return finish(newError(StageTruncate, finalPath, err))
	}

	if err := e.remove(finalPath); err != nil {
		return finish(newError(StageDelete, finalPath, err))
	}

	if verify {
		res.Verified = verifyDeletion(finalPath, size)
		if res.Verified.FileExists {
			res.Warning = fmt.Sprintf("directory entry %s still exists after delete", finalPath)
			log.Warn("Verification found remaining entry", zap.String("final", finalPath))
		}
	}

	res.Success = true
	res.Passes = len(passes)
	res.ElapsedTime = time.Since(start)

	log.Info("Shred completed",
		zap.Int("passes", res.Passes),
		zap.Duration("elapsed", res.ElapsedTime))

	return res
}

func (e *Engine) overwriteFile(ctx context.Context, path string, size int64, passes []Pattern, prog *Progress, log *zap.Logger) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}

	opts := overwriteOptions{
		ChunkSize:    e.cfg.ChunkSize,
		MaxSpeedMBps: e.cfg.MaxSpeedMBps,
		Rand:         e.cfg.Rand,
	}
	if err := overwrite(ctx, f, size, passes, opts, prog, log); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// truncateFile обнуляет длину файла и сбрасывает изменение на диск
func truncateFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}

	if err := f.Truncate(0); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// BatchProgressFunc receives per-file progress during ShredBatch
type BatchProgressFunc func(path string, percent int)

// ShredBatch shreds every path and returns results in input order. Files on
// the same device are processed one after another; distinct devices may run
// in parallel up to MaxConcurrent, so progress may be called concurrently for
// different paths. A failure never stops the remaining files.
func (e *Engine) ShredBatch(ctx context.Context, paths []string, method Method, verify bool, progress BatchProgressFunc) []*Result {
	results := make([]*Result, len(paths))

	groups, order := groupByDevice(paths)

	g := new(errgroup.Group)
	g.SetLimit(e.cfg.MaxConcurrent)

	for _, dev := range order {
		indexes := groups[dev]
		g.Go(func() error {
			for _, i := range indexes {
				path := paths[i]
				var cb ProgressFunc
				if progress != nil {
					cb = func(pct int) { progress(path, pct) }
				}
				results[i] = e.Shred(ctx, path, method, verify, cb)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// groupByDevice группирует индексы путей по устройству, сохраняя порядок
func groupByDevice(paths []string) (map[string][]int, []string) {
	groups := make(map[string][]int)
	var order []string

	for i, p := range paths {
		dev, err := system.DeviceID(p)
		if err != nil {
			dev = ""
		}
		if _, ok := groups[dev]; !ok {
			order = append(order, dev)
		}
		groups[dev] = append(groups[dev], i)
	}

	return groups, order
}
