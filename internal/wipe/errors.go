package wipe

import (
	"context"
	"errors"
	"fmt"
	"os"

	"secureshred/internal/system"
)

// ErrorKind classifies a failed operation
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindPermissionDenied  ErrorKind = "permission_denied"
	KindIOError           ErrorKind = "io_error"
	KindSizeChanged       ErrorKind = "size_changed"
	KindCancelled         ErrorKind = "cancelled"
	KindInsufficientSpace ErrorKind = "insufficient_space"
)

// Stage names the step of the shred lifecycle that failed
type Stage string

const (
	StagePreflight Stage = "preflight"
	StageHash      Stage = "hash"
	StageOverwrite Stage = "overwrite"
	StageRename    Stage = "rename"
	StageTruncate  Stage = "truncate"
	StageDelete    Stage = "delete"
	StageFill      Stage = "fill"
	StageCleanup   Stage = "cleanup"
)

// ErrSizeChanged сигнализирует об изменении размера файла во время затирания
var ErrSizeChanged = errors.New("file size changed during shred")

// ErrInsufficientSpace возвращается, когда свободное место не превышает резерв
var ErrInsufficientSpace = errors.New("not enough free space")

// ShredError is the typed failure returned by the engine and the saturator
type ShredError struct {
	Kind  ErrorKind
	Stage Stage
	Path  string
	Err   error
}

func (e *ShredError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Stage, e.Path, e.Kind, e.Err)
}

func (e *ShredError) Unwrap() error {
	return e.Err
}

// newError оборачивает err, определяя его вид
func newError(stage Stage, path string, err error) *ShredError {
	var se *ShredError
	if errors.As(err, &se) {
		return se
	}
	return &ShredError{Kind: KindOf(err), Stage: stage, Path: path, Err: err}
}

// KindOf classifies an arbitrary error into the taxonomy
func KindOf(err error) ErrorKind {
	var se *ShredError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return se.Kind
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	case errors.Is(err, ErrSizeChanged):
		return KindSizeChanged
	case errors.Is(err, ErrInsufficientSpace):
		return KindInsufficientSpace
	case errors.Is(err, os.ErrNotExist):
		return KindNotFound
	case errors.Is(err, os.ErrPermission), system.IsPermissionError(err):
		return KindPermissionDenied
	default:
		return KindIOError
	}
}

// errorDetail returns a human readable detail for io errors
func errorDetail(err error) string {
	if err == nil {
		return ""
	}
	if system.IsDiskFullError(err) {
		return "disk full: " + err.Error()
	}
	return err.Error()
}
