package wipe

import (
	"time"
)

// Result результат уничтожения одного файла
type Result struct {
	Success     bool          `json:"success"`
	File        string        `json:"file"`
	Path        string        `json:"path"`
	Size        int64         `json:"size"`
	Method      Method        `json:"method"`
	Passes      int           `json:"passes"`
	ElapsedTime time.Duration `json:"elapsed_time"`
	Verified    *Verification `json:"verified,omitempty"`
	SHA256      string        `json:"sha256,omitempty"`
	Warning     string        `json:"warning,omitempty"`
	Error       ErrorKind     `json:"error,omitempty"`
	Detail      string        `json:"detail,omitempty"`
	Stage       Stage         `json:"stage,omitempty"`

	// Err holds the typed failure; not serialized
	Err error `json:"-"`
}

// Verification is a best-effort check made after unlink. It only tells
// whether the final directory entry is gone; it does not read back sectors
// and is no forensic guarantee. Recoverable is always false.
type Verification struct {
	FileExists   bool  `json:"file_exists"`
	OriginalSize int64 `json:"original_size"`
	Recoverable  bool  `json:"recoverable"`
}

// FreeSpaceResult результат затирания свободного места
type FreeSpaceResult struct {
	Success      bool          `json:"success"`
	Target       string        `json:"target"`
	BytesWritten uint64        `json:"bytes_written"`
	Method       Method        `json:"method"`
	TempFile     string        `json:"temp_file,omitempty"`
	ElapsedTime  time.Duration `json:"elapsed_time"`
	Error        ErrorKind     `json:"error,omitempty"`
	Detail       string        `json:"detail,omitempty"`

	Err error `json:"-"`
}

func (r *Result) fail(err *ShredError) *Result {
	r.Success = false
	r.Error = err.Kind
	r.Stage = err.Stage
	r.Detail = errorDetail(err.Err)
	r.Err = err
	return r
}

func (r *FreeSpaceResult) fail(err *ShredError) *FreeSpaceResult {
	r.Success = false
	r.Error = err.Kind
	r.Detail = errorDetail(err.Err)
	r.Err = err
	return r
}
