//go:build !windows

package security

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// checkAccess: файл должен быть доступен на чтение и запись,
// каталог: на запись и поиск (rename и unlink).
func checkAccess(path string) error {
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return &os.PathError{Op: "access", Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("directory does not allow rename/delete: %w", &os.PathError{Op: "access", Path: dir, Err: err})
	}

	return nil
}
