//go:build windows

package system

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

// DeviceID returns the volume name holding path
func DeviceID(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	return strings.ToUpper(filepath.VolumeName(absPath)), nil
}

// IsDiskFullError проверяет, является ли ошибка ошибкой "Недостаточно места на диске"
func IsDiskFullError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, windows.ERROR_DISK_FULL) || errors.Is(err, windows.ERROR_HANDLE_DISK_FULL)
}

// IsPermissionError проверяет ошибки доступа и блокировки файла
func IsPermissionError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, windows.ERROR_ACCESS_DENIED) ||
		errors.Is(err, windows.ERROR_SHARING_VIOLATION) ||
		errors.Is(err, windows.ERROR_WRITE_PROTECT)
}
