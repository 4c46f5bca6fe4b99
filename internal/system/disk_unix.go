//go:build !windows

package system

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sys/unix"
)

// DeviceID returns an identifier of the device holding path (st_dev)
func DeviceID(path string) (string, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return strconv.FormatUint(uint64(st.Dev), 10), nil
}

// IsDiskFullError проверяет, является ли ошибка ошибкой "нет места на устройстве"
func IsDiskFullError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, unix.ENOSPC) || errors.Is(err, unix.EDQUOT)
}

// IsPermissionError проверяет ошибки доступа, включая файловую систему только для чтения
func IsPermissionError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) || errors.Is(err, unix.EROFS)
}
