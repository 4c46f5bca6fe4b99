//go:build windows

package security

import (
	"os"

	"golang.org/x/sys/windows"
)

// checkAccess отклоняет файлы с атрибутом "только чтение"
func checkAccess(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return &os.PathError{Op: "access", Path: path, Err: err}
	}

	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return &os.PathError{Op: "access", Path: path, Err: err}
	}

	if attrs&windows.FILE_ATTRIBUTE_READONLY != 0 {
		return &os.PathError{Op: "access", Path: path, Err: windows.ERROR_ACCESS_DENIED}
	}

	return nil
}
