package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrProtectedPath возвращается для путей внутри защищённых каталогов
var ErrProtectedPath = fmt.Errorf("path is protected: %w", os.ErrPermission)

// IsProtectedPath проверяет, лежит ли path внутри одного из защищённых каталогов
func IsProtectedPath(protected []string, path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	for _, p := range protected {
		root, err := filepath.Abs(p)
		if err != nil {
			continue
		}

		rel, err := filepath.Rel(root, absPath)
		if err != nil {
			continue
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
			continue
		}
		return true
	}

	return false
}

// CheckTarget выполняет проверки перед уничтожением файла: защищённые пути
// и права на запись файла и изменение каталога.
func CheckTarget(protected []string, path string) error {
	if IsProtectedPath(protected, path) {
		return fmt.Errorf("%s: %w", path, ErrProtectedPath)
	}

	return checkAccess(path)
}
