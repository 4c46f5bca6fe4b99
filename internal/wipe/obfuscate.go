package wipe

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// DefaultRenameRounds количество переименований файла
	DefaultRenameRounds = 10
	// NoRenames отключает цепочку переименований
	NoRenames = -1
)

// obfuscateName переименовывает файл rounds раз в том же каталоге.
// Каждое имя - случайная hex строка с исходным расширением.
// Возвращает итоговый путь и все промежуточные имена.
func obfuscateName(path string, rounds int, rnd io.Reader, rename func(oldpath, newpath string) error) (string, []string, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	if rename == nil {
		rename = os.Rename
	}
	if rounds < 0 {
		rounds = 0
	}

	dir := filepath.Dir(path)
	ext := filepath.Ext(path)

	current := path
	chain := make([]string, 0, rounds)
	for i := 0; i < rounds; i++ {
		next, err := randomName(dir, ext, rnd)
		if err != nil {
			return current, chain, err
		}

		if err := rename(current, next); err != nil {
			return current, chain, fmt.Errorf("rename %d/%d: %w", i+1, rounds, err)
		}

		current = next
		chain = append(chain, next)
	}

	return current, chain, nil
}

// randomName генерирует свободное имя в каталоге dir
func randomName(dir, ext string, rnd io.Reader) (string, error) {
	for attempt := 0; attempt < 8; attempt++ {
		token := make([]byte, 8)
		if _, err := io.ReadFull(rnd, token); err != nil {
			return "", fmt.Errorf("failed to generate random name: %w", err)
		}

		candidate := filepath.Join(dir, hex.EncodeToString(token)+ext)
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free random name in %s", dir)
}
