package wipe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// hashChunkSize размер чанка при вычислении хеша
const hashChunkSize = 64 * 1024

// verifyDeletion проверяет только отсутствие записи каталога по итоговому пути.
// Секторы диска не читаются, поэтому Recoverable всегда false.
func verifyDeletion(path string, originalSize int64) *Verification {
	_, err := os.Lstat(path)
	return &Verification{
		FileExists:   err == nil || !os.IsNotExist(err),
		OriginalSize: originalSize,
		Recoverable:  false,
	}
}

// HashFile возвращает SHA-256 содержимого файла в hex
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	buf := GetBuffer(hashChunkSize)
	defer PutBuffer(buf)

	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
