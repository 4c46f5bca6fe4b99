package wipe

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
)

// BufferPool управляет пулом буферов для оптимизации памяти
type BufferPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

var globalBufferPool = &BufferPool{
	pools: make(map[int]*sync.Pool),
}

// GetBuffer получает буфер из пула или создает новый
func GetBuffer(size int) []byte {
	if size <= 0 {
		return nil
	}

	return globalBufferPool.getBuffer(size)
}

// PutBuffer возвращает буфер в пул
func PutBuffer(buf []byte) {
	if cap(buf) == 0 {
		return
	}

	globalBufferPool.putBuffer(buf)
}

func (bp *BufferPool) getBuffer(size int) []byte {
	poolSize := bp.getPoolSize(size)

	bp.mu.RLock()
	pool, exists := bp.pools[poolSize]
	bp.mu.RUnlock()

	if !exists {
		bp.mu.Lock()
		pool, exists = bp.pools[poolSize]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return make([]byte, poolSize)
				},
			}
			bp.pools[poolSize] = pool
		}
		bp.mu.Unlock()
	}

	buf := pool.Get().([]byte)
	return buf[:size]
}

func (bp *BufferPool) putBuffer(buf []byte) {
	capacity := cap(buf)
	poolSize := bp.getPoolSize(capacity)
	if poolSize != capacity {
		return
	}

	bp.mu.RLock()
	pool, exists := bp.pools[poolSize]
	bp.mu.RUnlock()

	if exists {
		// Остатки паттернов и случайных данных не должны жить в пуле
		full := buf[:capacity]
		clear(full)
		pool.Put(full)
	}
}

// getPoolSize определяет размер пула для буфера
func (bp *BufferPool) getPoolSize(size int) int {
	sizes := []int{4096, 16384, 65536, 262144, 1048576, 4194304, 16777216}

	for _, poolSize := range sizes {
		if size <= poolSize {
			return poolSize
		}
	}

	return ((size + 4095) / 4096) * 4096 // Округляем до 4KB
}

// FillPattern заполняет буфер данными прохода. Случайные данные читаются из
// rnd (crypto/rand при nil), мотив повторяется циклически ровно len(buf) байт.
func FillPattern(buf []byte, p Pattern, rnd io.Reader) error {
	if len(buf) == 0 {
		return nil
	}

	if p.Random {
		if rnd == nil {
			rnd = rand.Reader
		}
		if _, err := io.ReadFull(rnd, buf); err != nil {
			return fmt.Errorf("failed to generate random data: %w", err)
		}
		return nil
	}

	if len(p.Motif) == 0 {
		return fmt.Errorf("empty pattern motif")
	}

	n := copy(buf, p.Motif)
	for n < len(buf) {
		n += copy(buf[n:], buf[:n])
	}
	return nil
}
