package wipe

import (
	"context"
	"io"
	"os"

	"golang.org/x/time/rate"
)

// ThrottledWriter ограничивает скорость записи в файл
type ThrottledWriter struct {
	ctx     context.Context
	file    *os.File
	limiter *rate.Limiter
}

// NewThrottledWriter создает writer с лимитом maxSpeedMBps (0 = без лимита).
// burst должен быть не меньше максимального размера одной записи.
func NewThrottledWriter(ctx context.Context, file *os.File, maxSpeedMBps float64, burst int) *ThrottledWriter {
	tw := &ThrottledWriter{ctx: ctx, file: file}
	if maxSpeedMBps > 0 {
		if burst <= 0 {
			burst = 1024 * 1024
		}
		tw.limiter = rate.NewLimiter(rate.Limit(maxSpeedMBps*1024*1024), burst)
	}
	return tw
}

// Write записывает данные целиком, ожидая лимитер перед каждой записью
func (tw *ThrottledWriter) Write(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	if tw.limiter != nil {
		if err := tw.limiter.WaitN(tw.ctx, len(data)); err != nil {
			return 0, err
		}
	}

	n, err := tw.file.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	return n, err
}

// Sync синхронизирует данные на диск
func (tw *ThrottledWriter) Sync() error {
	return tw.file.Sync()
}
