package wipe

import (
	"go.uber.org/zap"
)

// ProgressFunc receives a completion percentage in 0..100.
type ProgressFunc func(percent int)

// Progress holds the counters of one job. It is never shared between jobs.
type Progress struct {
	Total     uint64
	Processed uint64

	report ProgressFunc
	logger *zap.Logger
	last   int
}

// NewProgress creates progress state for total bytes of work
func NewProgress(total uint64, report ProgressFunc, logger *zap.Logger) *Progress {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Progress{Total: total, report: report, logger: logger, last: -1}
}

// Add records n processed bytes and reports floor(processed/total*100).
func (p *Progress) Add(n uint64) {
	p.Processed += n
	if p.Total == 0 {
		return
	}

	processed := p.Processed
	if processed > p.Total {
		processed = p.Total
	}
	p.emit(int(processed * 100 / p.Total))
}

// Finish reports 100 unless it was already reported
func (p *Progress) Finish() {
	p.emit(100)
}

// Percent returns the last reported value, or 0
func (p *Progress) Percent() int {
	if p.last < 0 {
		return 0
	}
	return p.last
}

func (p *Progress) emit(percent int) {
	if percent <= p.last {
		return
	}
	p.last = percent

	if p.report == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("Progress callback panicked", zap.Any("panic", r))
		}
	}()
	p.report(percent)
}
