package reporting

import (
	"os"
	"time"

	"github.com/google/uuid"

	"secureshred/internal/config"
	"secureshred/internal/wipe"
)

// Version версия формата отчёта
const Version = "1.0.0"

// Report представляет отчёт о запуске
type Report struct {
	RunID     string                 `json:"run_id"`
	Version   string                 `json:"version"`
	Hostname  string                 `json:"hostname,omitempty"`
	Command   string                 `json:"command"`
	Timestamp time.Time              `json:"timestamp"`
	Config    map[string]interface{} `json:"config"`
	Files     []FileReport           `json:"files,omitempty"`
	FreeSpace []FreeSpaceReport      `json:"free_space,omitempty"`
	Summary   SummaryReport          `json:"summary"`
	ExitCode  int                    `json:"exit_code"`
	Duration  string                 `json:"duration"`
}

// FileReport представляет отчёт об уничтожении одного файла
type FileReport struct {
	Path      string  `json:"path"`
	Method    string  `json:"method"`
	Passes    int     `json:"passes"`
	Size      int64   `json:"size"`
	Status    string  `json:"status"`
	ElapsedMs int64   `json:"elapsed_ms"`
	SpeedMBps float64 `json:"speed_mbps"`
	SHA256    string  `json:"sha256,omitempty"`
	Verified  *bool   `json:"verified_absent,omitempty"`
	Error     string  `json:"error,omitempty"`
	Stage     string  `json:"stage,omitempty"`
	Detail    string  `json:"detail,omitempty"`
	Warning   string  `json:"warning,omitempty"`
}

// FreeSpaceReport представляет отчёт о затирании свободного места
type FreeSpaceReport struct {
	Target       string  `json:"target"`
	Method       string  `json:"method"`
	Status       string  `json:"status"`
	BytesWritten uint64  `json:"bytes_written"`
	ElapsedMs    int64   `json:"elapsed_ms"`
	SpeedMBps    float64 `json:"speed_mbps"`
	Error        string  `json:"error,omitempty"`
	Detail       string  `json:"detail,omitempty"`
}

// SummaryReport представляет сводную информацию
type SummaryReport struct {
	Total       int     `json:"total"`
	Succeeded   int     `json:"succeeded"`
	Failed      int     `json:"failed"`
	Cancelled   int     `json:"cancelled"`
	Warnings    int     `json:"warnings"`
	TotalBytes  uint64  `json:"total_bytes"`
	SuccessRate float64 `json:"success_rate"`
}

const (
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusCancelled = "cancelled"
)

// NewReport начинает отчёт о запуске команды
func NewReport(command string, cfg *config.Config, startTime time.Time) *Report {
	hostname, _ := os.Hostname()
	return &Report{
		RunID:     uuid.NewString(),
		Version:   Version,
		Hostname:  hostname,
		Command:   command,
		Timestamp: startTime,
		Config:    configToMap(cfg),
	}
}

// AddResults добавляет результаты уничтожения файлов
func (r *Report) AddResults(results []*wipe.Result) {
	for _, res := range results {
		if res == nil {
			continue
		}

		fr := FileReport{
			Path:      res.Path,
			Method:    string(res.Method),
			Passes:    res.Passes,
			Size:      res.Size,
			Status:    statusOf(res.Success, res.Error),
			ElapsedMs: res.ElapsedTime.Milliseconds(),
			SHA256:    res.SHA256,
			Error:     string(res.Error),
			Stage:     string(res.Stage),
			Detail:    res.Detail,
			Warning:   res.Warning,
		}
		if res.Success {
			fr.SpeedMBps = speedMBps(uint64(res.Size)*uint64(res.Passes), res.ElapsedTime)
		}
		if res.Verified != nil {
			absent := !res.Verified.FileExists
			fr.Verified = &absent
		}

		r.Files = append(r.Files, fr)
	}
}

// AddFreeSpace добавляет результат затирания свободного места
func (r *Report) AddFreeSpace(res *wipe.FreeSpaceResult) {
	if res == nil {
		return
	}

	r.FreeSpace = append(r.FreeSpace, FreeSpaceReport{
		Target:       res.Target,
		Method:       string(res.Method),
		Status:       statusOf(res.Success, res.Error),
		BytesWritten: res.BytesWritten,
		ElapsedMs:    res.ElapsedTime.Milliseconds(),
		SpeedMBps:    speedMBps(res.BytesWritten, res.ElapsedTime),
		Error:        string(res.Error),
		Detail:       res.Detail,
	})
}

// Finalize подсчитывает сводку и код выхода
func (r *Report) Finalize(endTime time.Time) {
	r.Duration = endTime.Sub(r.Timestamp).String()

	var s SummaryReport
	count := func(status, warning string, bytes uint64) {
		s.Total++
		switch status {
		case statusCompleted:
			s.Succeeded++
			s.TotalBytes += bytes
		case statusCancelled:
			s.Cancelled++
		default:
			s.Failed++
		}
		if warning != "" {
			s.Warnings++
		}
	}

	for _, f := range r.Files {
		count(f.Status, f.Warning, uint64(f.Size))
	}
	for _, fs := range r.FreeSpace {
		count(fs.Status, "", fs.BytesWritten)
	}

	if s.Total > 0 {
		s.SuccessRate = float64(s.Succeeded) / float64(s.Total) * 100
	}
	r.Summary = s

	r.ExitCode = 0
	if s.Succeeded < s.Total {
		r.ExitCode = 1
	}
}

func statusOf(success bool, kind wipe.ErrorKind) string {
	switch {
	case success:
		return statusCompleted
	case kind == wipe.KindCancelled:
		return statusCancelled
	default:
		return statusFailed
	}
}

func speedMBps(bytes uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(bytes) / (1024 * 1024) / elapsed.Seconds()
}

// configToMap преобразует Config в map для JSON сериализации
func configToMap(cfg *config.Config) map[string]interface{} {
	if cfg == nil {
		return nil
	}
	return map[string]interface{}{
		"shred": map[string]interface{}{
			"method":         cfg.Shred.Method,
			"verify":         cfg.Shred.Verify,
			"chunk_size":     cfg.Shred.ChunkSize,
			"rename_rounds":  cfg.Shred.RenameRounds,
			"audit_hash":     cfg.Shred.AuditHash,
			"max_speed_mbps": cfg.Shred.MaxSpeedMBps,
			"max_concurrent": cfg.Shred.MaxConcurrent,
		},
		"free_space": map[string]interface{}{
			"margin_mb":  cfg.FreeSpace.MarginMB,
			"chunk_size": cfg.FreeSpace.ChunkSize,
		},
		"security": map[string]interface{}{
			"require_confirmation": cfg.Security.RequireConfirmation,
			"protected_paths":      cfg.Security.ProtectedPaths,
		},
		"logging": map[string]interface{}{
			"level": cfg.Logging.Level,
			"file":  cfg.Logging.File,
		},
	}
}
