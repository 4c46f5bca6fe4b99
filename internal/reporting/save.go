package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"secureshred/internal/config"
)

// ReportFileName returns the default file name of a report in the given format
func ReportFileName(report *Report, format string) string {
	return fmt.Sprintf("secureshred_%s_%s.%s",
		report.Timestamp.Format("20060102_150405"), report.RunID[:8], format)
}

// SaveReport writes the report to the configured reports directory when
// reporting is enabled, and to every extra path. Every destination is
// attempted; failures are collected. The returned slice lists written files.
func SaveReport(report *Report, cfg *config.Config, extra ...string) ([]string, error) {
	format := cfg.Reporting.Format
	if format == "" {
		format = "json"
	}

	var (
		targets []string
		written []string
		result  *multierror.Error
	)
	if cfg.Reporting.Enabled {
		if err := os.MkdirAll(cfg.Reporting.LocalPath, 0755); err != nil {
			result = multierror.Append(result, fmt.Errorf("error creating reports directory: %w", err))
		} else {
			targets = append(targets, filepath.Join(cfg.Reporting.LocalPath, ReportFileName(report, format)))
		}
	}
	for _, p := range extra {
		if p != "" {
			targets = append(targets, p)
		}
	}

	for _, target := range targets {
		if err := writeReport(report, target, formatFor(target, format)); err != nil {
			result = multierror.Append(result, fmt.Errorf("report %s: %w", target, err))
			continue
		}
		written = append(written, target)
	}

	return written, result.ErrorOrNil()
}

// formatFor picks the format from an explicit extension, else the configured one
func formatFor(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".txt":
		return "txt"
	default:
		return fallback
	}
}

func writeReport(report *Report, path, format string) error {
	var data []byte
	switch format {
	case "json":
		var err error
		data, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling report: %w", err)
		}
	case "txt":
		data = []byte(FormatText(report))
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	return os.WriteFile(path, data, 0644)
}

// FormatText renders a human readable report
func FormatText(report *Report) string {
	var content strings.Builder

	content.WriteString(fmt.Sprintf("secureshred report (%s)\n", report.Command))
	content.WriteString(fmt.Sprintf("Run ID:    %s\n", report.RunID))
	content.WriteString(fmt.Sprintf("Host:      %s\n", report.Hostname))
	content.WriteString(fmt.Sprintf("Started:   %s\n", report.Timestamp.Format("2006-01-02 15:04:05")))
	content.WriteString(fmt.Sprintf("Duration:  %s\n", report.Duration))
	content.WriteString(strings.Repeat("=", 80) + "\n\n")

	if len(report.Files) > 0 {
		content.WriteString("FILES\n")
		content.WriteString(strings.Repeat("-", 50) + "\n")
		for _, f := range report.Files {
			content.WriteString(fmt.Sprintf("[%s] %s\n", strings.ToUpper(f.Status), f.Path))
			content.WriteString(fmt.Sprintf("  Method: %s, passes: %d, size: %s\n", f.Method, f.Passes, formatBytes(uint64(f.Size))))
			if f.SHA256 != "" {
				content.WriteString(fmt.Sprintf("  SHA-256: %s\n", f.SHA256))
			}
			if f.Error != "" {
				content.WriteString(fmt.Sprintf("  Error: %s at %s: %s\n", f.Error, f.Stage, f.Detail))
			}
			if f.Warning != "" {
				content.WriteString(fmt.Sprintf("  Warning: %s\n", f.Warning))
			}
		}
		content.WriteString("\n")
	}

	if len(report.FreeSpace) > 0 {
		content.WriteString("FREE SPACE\n")
		content.WriteString(strings.Repeat("-", 50) + "\n")
		for _, fs := range report.FreeSpace {
			content.WriteString(fmt.Sprintf("[%s] %s\n", strings.ToUpper(fs.Status), fs.Target))
			content.WriteString(fmt.Sprintf("  Written: %s at %.1f MB/s\n", formatBytes(fs.BytesWritten), fs.SpeedMBps))
			if fs.Error != "" {
				content.WriteString(fmt.Sprintf("  Error: %s: %s\n", fs.Error, fs.Detail))
			}
		}
		content.WriteString("\n")
	}

	s := report.Summary
	content.WriteString("SUMMARY\n")
	content.WriteString(strings.Repeat("-", 50) + "\n")
	content.WriteString(fmt.Sprintf("Total: %d, succeeded: %d, failed: %d, cancelled: %d, warnings: %d\n",
		s.Total, s.Succeeded, s.Failed, s.Cancelled, s.Warnings))
	content.WriteString(fmt.Sprintf("Destroyed: %s\n", formatBytes(s.TotalBytes)))
	content.WriteString(fmt.Sprintf("Success rate: %.2f%%\n", s.SuccessRate))

	return content.String()
}

// formatBytes форматирует размер в человекочитаемый вид
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
