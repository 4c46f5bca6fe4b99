package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"secureshred/internal/reporting"
	"secureshred/internal/system"
	"secureshred/internal/wipe"
)

func runShred(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	method := cfg.Shred.Method
	if m, _ := cmd.Flags().GetString("method"); m != "" {
		method = m
	}
	verify := cfg.Shred.Verify
	if cmd.Flags().Changed("verify") {
		verify, _ = cmd.Flags().GetBool("verify")
	}
	force, _ := cmd.Flags().GetBool("force")
	asJSON, _ := cmd.Flags().GetBool("json")

	if _, known := wipe.ParseMethod(method); !known {
		fmt.Fprintf(os.Stderr, "[WARN] Unknown method %q, using %s\n", method, wipe.MethodSimple)
	}

	if !force && cfg.Security.RequireConfirmation {
		fmt.Fprintf(cmd.OutOrStdout(), "WARNING: %d file(s) will be destroyed irrecoverably:\n", len(args))
		for _, path := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", path)
		}
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout()) {
			logger.Info("Operation cancelled by user")
			return errCancelled
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	engine := wipe.NewEngine(wipe.EngineConfigFrom(cfg), logger)

	logger.Info("Shredding files",
		zap.Int("count", len(args)),
		zap.String("method", method),
		zap.Bool("verify", verify))

	progress := newProgressPrinter(cmd.ErrOrStderr(), !asJSON)
	results := engine.ShredBatch(ctx, args, wipe.Method(method), verify, progress.update)
	progress.done()

	report := reporting.NewReport("shred", cfg, startTime)
	report.AddResults(results)
	report.Finalize(time.Now())

	if asJSON {
		if err := printJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		printResults(cmd.OutOrStdout(), results)
	}

	saveReport(cmd, report)

	if report.ExitCode != EXIT_SUCCESS {
		return errOperationsFailed
	}
	return nil
}

func runFreeSpace(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	method := cfg.Shred.Method
	if m, _ := cmd.Flags().GetString("method"); m != "" {
		method = m
	}
	force, _ := cmd.Flags().GetBool("force")
	asJSON, _ := cmd.Flags().GetBool("json")

	if !force && cfg.Security.RequireConfirmation {
		info, err := system.GetVolumeInfo(target)
		if err != nil {
			return fmt.Errorf("failed to query volume: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "WARNING: free space of %s will be filled (%.1f GB free, %d MB kept)\n",
			info.Path, float64(info.FreeSize)/(1024*1024*1024), cfg.FreeSpace.MarginMB)
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout()) {
			logger.Info("Operation cancelled by user")
			return errCancelled
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	saturator := wipe.NewSaturator(wipe.SaturatorConfigFrom(cfg), logger)

	progress := newProgressPrinter(cmd.ErrOrStderr(), !asJSON)
	result := saturator.ShredFreeSpace(ctx, target, wipe.Method(method), func(pct int) {
		progress.update(target, pct)
	})
	progress.done()

	report := reporting.NewReport("free-space", cfg, startTime)
	report.AddFreeSpace(result)
	report.Finalize(time.Now())

	if asJSON {
		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		status := "✓"
		if !result.Success {
			status = "✗"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s - %.1f MB written in %s\n", status, result.Target,
			float64(result.BytesWritten)/(1024*1024), result.ElapsedTime.Round(time.Millisecond))
		if result.Error != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "  Error: %s: %s\n", result.Error, result.Detail)
		}
	}

	saveReport(cmd, report)

	if report.ExitCode != EXIT_SUCCESS {
		return errOperationsFailed
	}
	return nil
}

// saveReport сохраняет отчёт; ошибки сохранения не меняют код выхода
func saveReport(cmd *cobra.Command, report *reporting.Report) {
	extra, _ := cmd.Flags().GetString("report")

	written, err := reporting.SaveReport(report, cfg, extra)
	if err != nil {
		logger.Warn("Failed to save report", zap.Error(err))
	}
	for _, path := range written {
		logger.Info("Report saved", zap.String("run_id", report.RunID), zap.String("file", path))
	}
}

func printResults(w io.Writer, results []*wipe.Result) {
	fmt.Fprintln(w, "\nResults:")
	fmt.Fprintln(w, "========")
	for _, res := range results {
		if res.Success {
			fmt.Fprintf(w, "✓ %s - %s, %d passes, %s\n", res.Path, res.Method, res.Passes, res.ElapsedTime.Round(time.Millisecond))
		} else {
			fmt.Fprintf(w, "✗ %s - %s at %s\n", res.Path, res.Error, res.Stage)
			fmt.Fprintf(w, "  Error: %s\n", res.Detail)
		}
		if res.Warning != "" {
			fmt.Fprintf(w, "  Warning: %s\n", res.Warning)
		}
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confirm запрашивает подтверждение у пользователя
func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Continue? (y/N): ")
	reader := bufio.NewReader(in)
	response, _ := reader.ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// progressPrinter выводит прогресс в одну строку
type progressPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
	dirty   bool
}

func newProgressPrinter(w io.Writer, enabled bool) *progressPrinter {
	return &progressPrinter{w: w, enabled: enabled}
}

func (p *progressPrinter) update(path string, percent int) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\r%3d%% %s", percent, path)
	p.dirty = true
}

func (p *progressPrinter) done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dirty {
		fmt.Fprintln(p.w)
		p.dirty = false
	}
}
