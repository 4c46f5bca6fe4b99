package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"secureshred/internal/config"
	"secureshred/internal/logging"
)

const (
	Version = "1.0.0"
	AppName = "secureshred"

	// Exit codes
	EXIT_SUCCESS   = 0
	EXIT_ERROR     = 1
	EXIT_CANCELLED = 2
)

var (
	// errOperationsFailed сигнализирует, что хотя бы одна операция не удалась
	errOperationsFailed = errors.New("some operations failed")
	// errCancelled возвращается, когда пользователь не подтвердил операцию
	errCancelled = errors.New("operation cancelled by user")
)

var (
	cfg        *config.Config
	logger     *zap.Logger
	verbose    bool
	configPath string
	profile    string
)

// CLI команды
var rootCmd = &cobra.Command{
	Use:           AppName,
	Short:         "secureshred - irrecoverable file destruction",
	Long:          "Overwrites files with multi-pass patterns, obfuscates their names, truncates and deletes them, and wipes free space of a volume.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var shredCmd = &cobra.Command{
	Use:   "shred [files...]",
	Short: "Securely destroy files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShred,
}

var freeSpaceCmd = &cobra.Command{
	Use:   "free-space [directory]",
	Short: "Overwrite the free space of the volume holding a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFreeSpace,
}

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List overwrite methods",
	Args:  cobra.NoArgs,
	RunE:  runMethods,
}

var hashCmd = &cobra.Command{
	Use:   "hash [files...]",
	Short: "Print SHA-256 of files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHash,
}

var infoCmd = &cobra.Command{
	Use:   "info [paths...]",
	Short: "Show volume information",
	RunE:  runInfo,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "Profile (fast/balanced/paranoid)")

	shredCmd.Flags().StringP("method", "m", "", "Overwrite method (dod/gutmann/random_7/simple)")
	shredCmd.Flags().Bool("verify", true, "Check that the directory entry is gone after deletion")
	shredCmd.Flags().BoolP("force", "f", false, "Skip confirmation")
	shredCmd.Flags().String("report", "", "Write a report to this file (.json or .txt)")
	shredCmd.Flags().Bool("json", false, "Print results as JSON")

	freeSpaceCmd.Flags().StringP("method", "m", "", "Method recorded in the result")
	freeSpaceCmd.Flags().BoolP("force", "f", false, "Skip confirmation")
	freeSpaceCmd.Flags().String("report", "", "Write a report to this file (.json or .txt)")
	freeSpaceCmd.Flags().Bool("json", false, "Print result as JSON")

	rootCmd.AddCommand(shredCmd, freeSpaceCmd, methodsCmd, hashCmd, infoCmd)
}

// setup загружает конфигурацию, применяет профиль и создает логгер
func setup() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if profile != "" {
		if err := config.ApplyProfile(cfg, profile); err != nil {
			return fmt.Errorf("failed to apply profile %s: %w", profile, err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err = logging.New(cfg, verbose)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	logger.Debug("Configuration loaded",
		zap.String("config", configPath),
		zap.String("profile", profile),
		zap.String("method", cfg.Shred.Method))

	return nil
}

// signalContext отменяется по SIGINT/SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Warn("Signal received, cancelling", zap.String("signal", sig.String()))
			fmt.Fprintf(os.Stderr, "\n[INFO] Received %s, stopping...\n", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errCancelled) {
			os.Exit(EXIT_CANCELLED)
		}
		if !errors.Is(err, errOperationsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(EXIT_ERROR)
	}
	os.Exit(EXIT_SUCCESS)
}
