package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"secureshred/internal/system"
	"secureshred/internal/wipe"
)

func runMethods(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), "Overwrite methods:")
	fmt.Fprintln(cmd.OutOrStdout(), "==================")
	for _, m := range wipe.Methods() {
		marker := " "
		if string(m.Method) == cfg.Shred.Method {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-9s %2d passes  %s\n", marker, m.Method, m.Passes, m.Description)
	}
	return nil
}

func runHash(cmd *cobra.Command, args []string) error {
	failed := false
	for _, path := range args {
		sum, err := wipe.HashFile(path)
		if err != nil {
			logger.Error("Hash failed", zap.String("path", path), zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sum, path)
	}

	if failed {
		return errOperationsFailed
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Volume information:")
	fmt.Fprintln(cmd.OutOrStdout(), "===================")
	for _, path := range args {
		info, err := system.GetVolumeInfo(path)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s - %s (%.1f GB total, %.1f GB free, device %s, %s)\n",
			info.Path, info.Fstype,
			float64(info.TotalSize)/(1024*1024*1024),
			float64(info.FreeSize)/(1024*1024*1024),
			info.DeviceID,
			map[bool]string{true: "writable", false: "read-only"}[info.IsWritable])
	}

	return nil
}
