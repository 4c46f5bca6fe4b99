package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
)

// GetVolumeInfo gets information about the volume containing path
func GetVolumeInfo(path string) (*VolumeInfo, error) {
	absPath, err := ValidatePath(path)
	if err != nil {
		return nil, err
	}

	usage, err := disk.Usage(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to query disk usage for %s: %w", absPath, err)
	}

	deviceID, err := DeviceID(absPath)
	if err != nil {
		return nil, err
	}

	dir := absPath
	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		dir = filepath.Dir(absPath)
	}

	return &VolumeInfo{
		Path:       absPath,
		Fstype:     usage.Fstype,
		TotalSize:  usage.Total,
		FreeSize:   usage.Free,
		UsedSize:   usage.Used,
		DeviceID:   deviceID,
		IsWritable: CheckWriteAccess(dir),
	}, nil
}

// FreeBytes returns the bytes available to the current user on the volume containing path
func FreeBytes(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, fmt.Errorf("failed to query disk usage for %s: %w", path, err)
	}
	return usage.Free, nil
}

// CheckWriteAccess checks write access to a directory by creating a probe file
func CheckWriteAccess(dir string) bool {
	probe, err := os.CreateTemp(dir, ".secureshred_write_test_*")
	if err != nil {
		return false
	}

	name := probe.Name()
	probe.Close()
	os.Remove(name)

	return true
}

// ValidatePath validates and normalizes path
func ValidatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("path does not exist: %s: %w", absPath, err)
		}
		return "", fmt.Errorf("cannot access path %s: %w", absPath, err)
	}

	return absPath, nil
}
