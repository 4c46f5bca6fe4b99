package config

import (
	"fmt"
)

// ApplyProfile применяет профиль к конфигурации
func ApplyProfile(cfg *Config, profile string) error {
	switch profile {
	case "fast":
		cfg.Shred.Method = "simple"
		cfg.Shred.ChunkSize = 1024 * 1024 // 1MB
		cfg.Shred.RenameRounds = 3
		cfg.Shred.AuditHash = false
		cfg.Shred.MaxSpeedMBps = 0
		cfg.FreeSpace.ChunkSize = 4 * 1024 * 1024 // 4MB
	case "balanced":
		cfg.Shred.Method = "dod"
		cfg.Shred.ChunkSize = 64 * 1024 // 64KB
		cfg.Shred.RenameRounds = 10
		cfg.Shred.Verify = true
		cfg.FreeSpace.ChunkSize = 1024 * 1024 // 1MB
	case "paranoid":
		cfg.Shred.Method = "gutmann"
		cfg.Shred.ChunkSize = 64 * 1024 // 64KB
		cfg.Shred.RenameRounds = 25
		cfg.Shred.Verify = true
		cfg.Shred.AuditHash = true
		cfg.Shred.MaxConcurrent = 1
		cfg.FreeSpace.MarginMB = 100
	default:
		return fmt.Errorf("unknown profile: %s", profile)
	}
	return nil
}

// ProfileNames возвращает список поддерживаемых профилей
func ProfileNames() []string {
	return []string{"fast", "balanced", "paranoid"}
}
