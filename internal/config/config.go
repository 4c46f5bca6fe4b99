package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Конфигурация secureshred
type Config struct {
	Shred struct {
		Method        string  `yaml:"method"`
		Verify        bool    `yaml:"verify"`
		ChunkSize     int     `yaml:"chunk_size"`
		RenameRounds  int     `yaml:"rename_rounds"`
		AuditHash     bool    `yaml:"audit_hash"`
		MaxSpeedMBps  float64 `yaml:"max_speed_mbps"`
		MaxConcurrent int     `yaml:"max_concurrent"`
	} `yaml:"shred"`

	FreeSpace struct {
		MarginMB  int64 `yaml:"margin_mb"`
		ChunkSize int   `yaml:"chunk_size"`
	} `yaml:"free_space"`

	Security struct {
		RequireConfirmation bool     `yaml:"require_confirmation"`
		ProtectedPaths      []string `yaml:"protected_paths"`
	} `yaml:"security"`

	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`

	Reporting struct {
		Enabled   bool   `yaml:"enabled"`
		LocalPath string `yaml:"local_path"`
		Format    string `yaml:"format"`
	} `yaml:"reporting"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	cfg := &Config{}

	cfg.Shred.Method = "dod"
	cfg.Shred.Verify = true
	cfg.Shred.ChunkSize = 64 * 1024 // 64KB
	cfg.Shred.RenameRounds = 10
	cfg.Shred.AuditHash = false
	cfg.Shred.MaxSpeedMBps = 0 // без ограничения
	cfg.Shred.MaxConcurrent = 1

	cfg.FreeSpace.MarginMB = 100
	cfg.FreeSpace.ChunkSize = 1024 * 1024 // 1MB

	cfg.Security.RequireConfirmation = true
	cfg.Security.ProtectedPaths = defaultProtectedPaths()

	cfg.Logging.Level = "INFO"
	cfg.Logging.File = ""

	cfg.Reporting.Enabled = false
	cfg.Reporting.LocalPath = "./reports"
	cfg.Reporting.Format = "json"

	return cfg
}

// Load загружает конфигурацию из файла
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Значения из файла накладываются поверх значений по умолчанию
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию на валидность
func Validate(config *Config) error {
	validMethods := map[string]bool{
		"dod":      true,
		"gutmann":  true,
		"random_7": true,
		"simple":   true,
	}
	if !validMethods[strings.ToLower(config.Shred.Method)] {
		return fmt.Errorf("invalid shred method: %s", config.Shred.Method)
	}

	if config.Shred.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", config.Shred.ChunkSize)
	}
	if config.Shred.ChunkSize > 64*1024*1024 {
		return fmt.Errorf("chunk size too large (max 64MB), got %d", config.Shred.ChunkSize)
	}

	if config.Shred.RenameRounds < 0 || config.Shred.RenameRounds > 100 {
		return fmt.Errorf("rename rounds must be between 0 and 100, got %d", config.Shred.RenameRounds)
	}

	if config.Shred.MaxSpeedMBps < 0 {
		return fmt.Errorf("max speed cannot be negative, got %f", config.Shred.MaxSpeedMBps)
	}
	if config.Shred.MaxSpeedMBps > 10000 {
		return fmt.Errorf("max speed too high (max 10000MB/s), got %f", config.Shred.MaxSpeedMBps)
	}

	if config.Shred.MaxConcurrent <= 0 || config.Shred.MaxConcurrent > 16 {
		return fmt.Errorf("max concurrent must be between 1 and 16, got %d", config.Shred.MaxConcurrent)
	}

	if config.FreeSpace.MarginMB < 1 {
		return fmt.Errorf("free space margin must be at least 1 MB, got %d", config.FreeSpace.MarginMB)
	}
	if config.FreeSpace.ChunkSize <= 0 || config.FreeSpace.ChunkSize > 256*1024*1024 {
		return fmt.Errorf("free space chunk size must be between 1 byte and 256MB, got %d", config.FreeSpace.ChunkSize)
	}

	validLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
	}
	if !validLevels[strings.ToUpper(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	if config.Reporting.Format != "json" && config.Reporting.Format != "txt" {
		return fmt.Errorf("unsupported report format: %s", config.Reporting.Format)
	}

	for _, path := range config.Security.ProtectedPaths {
		if path == "" {
			return fmt.Errorf("empty protected path")
		}

		cleaned := filepath.Clean(path)
		if cleaned == "." {
			return fmt.Errorf("invalid protected path: %s", path)
		}
	}

	return nil
}

// Save сохраняет конфигурацию в файл
func Save(config *Config, path string) error {
	if err := Validate(config); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FreeSpaceMargin возвращает резерв свободного места в байтах
func (config *Config) FreeSpaceMargin() uint64 {
	return uint64(config.FreeSpace.MarginMB) * 1024 * 1024
}

// defaultProtectedPaths возвращает системные каталоги, которые нельзя затирать
func defaultProtectedPaths() []string {
	if windir := os.Getenv("WINDIR"); len(windir) >= 2 {
		systemDrive := windir[:2]
		return []string{
			windir,
			filepath.Join(systemDrive, "Program Files"),
			filepath.Join(systemDrive, "Program Files (x86)"),
		}
	}

	return []string{"/bin", "/boot", "/etc", "/lib", "/sbin", "/usr", "/System"}
}
