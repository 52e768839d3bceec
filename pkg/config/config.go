// Package config provides hierarchical configuration management.
// Priority: defaults < system < user < project < env < flags
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opendq/opendq/pkg/telemetry"
)

// Config holds all opendq configuration.
type Config struct {
	Version int `yaml:"version"`

	Validation ValidationConfig `yaml:"validation"`
	HTTP       HTTPConfig       `yaml:"http"`
	Reports    ReportsConfig    `yaml:"reports"`
	Redis      RedisConfig      `yaml:"redis"`
	Telemetry  telemetry.Config `yaml:"telemetry"`
}

// ValidationConfig controls the file checks.
type ValidationConfig struct {
	// SampleRows caps how many data rows the content checks inspect.
	SampleRows int `yaml:"sample_rows"`
	// Workers bounds the column-check pool (0 = auto).
	Workers int `yaml:"workers"`
}

// HTTPConfig controls outbound requests.
type HTTPConfig struct {
	// TimeoutSeconds bounds each portal and resource request.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the HTTP timeout as a duration.
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReportsConfig controls report output.
type ReportsConfig struct {
	// Dir receives the auto-written Markdown reports.
	Dir string `yaml:"dir"`
}

// RedisConfig configures the optional Redis report store.
type RedisConfig struct {
	Address    string `yaml:"address"`
	Password   string `yaml:"password"`
	Database   int    `yaml:"database"`
	Prefix     string `yaml:"prefix"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// TTL returns the report TTL as a duration.
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Validation: ValidationConfig{
			SampleRows: 50000,
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 15,
		},
		Reports: ReportsConfig{
			Dir: "open-data-quality",
		},
		Redis: RedisConfig{
			Prefix:     "opendq:reports:",
			TTLSeconds: int((30 * 24 * time.Hour).Seconds()),
		},
		Telemetry: telemetry.DefaultConfig(),
	}
}

// Manager handles configuration loading and merging.
type Manager struct {
	mu     sync.RWMutex
	config *Config
	paths  []string
}

// NewManager creates a manager holding the defaults.
func NewManager() *Manager {
	return &Manager{config: Default()}
}

// Load loads configuration from all sources in priority order.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = Default()
	for _, path := range m.getConfigPaths() {
		if err := m.loadFile(path); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("config %s: %w", path, err)
			}
			continue
		}
		m.paths = append(m.paths, path)
	}
	m.loadEnv()
	return nil
}

// getConfigPaths returns config file paths in priority order.
func (m *Manager) getConfigPaths() []string {
	var paths []string
	if runtime.GOOS != "windows" {
		paths = append(paths, "/etc/opendq/config.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".opendq", "config.yaml"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".opendq.yaml"))
	}
	return paths
}

func (m *Manager) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var partial Config
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return err
	}
	m.merge(&partial)
	return nil
}

// merge overlays non-zero values from src.
func (m *Manager) merge(src *Config) {
	if src.Validation.SampleRows != 0 {
		m.config.Validation.SampleRows = src.Validation.SampleRows
	}
	if src.Validation.Workers != 0 {
		m.config.Validation.Workers = src.Validation.Workers
	}
	if src.HTTP.TimeoutSeconds != 0 {
		m.config.HTTP.TimeoutSeconds = src.HTTP.TimeoutSeconds
	}
	if src.Reports.Dir != "" {
		m.config.Reports.Dir = src.Reports.Dir
	}
	if src.Redis.Address != "" {
		m.config.Redis.Address = src.Redis.Address
	}
	if src.Redis.Password != "" {
		m.config.Redis.Password = src.Redis.Password
	}
	if src.Redis.Database != 0 {
		m.config.Redis.Database = src.Redis.Database
	}
	if src.Redis.Prefix != "" {
		m.config.Redis.Prefix = src.Redis.Prefix
	}
	if src.Redis.TTLSeconds != 0 {
		m.config.Redis.TTLSeconds = src.Redis.TTLSeconds
	}
	if src.Telemetry.Enabled {
		m.config.Telemetry.Enabled = true
	}
	if src.Telemetry.Endpoint != "" {
		m.config.Telemetry.Endpoint = src.Telemetry.Endpoint
	}
	if src.Telemetry.ServiceName != "" {
		m.config.Telemetry.ServiceName = src.Telemetry.ServiceName
	}
	if src.Telemetry.SamplingRatio != 0 {
		m.config.Telemetry.SamplingRatio = src.Telemetry.SamplingRatio
	}
}

// loadEnv overlays OPENDQ_* environment variables.
func (m *Manager) loadEnv() {
	if v := os.Getenv("OPENDQ_SAMPLE_ROWS"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			m.config.Validation.SampleRows = n
		}
	}
	if v := os.Getenv("OPENDQ_WORKERS"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			m.config.Validation.Workers = n
		}
	}
	if v := os.Getenv("OPENDQ_HTTP_TIMEOUT"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			m.config.HTTP.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("OPENDQ_REPORT_DIR"); v != "" {
		m.config.Reports.Dir = v
	}
	if v := os.Getenv("OPENDQ_REDIS_ADDR"); v != "" {
		m.config.Redis.Address = v
	}
	if v := os.Getenv("OPENDQ_OTLP_ENDPOINT"); v != "" {
		m.config.Telemetry.Enabled = true
		m.config.Telemetry.Endpoint = v
	}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// GetPaths returns the config files that were loaded.
func (m *Manager) GetPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paths
}

var (
	globalManager *Manager
	globalOnce    sync.Once
)

// Global returns the global configuration manager.
func Global() *Manager {
	globalOnce.Do(func() {
		globalManager = NewManager()
		globalManager.Load()
	})
	return globalManager
}
