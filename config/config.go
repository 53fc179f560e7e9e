package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerPort     string   `yaml:"server.port"`
	AllowedOrigins []string `yaml:"server.allowed_origins"`

	// Simulated latency of the video-details fetch and the comment post
	FetchLatency      time.Duration `yaml:"-"`
	FetchLatencyStr   string        `yaml:"latency.fetch"`
	CommentLatency    time.Duration `yaml:"-"`
	CommentLatencyStr string        `yaml:"latency.comment"`

	// Initial session preferences
	DefaultAutoplay  bool   `yaml:"preferences.autoplay"`
	DefaultQuality   string `yaml:"preferences.quality"`
	DefaultSubtitles bool   `yaml:"preferences.subtitles"`

	// Player scheduling
	ClockSchedule   string `yaml:"player.clock_schedule"`
	RefreshSchedule string `yaml:"player.refresh_schedule"`

	// Media backend configuration
	MediaBackend         string        `yaml:"media.backend"` // simulated or http
	MediaBaseURL         string        `yaml:"media.base_url"`
	MediaFailPlay        bool          `yaml:"media.fail_play"` // simulated backend rejects every play attempt
	HTTPClientTimeout    time.Duration `yaml:"-"`
	HTTPClientTimeoutStr string        `yaml:"media.http_client_timeout"`
	MaxIdleConns         int           `yaml:"media.max_idle_conns"`
	MaxConnsPerHost      int           `yaml:"media.max_conns_per_host"`

	// Annotation storage configuration
	StorageBackend string `yaml:"storage.backend"` // memory or sqlite
	StorageName    string `yaml:"storage.name"`

	// Logging configuration
	LogDirectory  string `yaml:"logging.dir"`
	LogOutputFile string `yaml:"logging.output_file"`
	LogErrorFile  string `yaml:"logging.error_file"`
	LogLevel      string `yaml:"logging.level"`

	// Catalog overrides the compiled-in seed when non-empty
	Catalog []CatalogEntry `yaml:"catalog"`
}

// CatalogEntry defines a catalog video loaded from config
type CatalogEntry struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Duration    string   `yaml:"duration"`
	Thumbnail   string   `yaml:"thumbnail"`
	Tags        []string `yaml:"tags"`
	ViewCount   int      `yaml:"view_count"`
	Rating      float64  `yaml:"rating"`
	PublishedAt string   `yaml:"published_at"` // YYYY-MM-DD
}

// configFile represents the YAML structure
type configFile struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Latency struct {
		Fetch   string `yaml:"fetch"`
		Comment string `yaml:"comment"`
	} `yaml:"latency"`
	Preferences struct {
		Autoplay  bool   `yaml:"autoplay"`
		Quality   string `yaml:"quality"`
		Subtitles *bool  `yaml:"subtitles"`
	} `yaml:"preferences"`
	Player struct {
		ClockSchedule   string `yaml:"clock_schedule"`
		RefreshSchedule string `yaml:"refresh_schedule"`
	} `yaml:"player"`
	Media struct {
		Backend           string `yaml:"backend"`
		BaseURL           string `yaml:"base_url"`
		FailPlay          bool   `yaml:"fail_play"`
		HTTPClientTimeout string `yaml:"http_client_timeout"`
		MaxIdleConns      int    `yaml:"max_idle_conns"`
		MaxConnsPerHost   int    `yaml:"max_conns_per_host"`
	} `yaml:"media"`
	Storage struct {
		Backend string `yaml:"backend"`
		Name    string `yaml:"name"`
	} `yaml:"storage"`
	Logging struct {
		Directory  string `yaml:"dir"`
		OutputFile string `yaml:"output_file"`
		ErrorFile  string `yaml:"error_file"`
		Level      string `yaml:"level"`
	} `yaml:"logging"`
	Catalog []CatalogEntry `yaml:"catalog,omitempty"`
}

// Manager handles configuration loading and saving
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	if configPath == "" {
		configPath = "config.yaml"
	}
	return &Manager{
		configPath: configPath,
	}
}

// Path returns the file the manager reads and writes
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads configuration from YAML file
func (m *Manager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		// If file doesn't exist, create default config
		if os.IsNotExist(err) {
			return m.createDefaultConfig()
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfgFile configFile
	if err := yaml.Unmarshal(data, &cfgFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	subtitles := true
	if cfgFile.Preferences.Subtitles != nil {
		subtitles = *cfgFile.Preferences.Subtitles
	}

	cfg := &Config{
		ServerPort:           cfgFile.Server.Port,
		AllowedOrigins:       cfgFile.Server.AllowedOrigins,
		FetchLatencyStr:      cfgFile.Latency.Fetch,
		CommentLatencyStr:    cfgFile.Latency.Comment,
		DefaultAutoplay:      cfgFile.Preferences.Autoplay,
		DefaultQuality:       cfgFile.Preferences.Quality,
		DefaultSubtitles:     subtitles,
		ClockSchedule:        cfgFile.Player.ClockSchedule,
		RefreshSchedule:      cfgFile.Player.RefreshSchedule,
		MediaBackend:         cfgFile.Media.Backend,
		MediaBaseURL:         cfgFile.Media.BaseURL,
		MediaFailPlay:        cfgFile.Media.FailPlay,
		HTTPClientTimeoutStr: cfgFile.Media.HTTPClientTimeout,
		MaxIdleConns:         cfgFile.Media.MaxIdleConns,
		MaxConnsPerHost:      cfgFile.Media.MaxConnsPerHost,
		StorageBackend:       cfgFile.Storage.Backend,
		StorageName:          cfgFile.Storage.Name,
		LogDirectory:         cfgFile.Logging.Directory,
		LogOutputFile:        cfgFile.Logging.OutputFile,
		LogErrorFile:         cfgFile.Logging.ErrorFile,
		LogLevel:             cfgFile.Logging.Level,
		Catalog:              cfgFile.Catalog,
	}

	applyDefaults(cfg)

	m.config = cfg
	return cfg, nil
}

// applyDefaults fills every unset field
func applyDefaults(cfg *Config) {
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if cfg.DefaultQuality == "" {
		cfg.DefaultQuality = "high"
	}
	if cfg.ClockSchedule == "" {
		cfg.ClockSchedule = "@every 1s"
	}
	if cfg.RefreshSchedule == "" {
		cfg.RefreshSchedule = "0 0 0 * * *"
	}
	cfg.MediaBackend = strings.ToLower(strings.TrimSpace(cfg.MediaBackend))
	if cfg.MediaBackend == "" {
		cfg.MediaBackend = "simulated"
	}
	if cfg.MediaBaseURL == "" {
		cfg.MediaBaseURL = "https://example.com/videos"
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 20
	}
	if cfg.MaxConnsPerHost == 0 {
		cfg.MaxConnsPerHost = 10
	}
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = "memory"
	}
	if cfg.LogDirectory == "" {
		cfg.LogDirectory = "./logs"
	}
	if cfg.LogOutputFile == "" {
		cfg.LogOutputFile = "app.log"
	}
	if cfg.LogErrorFile == "" {
		cfg.LogErrorFile = "app.error.log"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.FetchLatency = parseDurationOr(cfg.FetchLatencyStr, time.Second)
	cfg.CommentLatency = parseDurationOr(cfg.CommentLatencyStr, time.Second)
	cfg.HTTPClientTimeout = parseDurationOr(cfg.HTTPClientTimeoutStr, 10*time.Second)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}

// Save writes configuration to YAML file
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveUnlocked(cfg)
}

// saveUnlocked persists config assuming caller already holds the write lock.
func (m *Manager) saveUnlocked(cfg *Config) error {
	var cfgFile configFile
	cfgFile.Server.Port = cfg.ServerPort
	cfgFile.Server.AllowedOrigins = cfg.AllowedOrigins
	cfgFile.Latency.Fetch = cfg.FetchLatency.String()
	cfgFile.Latency.Comment = cfg.CommentLatency.String()
	cfgFile.Preferences.Autoplay = cfg.DefaultAutoplay
	cfgFile.Preferences.Quality = cfg.DefaultQuality
	subtitles := cfg.DefaultSubtitles
	cfgFile.Preferences.Subtitles = &subtitles
	cfgFile.Player.ClockSchedule = cfg.ClockSchedule
	cfgFile.Player.RefreshSchedule = cfg.RefreshSchedule
	cfgFile.Media.Backend = cfg.MediaBackend
	cfgFile.Media.BaseURL = cfg.MediaBaseURL
	cfgFile.Media.FailPlay = cfg.MediaFailPlay
	cfgFile.Media.HTTPClientTimeout = cfg.HTTPClientTimeout.String()
	cfgFile.Media.MaxIdleConns = cfg.MaxIdleConns
	cfgFile.Media.MaxConnsPerHost = cfg.MaxConnsPerHost
	cfgFile.Storage.Backend = cfg.StorageBackend
	cfgFile.Storage.Name = cfg.StorageName
	cfgFile.Logging.Directory = cfg.LogDirectory
	cfgFile.Logging.OutputFile = cfg.LogOutputFile
	cfgFile.Logging.ErrorFile = cfg.LogErrorFile
	cfgFile.Logging.Level = cfg.LogLevel
	cfgFile.Catalog = cfg.Catalog

	data, err := yaml.Marshal(&cfgFile)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.config = cfg
	return nil
}

// Get returns the current configuration (thread-safe)
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Update updates specific configuration fields and saves to file
func (m *Manager) Update(updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded, call Load() first")
	}

	for key, value := range updates {
		switch key {
		case "server.port":
			if v, ok := value.(string); ok {
				m.config.ServerPort = v
			}
		case "server.allowed_origins":
			if v, ok := value.([]string); ok {
				m.config.AllowedOrigins = v
			}
		case "latency.fetch":
			if str, ok := value.(string); ok {
				m.config.FetchLatencyStr = str
				m.config.FetchLatency = parseDurationOr(str, m.config.FetchLatency)
			}
		case "latency.comment":
			if str, ok := value.(string); ok {
				m.config.CommentLatencyStr = str
				m.config.CommentLatency = parseDurationOr(str, m.config.CommentLatency)
			}
		case "preferences.autoplay":
			if v, ok := value.(bool); ok {
				m.config.DefaultAutoplay = v
			}
		case "preferences.quality":
			if v, ok := value.(string); ok {
				m.config.DefaultQuality = v
			}
		case "preferences.subtitles":
			if v, ok := value.(bool); ok {
				m.config.DefaultSubtitles = v
			}
		case "player.clock_schedule":
			if v, ok := value.(string); ok {
				m.config.ClockSchedule = v
			}
		case "player.refresh_schedule":
			if v, ok := value.(string); ok {
				m.config.RefreshSchedule = v
			}
		case "media.backend":
			if v, ok := value.(string); ok {
				m.config.MediaBackend = v
			}
		case "media.base_url":
			if v, ok := value.(string); ok {
				m.config.MediaBaseURL = v
			}
		case "media.fail_play":
			if v, ok := value.(bool); ok {
				m.config.MediaFailPlay = v
			}
		case "storage.backend":
			if v, ok := value.(string); ok {
				m.config.StorageBackend = v
			}
		case "logging.level":
			if v, ok := value.(string); ok {
				m.config.LogLevel = v
			}
		case "catalog":
			if v, ok := value.([]CatalogEntry); ok {
				m.config.Catalog = v
			}
		default:
			return fmt.Errorf("unknown config key %q", key)
		}
	}

	return m.saveUnlocked(m.config)
}

// Reload reloads configuration from file
func (m *Manager) Reload() (*Config, error) {
	return m.Load()
}

// createDefaultConfig creates a default configuration file
func (m *Manager) createDefaultConfig() (*Config, error) {
	cfg := &Config{DefaultSubtitles: true}
	applyDefaults(cfg)

	if err := m.saveUnlocked(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Global config manager instance
var globalManager *Manager

// Load loads configuration from the default path
func Load() (*Config, error) {
	return GetManager().Load()
}

// GetManager returns the global config manager
func GetManager() *Manager {
	if globalManager == nil {
		configPath := "config.yaml"
		// Check if config/config.yaml exists, if so use it as default
		if _, err := os.Stat("config/config.yaml"); err == nil {
			configPath = "config/config.yaml"
		}
		globalManager = NewManager(configPath)
	}
	return globalManager
}

// SetManager replaces the global config manager, e.g. for a --config flag
func SetManager(m *Manager) {
	globalManager = m
}
