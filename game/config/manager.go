package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/gridtactics/game/generator"
	"github.com/wricardo/gridtactics/game/roster"
	"github.com/wricardo/gridtactics/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// RosterFile is the roster document inside the config directory. It is never
// listed as a generator config.
const RosterFile = "roster.yaml"

// Manager handles generator configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *generator.Config
	configs       map[string]*generator.Config
	roster        *roster.Registry
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*generator.Config),
	}

	if err := m.loadRoster(); err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a configuration by name
func (m *Manager) LoadConfig(name string) (*generator.Config, error) {
	id := configID(name)
	if id+".yaml" == RosterFile {
		return nil, ErrConfigNotFound
	}

	m.mu.RLock()
	// Check cache first
	if cfg, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return cfg, nil
	}
	m.mu.RUnlock()

	// Validation reads the roster under the read lock, so parse first.
	cfg, err := m.readConfig(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if cached, exists := m.configs[id]; exists {
		return cached, nil
	}
	m.configs[id] = cfg
	return cfg, nil
}

func (m *Manager) readConfig(id string) (*generator.Config, error) {
	var data []byte
	var err error
	for _, ext := range []string{".yaml", ".yml"} {
		data, err = os.ReadFile(filepath.Join(m.configDir, id+ext))
		if err == nil || !os.IsNotExist(err) {
			break
		}
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg generator.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Name == "" {
		cfg.Name = id
	}

	if err := m.ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig checks the generator parameters and that every archetype
// the config names exists in the roster with the right team.
func (m *Manager) ValidateConfig(cfg *generator.Config) error {
	if err := generator.ValidateConfig(*cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for _, name := range cfg.Players {
		a, err := m.Roster().Get(name)
		if err != nil {
			return fmt.Errorf("%w: player %s: %v", ErrInvalidConfig, name, err)
		}
		if a.Team != "player" {
			return fmt.Errorf("%w: %s is not a player archetype", ErrInvalidConfig, name)
		}
	}
	for _, name := range cfg.Enemies {
		a, err := m.Roster().Get(name)
		if err != nil {
			return fmt.Errorf("%w: enemy %s: %v", ErrInvalidConfig, name, err)
		}
		if a.Team != "enemy" {
			return fmt.Errorf("%w: %s is not an enemy archetype", ErrInvalidConfig, name)
		}
	}
	return nil
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) || entry.Name() == RosterFile {
			continue
		}

		id := configID(entry.Name())
		cfg, err := m.LoadConfig(id)
		if err != nil {
			log.Printf("skipping config %s: %v", entry.Name(), err)
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:       entry.Name(),
			ConfigID:       id,
			Name:           cfg.Name,
			Description:    cfg.Description,
			Rows:           cfg.Rows,
			Cols:           cfg.Cols,
			TurnDifficulty: cfg.TurnDifficulty,
			Players:        cfg.Players,
		})
	}

	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *generator.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	cfg, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = cfg
	return nil
}

// Roster returns the unit archetypes for this config directory
func (m *Manager) Roster() *roster.Registry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roster
}

// ReloadConfig drops one cached config and reads it again from disk
func (m *Manager) ReloadConfig(name string) error {
	id := configID(name)
	m.mu.Lock()
	delete(m.configs, id)
	m.mu.Unlock()

	_, err := m.LoadConfig(id)
	return err
}

// RefreshCache reloads the roster and all cached configurations from disk
func (m *Manager) RefreshCache() error {
	if err := m.loadRoster(); err != nil {
		return err
	}

	m.mu.Lock()
	m.configs = make(map[string]*generator.Config)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// SaveConfig saves a configuration to disk
func (m *Manager) SaveConfig(name string, cfg *generator.Config) error {
	if err := m.ValidateConfig(cfg); err != nil {
		return err
	}

	id := configID(name)
	if id+".yaml" == RosterFile {
		return fmt.Errorf("%w: %s is reserved for the roster", ErrInvalidConfig, RosterFile)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.configDir, id+".yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[id] = cfg
	m.mu.Unlock()

	return nil
}

// loadRoster reads roster.yaml, falling back to the built-in archetypes when
// the file is absent. A present but broken roster is an error.
func (m *Manager) loadRoster() error {
	path := filepath.Join(m.configDir, RosterFile)
	reg, err := roster.LoadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		log.Printf("no %s in %s, using built-in roster", RosterFile, m.configDir)
		reg = roster.Default()
	}

	m.mu.Lock()
	m.roster = reg
	m.mu.Unlock()
	return nil
}

// loadDefaultConfig loads the default configuration
func (m *Manager) loadDefaultConfig() error {
	// Try to load default.yaml as default
	cfg, err := m.LoadConfig("default")
	if err != nil {
		// Try to load the first available config
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			cfg = m.builtinConfig()
		} else if cfg, err = m.LoadConfig(configs[0].ConfigID); err != nil {
			cfg = m.builtinConfig()
		}
	}

	m.mu.Lock()
	m.defaultConfig = cfg
	m.mu.Unlock()
	return nil
}

func (m *Manager) builtinConfig() *generator.Config {
	cfg := generator.DefaultConfig()
	return &cfg
}

func isYAML(filename string) bool {
	ext := filepath.Ext(filename)
	return ext == ".yaml" || ext == ".yml"
}

// configID strips a YAML extension from name
func configID(name string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
