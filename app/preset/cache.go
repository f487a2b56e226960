package preset

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/obs-overlay/app/overlay"
)

// Preset is a named overlay configuration kept on disk. Params uses the
// overlay query keys, so a preset resolves exactly like a query string.
type Preset struct {
	Name        string         `yaml:"-"`
	Description string         `yaml:"description"`
	Params      map[string]any `yaml:"params"`
}

// Values converts Params into overlay query values. Lists are joined with
// commas and newlines kept as-is.
func (p *Preset) Values() url.Values {
	q := url.Values{}
	for key, v := range p.Params {
		switch val := v.(type) {
		case nil:
			continue
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			q.Set(key, strings.Join(parts, ","))
		case bool:
			if val {
				q.Set(key, "1")
			} else {
				q.Set(key, "0")
			}
		default:
			q.Set(key, fmt.Sprint(val))
		}
	}
	return q
}

func (p *Preset) Config() overlay.Config {
	return overlay.FromQuery(p.Values())
}

type Cache struct {
	presetsDir string
	cache      map[string]*Preset
	mu         sync.RWMutex
}

func NewCache(presetsDir string) *Cache {
	return &Cache{
		presetsDir: presetsDir,
		cache:      make(map[string]*Preset),
	}
}

func (c *Cache) Run() error {
	if _, err := os.Stat(c.presetsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.presetsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yml")

		p, err := c.LoadPreset(name)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Preset loaded", "preset", name, "params", len(p.Params))
	}

	return nil
}

func (c *Cache) LoadPreset(name string) (*Preset, error) {
	file := c.getPresetFilePath(name)
	p, err := c.parsePreset(file)
	if err != nil {
		return nil, err
	}
	p.Name = name

	if err := c.validatePreset(p); err != nil {
		return nil, fmt.Errorf("invalid preset %s: %w", file, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[p.Name] = p

	return p, nil
}

func (c *Cache) GetPreset(name string) (*Preset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.cache[name]
	if !ok {
		return nil, fmt.Errorf("preset with name '%s' not found", name)
	}
	return p, nil
}

// Names returns the loaded preset names in sorted order.
func (c *Cache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.cache))
	for name := range c.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Cache) parsePreset(file string) (*Preset, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if p.Params == nil {
		p.Params = map[string]any{}
	}

	return &p, nil
}

func (c *Cache) validatePreset(p *Preset) error {
	if p == nil {
		return fmt.Errorf("preset is nil")
	}
	if p.Name == "" {
		return fmt.Errorf("preset name is required")
	}

	for key, v := range p.Params {
		if !overlay.IsQueryKey(key) {
			return fmt.Errorf("unknown parameter: %s", key)
		}
		if _, nested := v.(map[string]any); nested {
			return fmt.Errorf("parameter %s must be a scalar or a list", key)
		}
	}

	return nil
}

func (c *Cache) getPresetFilePath(name string) string {
	return filepath.Join(c.presetsDir, name+".yml")
}
