package config

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets/*.yaml
var presetFS embed.FS

var presetAliases = map[string]string{
	"vanilla-dev": "heiko-dev",
	"kerria-dev":  "parallel-dev",
}

// Load reads and validates a network config file.
func Load(path string) (*NetworkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Preset returns one of the embedded network configs.
func Preset(name string) (*NetworkConfig, error) {
	key := strings.ToLower(name)
	if alias, ok := presetAliases[key]; ok {
		key = alias
	}
	data, err := presetFS.ReadFile("presets/" + key + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown network %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", key, err)
	}
	return cfg, nil
}

// PresetNames lists the embedded presets and their aliases.
func PresetNames() []string {
	var names []string
	entries, _ := presetFS.ReadDir("presets")
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	for alias := range presetAliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// Parse decodes a network config, rejecting unknown fields, and
// validates it.
func Parse(r io.Reader) (*NetworkConfig, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg NetworkConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse network config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve loads path when set, otherwise the named preset.
func Resolve(path, network string) (*NetworkConfig, error) {
	if path != "" {
		return Load(path)
	}
	if network == "" {
		return nil, fmt.Errorf("either --config or --network is required")
	}
	return Preset(network)
}
