// Package config loads engine parameters from JSON. Fields are pointers
// so a partial file merges over defaults: anything omitted keeps its
// default value.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MinStep is the floor for the sampling step. Smaller or absent values
// are clamped up to this.
const MinStep = 0.1

// DefaultLeafSize is the default k-d tree bucket size.
const DefaultLeafSize = 16

// EngineConfig is the JSON schema for engine parameters. All fields are
// optional; omitted fields fall back to defaults in Resolve.
type EngineConfig struct {
	// Step is the arc-length sampling step in length units.
	Step *float64 `json:"step,omitempty"`
	// KDTreeLeafSize is forwarded opaquely to the index builder.
	KDTreeLeafSize *int `json:"kdtree_leaf_size,omitempty"`
	// DatabasePath is where the converted network is persisted.
	DatabasePath *string `json:"database_path,omitempty"`
}

// Params are the resolved, validated engine parameters.
type Params struct {
	Step         float64
	LeafSize     int
	DatabasePath string
}

// Resolve applies defaults and clamps. The sampling step is floored at
// MinStep; a non-positive leaf size falls back to DefaultLeafSize.
func (c *EngineConfig) Resolve() Params {
	p := Params{Step: MinStep, LeafSize: DefaultLeafSize}
	if c == nil {
		return p
	}
	if c.Step != nil && *c.Step > MinStep {
		p.Step = *c.Step
	}
	if c.KDTreeLeafSize != nil && *c.KDTreeLeafSize > 0 {
		p.LeafSize = *c.KDTreeLeafSize
	}
	if c.DatabasePath != nil {
		p.DatabasePath = *c.DatabasePath
	}
	return p
}

// Load reads an EngineConfig from a JSON file. The path must have a
// .json extension and the file must be under 1MB.
func Load(path string) (*EngineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg EngineConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}
