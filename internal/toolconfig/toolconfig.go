// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package toolconfig loads the optional YAML tool-defaults file qbsp and
// light both read at startup before applying command-line overrides: the
// usual shape for yaml-backed configuration is to unmarshal into a private
// string-keyed config struct, then validate and convert into typed values.
package toolconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable that has a built-in default, is overridable by
// a YAML defaults file, and is in turn overridable by an explicit CLI flag.
// Precedence, low to high: built-in default, YAML file, CLI flag.
type Config struct {
	// qbsp
	Subdivide     float64
	MaxNodeSize   float64
	LeakDist      float64
	WadPath       string
	Dialect       string // game name for gamedef.ByName: "quake"/"bsp29", "quake2"/"q2bsp", "halflife"/"hl"/"hlbsp", "hexen2".
	ForcePRT1     bool

	// light
	Threads          int
	Extra            int // 1, 2 or 4.
	Dist             float64
	RangeScale       float64
	Gate             float64
	Light            float64
	AddMin           bool
	Gamma            float64
	LightmapScale    float64
	WorldUnitsPerLuxel float64
	Bounce           int
	HDR              bool
	Dirt             bool
	DirtDepth        float64
	DirtScale        float64
	DirtGain         float64
	DirtAngle        float64
	SunSamples       int
	VisApprox        string // "none", "vis", "rays".

	// BSPX lumps to emit, keyed by name; populated by
	// -lit/-lit2/-bspx/-lux flags rather than the YAML file, but the file
	// may pre-enable any of them for a project-wide default.
	BSPXLumps map[string]bool
}

// Default returns the built-in tool defaults, matching the classic tools'
// documented behavior when no flags or config file are given.
func Default() Config {
	return Config{
		Subdivide:          240,
		MaxNodeSize:        1024,
		LeakDist:           2,
		Dialect:            "quake",
		Threads:            0, // 0 = GOMAXPROCS.
		Extra:              1,
		Dist:               1,
		RangeScale:         1,
		Gate:               0.001,
		Light:              300,
		Gamma:              1,
		LightmapScale:      16,
		WorldUnitsPerLuxel: 16,
		Bounce:             0,
		DirtDepth:          128,
		DirtScale:          1,
		DirtGain:           1,
		DirtAngle:          88,
		SunSamples:         1,
		VisApprox:          "vis",
		BSPXLumps:          map[string]bool{},
	}
}

// fileConfig mirrors the on-disk YAML shape; pointer fields distinguish
// "absent" from "explicitly zero" so the merge only overrides values the
// file actually sets.
type fileConfig struct {
	Subdivide          *float64 `yaml:"subdivide"`
	MaxNodeSize        *float64 `yaml:"max_node_size"`
	LeakDist           *float64 `yaml:"leak_dist"`
	WadPath            *string  `yaml:"wad_path"`
	Dialect            *string  `yaml:"dialect"`
	ForcePRT1          *bool    `yaml:"force_prt1"`
	Threads            *int     `yaml:"threads"`
	Extra              *int     `yaml:"extra"`
	Dist               *float64 `yaml:"dist"`
	RangeScale         *float64 `yaml:"range"`
	Gate               *float64 `yaml:"gate"`
	Light              *float64 `yaml:"light"`
	AddMin             *bool    `yaml:"addmin"`
	Gamma              *float64 `yaml:"gamma"`
	LightmapScale      *float64 `yaml:"lightmap_scale"`
	WorldUnitsPerLuxel *float64 `yaml:"world_units_per_luxel"`
	Bounce             *int     `yaml:"bounce"`
	HDR                *bool    `yaml:"hdr"`
	Dirt               *bool    `yaml:"dirt"`
	DirtDepth          *float64 `yaml:"dirt_depth"`
	DirtScale          *float64 `yaml:"dirt_scale"`
	DirtGain           *float64 `yaml:"dirt_gain"`
	DirtAngle          *float64 `yaml:"dirt_angle"`
	SunSamples         *int     `yaml:"sun_samples"`
	VisApprox          *string  `yaml:"visapprox"`
	BSPXLumps          []string `yaml:"bspx_lumps"`
}

// Load merges data (YAML bytes) on top of the built-in defaults. A nil or
// empty data returns Default() unchanged.
func Load(data []byte) (Config, error) {
	cfg := Default()
	if len(data) == 0 {
		return cfg, nil
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("toolconfig: yaml %w", err)
	}
	applyFloat(&cfg.Subdivide, fc.Subdivide)
	applyFloat(&cfg.MaxNodeSize, fc.MaxNodeSize)
	applyFloat(&cfg.LeakDist, fc.LeakDist)
	if fc.WadPath != nil {
		cfg.WadPath = *fc.WadPath
	}
	if fc.Dialect != nil {
		cfg.Dialect = *fc.Dialect
	}
	if fc.ForcePRT1 != nil {
		cfg.ForcePRT1 = *fc.ForcePRT1
	}
	applyInt(&cfg.Threads, fc.Threads)
	applyInt(&cfg.Extra, fc.Extra)
	applyFloat(&cfg.Dist, fc.Dist)
	applyFloat(&cfg.RangeScale, fc.RangeScale)
	applyFloat(&cfg.Gate, fc.Gate)
	applyFloat(&cfg.Light, fc.Light)
	if fc.AddMin != nil {
		cfg.AddMin = *fc.AddMin
	}
	applyFloat(&cfg.Gamma, fc.Gamma)
	applyFloat(&cfg.LightmapScale, fc.LightmapScale)
	applyFloat(&cfg.WorldUnitsPerLuxel, fc.WorldUnitsPerLuxel)
	applyInt(&cfg.Bounce, fc.Bounce)
	if fc.HDR != nil {
		cfg.HDR = *fc.HDR
	}
	if fc.Dirt != nil {
		cfg.Dirt = *fc.Dirt
	}
	applyFloat(&cfg.DirtDepth, fc.DirtDepth)
	applyFloat(&cfg.DirtScale, fc.DirtScale)
	applyFloat(&cfg.DirtGain, fc.DirtGain)
	applyFloat(&cfg.DirtAngle, fc.DirtAngle)
	applyInt(&cfg.SunSamples, fc.SunSamples)
	if fc.VisApprox != nil {
		cfg.VisApprox = *fc.VisApprox
	}
	for _, name := range fc.BSPXLumps {
		cfg.BSPXLumps[name] = true
	}
	return cfg, nil
}

func applyFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func applyInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
