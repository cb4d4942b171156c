/*
Package config provides type-safe configuration extraction from map[string]any.

# Overview

config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
The instance database uses it to load runtime policy (validation mode, leak
reporting) from YAML or JSON without verbose type assertions.

# Basic Usage

Create a Config from any map and extract values with defaults:

	cfg := config.New(map[string]any{
	    "validation":     "warn",
	    "leak_log_limit": 32,
	})

	mode := cfg.String("validation", "warn") // "warn"
	limit := cfg.Int("leak_log_limit", 16)    // 32
	missing := cfg.Bool("missing", false)     // false

# File Loading

Load configuration from YAML or JSON files:

	cfg, err := config.FromFile("instancedb.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	db := instance.New[*Texture]("texture", instance.FromConfig(cfg))

	// Or load from bytes
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation. However, if the original map is modified
externally, behavior is undefined.
*/
package config
