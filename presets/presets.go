package presets

import "fmt"

// Package presets bundles dictionary sizes and decoder caching into named
// profiles so a run can be tuned with a single --preset flag.
//
// Usage:
//   cfg := presets.Small()   // short files, 12-bit codes
//   cfg := presets.Large()   // multi-gigabyte inputs

// Config captures the parameters that vary across presets.
type Config struct {
	Name      string // identifier accepted by ByName
	MaxSize   uint32 // dictionary entries; fixes the code width
	CacheSize int    // decoder expansion cache entries
}

func Default() Config {

	return Config{
		Name:      "default",
		MaxSize:   0xFFFFFF, // 24-bit codes
		CacheSize: 4096,
	}
}

// Small keeps the dictionary tiny. The serialized tree stays short and codes
// are 12 bits wide, which suits inputs of a few kilobytes.
func Small() Config {
	cfg := Default()
	cfg.Name = "small"
	cfg.MaxSize = 1<<12 - 1
	cfg.CacheSize = 1024
	return cfg
}

// Large lets the dictionary grow to 2^28-1 entries. Memory use tracks the
// number of entries actually created, which never exceeds the input length.
func Large() Config {
	cfg := Default()
	cfg.Name = "large"
	cfg.MaxSize = 1<<28 - 1
	cfg.CacheSize = 1 << 16
	return cfg
}

// ByName looks up a preset by its identifier.
func ByName(name string) (Config, error) {
	switch name {
	case "small":
		return Small(), nil
	case "large":
		return Large(), nil
	case "default":
		return Default(), nil
	default:
		return Config{}, fmt.Errorf("unknown preset: %q (valid: small, default, large)", name)
	}
}

// Apply merges preset into target. Zero fields of preset leave target as is.
func Apply(target *Config, preset Config) {
	if preset.MaxSize > 0 {
		target.MaxSize = preset.MaxSize
	}
	if preset.CacheSize > 0 {
		target.CacheSize = preset.CacheSize
	}
	if preset.Name != "" {
		target.Name = preset.Name
	}
}
