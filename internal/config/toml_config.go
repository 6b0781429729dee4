package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// applyTOML decodes a flx.toml document into cfg. Keys absent from the
// document keep their current values.
//
//	version = 1
//	[scoring]
//	max_len = 256
//	separator_policy = "skip"
//	[ranking]
//	workers = 4
func applyTOML(cfg *Config, data []byte) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse TOML config: %w", err)
	}
	return nil
}

// EncodeTOML renders cfg as a flx.toml document.
func EncodeTOML(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
