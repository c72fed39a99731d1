package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"incumbent/internal/domain/economy"
)

// LoadGame reads a YAML game config on top of the defaults and compiles
// it. An empty path yields the compiled defaults.
func LoadGame(path string) (economy.Config, error) {
	if strings.TrimSpace(path) == "" {
		cfg := economy.DefaultConfig()
		if err := cfg.Compile(); err != nil {
			return economy.Config{}, err
		}
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return economy.Config{}, fmt.Errorf("read game config: %w", err)
	}
	cfg, err := ParseGame(raw)
	if err != nil {
		return economy.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func ParseGame(raw []byte) (economy.Config, error) {
	cfg := economy.DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return economy.Config{}, fmt.Errorf("decode game config: %w", err)
	}
	if err := cfg.Compile(); err != nil {
		return economy.Config{}, err
	}
	return cfg, nil
}
