package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const configFile = ".rstfmt.yaml"

const defaultWidth = 72

type config struct {
	Width int `yaml:"width"`
}

// loadConfig reads .rstfmt.yaml from the working directory. A missing
// file is not an error; flags override whatever it sets.
func loadConfig() (config, error) {
	cfg := config{Width: defaultWidth}
	data, err := os.ReadFile(configFile)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", configFile, err)
	}
	return cfg, nil
}
