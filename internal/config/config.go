// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package config holds the client-side configuration for programs run
// through the fabrica CLI. The engine owns everything else.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/platform-engineering-labs/fabrica/internal/util"
)

const (
	DefaultEndpoint = "http://127.0.0.1:7667"
	DefaultConfig   = "~/.config/fabrica/fabrica.conf"
	EndpointEnvVar  = "FABRICA_ENGINE"
	defaultLogFile  = "~/.pel/fabrica/fabrica.log"
)

type Client struct {
	// Endpoint of the deployment engine.
	Endpoint string `yaml:"endpoint"`

	// SerialOperations forces a total, declaration-consistent order on all
	// read and register operations.
	SerialOperations bool `yaml:"serial-operations"`

	// VerboseDebug turns on per-operation chain diagnostics.
	VerboseDebug bool `yaml:"verbose-debug"`

	// LogFilePath receives the rotated debug log.
	LogFilePath string `yaml:"log-file"`
}

func Default() *Client {
	return &Client{
		Endpoint:    DefaultEndpoint,
		LogFilePath: util.ExpandHomePath(defaultLogFile),
	}
}

// Load reads a yaml config file, falling back to defaults when the file does
// not exist. The FABRICA_ENGINE environment variable overrides the endpoint
// either way.
func Load(path string) (*Client, error) {
	cfg := Default()

	raw, err := os.ReadFile(util.ExpandHomePath(path))
	switch {
	case os.IsNotExist(err):
		// defaults apply
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if endpoint := os.Getenv(EndpointEnvVar); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.LogFilePath == "" {
		cfg.LogFilePath = util.ExpandHomePath(defaultLogFile)
	} else {
		cfg.LogFilePath = util.ExpandHomePath(cfg.LogFilePath)
	}

	return cfg, nil
}
