// Config loading for the sdd-kit CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyProjectRoot = "project_root"
)

// loadConfig reads config.yaml from <CWD>/.sdd using Viper. A missing
// file or directory is not an error — the CLI works flag-only.
func loadConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(wd, ".sdd"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		// The config directory may not exist yet; that reads as
		// "not found" too on some platforms.
		if os.IsNotExist(err) {
			return v, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return v, nil
}

// resolveProjectRoot returns the effective project root:
// --project-root flag > config project_root > CWD.
func resolveProjectRoot() (string, error) {
	if flagProjectRoot != "" {
		return flagProjectRoot, nil
	}
	if configProjectRoot != "" {
		return configProjectRoot, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return wd, nil
}
