// Package config loads treeify defaults from global and local YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/treeify/internal/utils"
)

const (
	errorWorkingDirectoryFormat  = "determine working directory: %w"
	errorResolveConfigPathFormat = "resolve configuration path %s: %w"
	errorStatConfigFormat        = "stat configuration %s: %w"
	errorConfigIsDirectoryFormat = "configuration path %s is a directory"
	errorReadConfigFormat        = "read configuration from %s: %w"
	errorDecodeConfigFormat      = "decode configuration from %s: %w"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds listing defaults. Nil pointers mean "not set"
// so that a later source only overrides the keys it actually names.
type ApplicationConfiguration struct {
	Format          string             `mapstructure:"format"`
	IncludeHidden   *bool              `mapstructure:"all"`
	CountEntries    *bool              `mapstructure:"count"`
	DirectoriesOnly *bool              `mapstructure:"dirs_only"`
	SortEntries     *bool              `mapstructure:"sort"`
	Clipboard       *bool              `mapstructure:"copy"`
	Tokens          TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads the global configuration and overlays the
// local (or explicitly named) one. It returns the paths that were read.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, []string, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, nil, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration
	var loadedPaths []string

	candidatePaths := make([]string, 0, 2)
	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		candidatePaths = append(candidatePaths, filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName))
	}
	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, nil, resolveErr
	}
	candidatePaths = append(candidatePaths, localPath)

	for _, candidatePath := range candidatePaths {
		loadedConfig, found, loadErr := loadConfigurationFromPath(candidatePath)
		if loadErr != nil {
			return ApplicationConfiguration{}, nil, loadErr
		}
		if !found {
			continue
		}
		merged = merged.Merge(loadedConfig)
		loadedPaths = append(loadedPaths, candidatePath)
	}

	return merged, loadedPaths, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath, nil
	}
	if workingDirectory == "" {
		absolute, err := filepath.Abs(explicitPath)
		if err != nil {
			return "", fmt.Errorf(errorResolveConfigPathFormat, explicitPath, err)
		}
		return absolute, nil
	}
	return filepath.Join(workingDirectory, explicitPath), nil
}

// loadConfigurationFromPath reads one YAML file. A missing file is not an error.
func loadConfigurationFromPath(path string) (ApplicationConfiguration, bool, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, false, nil
		}
		return ApplicationConfiguration{}, false, fmt.Errorf(errorStatConfigFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, false, fmt.Errorf(errorConfigIsDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, false, fmt.Errorf(errorReadConfigFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, false, fmt.Errorf(errorDecodeConfigFormat, path, decodeErr)
	}
	return config, true, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.IncludeHidden != nil {
		result.IncludeHidden = cloneBool(override.IncludeHidden)
	}
	if override.CountEntries != nil {
		result.CountEntries = cloneBool(override.CountEntries)
	}
	if override.DirectoriesOnly != nil {
		result.DirectoriesOnly = cloneBool(override.DirectoriesOnly)
	}
	if override.SortEntries != nil {
		result.SortEntries = cloneBool(override.SortEntries)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

// BoolOrDefault dereferences value, returning defaultValue when it is unset.
func BoolOrDefault(value *bool, defaultValue bool) bool {
	if value == nil {
		return defaultValue
	}
	return *value
}

// StringOrDefault returns defaultValue when value is empty.
func StringOrDefault(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
