package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/sitetree/internal/types"
	"github.com/temirov/sitetree/internal/utils"
)

const (
	// DefaultFolderLabel is appended to the folder count.
	DefaultFolderLabel = "klasör"
	// DefaultFileLabel is appended to the file count.
	DefaultFileLabel = "dosya"
	// DefaultIndexPath is the content index emitted by the site build.
	DefaultIndexPath = "public/static/contentIndex.json"
	// DefaultServeAddress is the listen address of the serve command.
	DefaultServeAddress = "127.0.0.1:8080"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Tree  TreeConfiguration  `mapstructure:"tree"`
	Serve ServeConfiguration `mapstructure:"serve"`
}

// TreeConfiguration defines how the tree is built and rendered.
type TreeConfiguration struct {
	Format          string             `mapstructure:"format"`
	Index           string             `mapstructure:"index"`
	DocumentSuffix  string             `mapstructure:"document_suffix"`
	Locale          string             `mapstructure:"locale"`
	ExcludedFolders []string           `mapstructure:"excluded_folders"`
	ExclusionFile   string             `mapstructure:"exclusion_file"`
	Labels          LabelConfiguration `mapstructure:"labels"`
	Clipboard       *bool              `mapstructure:"clipboard"`
}

// LabelConfiguration holds the localized nouns shown next to the counters.
type LabelConfiguration struct {
	Folders string `mapstructure:"folders"`
	Files   string `mapstructure:"files"`
}

// ServeConfiguration defines defaults for the serve command.
type ServeConfiguration struct {
	Address     string        `mapstructure:"address"`
	Watch       *bool         `mapstructure:"watch"`
	Minify      *bool         `mapstructure:"minify"`
	Sanitize    *bool         `mapstructure:"sanitize"`
	MaxSessions int           `mapstructure:"max_sessions"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	if merged.Tree.ExcludedFolders != nil {
		merged.Tree.ExcludedFolders = utils.NormalizeFolderNames(merged.Tree.ExcludedFolders)
	}

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Tree = result.Tree.merge(override.Tree)
	result.Serve = result.Serve.merge(override.Serve)
	return result
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Index != "" {
		result.Index = override.Index
	}
	if override.DocumentSuffix != "" {
		result.DocumentSuffix = override.DocumentSuffix
	}
	if override.Locale != "" {
		result.Locale = override.Locale
	}
	if len(override.ExcludedFolders) > 0 {
		result.ExcludedFolders = append([]string{}, override.ExcludedFolders...)
	}
	if override.ExclusionFile != "" {
		result.ExclusionFile = override.ExclusionFile
	}
	result.Labels = result.Labels.merge(override.Labels)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config LabelConfiguration) merge(override LabelConfiguration) LabelConfiguration {
	result := config
	if override.Folders != "" {
		result.Folders = override.Folders
	}
	if override.Files != "" {
		result.Files = override.Files
	}
	return result
}

func (config ServeConfiguration) merge(override ServeConfiguration) ServeConfiguration {
	result := config
	if override.Address != "" {
		result.Address = override.Address
	}
	if override.Watch != nil {
		result.Watch = cloneBool(override.Watch)
	}
	if override.Minify != nil {
		result.Minify = cloneBool(override.Minify)
	}
	if override.Sanitize != nil {
		result.Sanitize = cloneBool(override.Sanitize)
	}
	if override.MaxSessions > 0 {
		result.MaxSessions = override.MaxSessions
	}
	if override.SessionTTL > 0 {
		result.SessionTTL = override.SessionTTL
	}
	return result
}

// StatsLabels returns the configured labels with defaults applied.
func (config TreeConfiguration) StatsLabels() types.StatsLabels {
	labels := types.StatsLabels{Folders: DefaultFolderLabel, Files: DefaultFileLabel}
	if config.Labels.Folders != "" {
		labels.Folders = config.Labels.Folders
	}
	if config.Labels.Files != "" {
		labels.Files = config.Labels.Files
	}
	return labels
}

// ResolvedIndex returns the configured index path or DefaultIndexPath.
func (config TreeConfiguration) ResolvedIndex() string {
	if config.Index != "" {
		return config.Index
	}
	return DefaultIndexPath
}

// ResolvedAddress returns the configured listen address or DefaultServeAddress.
func (config ServeConfiguration) ResolvedAddress() string {
	if config.Address != "" {
		return config.Address
	}
	return DefaultServeAddress
}

// BoolOrDefault dereferences value or returns fallback when unset.
func BoolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
