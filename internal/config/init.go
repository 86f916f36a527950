package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/sitetree/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `tree:
  format: html
  index: public/static/contentIndex.json
  document_suffix: .md
  locale: tr
  excluded_folders:
    - ekler
    - görseller
    - pdf
    - pdfler
    - images
    - assets
    - attachments
    - files
    - media
    - resimler
    - dosyalar
  exclusion_file: ""
  labels:
    folders: klasör
    files: dosya
  clipboard: false
serve:
  address: 127.0.0.1:8080
  watch: true
  minify: true
  sanitize: true
  max_sessions: 256
  session_ttl: 30m
`

	configurationDirectoryPermissions = 0o755
	configurationFilePermissions      = 0o600
)

// ErrConfigurationExists is returned when init would overwrite a file without --force.
var ErrConfigurationExists = errors.New("sitetree configuration already exists")

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default sitetree configuration and returns its path.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, resolveError := resolveInitDestination(options)
	if resolveError != nil {
		return "", resolveError
	}

	_, statError := os.Stat(destinationPath)
	switch {
	case statError == nil && !options.Force:
		return "", fmt.Errorf("%w at %s (use --force to overwrite)", ErrConfigurationExists, destinationPath)
	case statError != nil && !os.IsNotExist(statError):
		return "", fmt.Errorf("inspect sitetree configuration %s: %w", destinationPath, statError)
	}

	if writeError := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), configurationFilePermissions); writeError != nil {
		return "", fmt.Errorf("write sitetree configuration %s: %w", destinationPath, writeError)
	}
	return destinationPath, nil
}

// resolveInitDestination maps the init target onto a config.yaml path, creating
// ~/.sitetree for the global target.
func resolveInitDestination(options InitOptions) (string, error) {
	switch options.Target {
	case "", InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return "", fmt.Errorf("determine working directory for sitetree configuration: %w", workingDirectoryError)
			}
			workingDirectory = current
		}
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return "", fmt.Errorf("resolve home directory for sitetree configuration: %w", homeError)
		}
		globalDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if mkdirError := os.MkdirAll(globalDirectory, configurationDirectoryPermissions); mkdirError != nil {
			return "", fmt.Errorf("create sitetree configuration directory %s: %w", globalDirectory, mkdirError)
		}
		return filepath.Join(globalDirectory, utils.ConfigFileName), nil
	default:
		return "", fmt.Errorf("unsupported sitetree init target %q", options.Target)
	}
}
