package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/temirov/sitetree/internal/utils"
)

type configTestCase struct {
	name            string
	globalContent   string
	localContent    string
	explicitPath    string
	expectFormat    string
	expectLocale    string
	expectFolders   []string
	expectFileLabel string
	expectClipboard *bool
	expectWatch     *bool
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:            "local_overrides_global",
			globalContent:   "tree:\n  format: raw\n  locale: en\n  clipboard: true\n  labels:\n    files: documents\nserve:\n  watch: false\n",
			localContent:    "tree:\n  format: xml\n  clipboard: false\n  excluded_folders:\n    - Media\n    - media\n    - drafts\n",
			expectFormat:    "xml",
			expectLocale:    "en",
			expectFolders:   []string{"media", "drafts"},
			expectFileLabel: "documents",
			expectClipboard: boolPointer(false),
			expectWatch:     boolPointer(false),
		},
		{
			name:          "explicit_path_only",
			globalContent: "tree:\n  format: json\n",
			explicitPath:  "custom.yaml",
			expectFormat:  "raw",
		},
		{
			name:          "global_only",
			globalContent: "tree:\n  format: html\n  locale: de\nserve:\n  watch: true\n",
			expectFormat:  "html",
			expectLocale:  "de",
			expectWatch:   boolPointer(true),
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.ConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte("tree:\n  format: raw\n"), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Tree.Format != testCase.expectFormat {
				t.Fatalf("expected format %s, got %s", testCase.expectFormat, loadedConfig.Tree.Format)
			}
			if loadedConfig.Tree.Locale != testCase.expectLocale {
				t.Fatalf("expected locale %q, got %q", testCase.expectLocale, loadedConfig.Tree.Locale)
			}
			if testCase.expectFolders != nil && !reflect.DeepEqual(loadedConfig.Tree.ExcludedFolders, testCase.expectFolders) {
				t.Fatalf("expected folders %v, got %v", testCase.expectFolders, loadedConfig.Tree.ExcludedFolders)
			}
			if testCase.expectFileLabel != "" && loadedConfig.Tree.StatsLabels().Files != testCase.expectFileLabel {
				t.Fatalf("expected file label %q, got %q", testCase.expectFileLabel, loadedConfig.Tree.StatsLabels().Files)
			}
			if testCase.expectClipboard == nil {
				if loadedConfig.Tree.Clipboard != nil {
					t.Fatalf("expected no clipboard override")
				}
			} else if loadedConfig.Tree.Clipboard == nil || *loadedConfig.Tree.Clipboard != *testCase.expectClipboard {
				t.Fatalf("unexpected clipboard value")
			}
			if testCase.expectWatch == nil {
				if loadedConfig.Serve.Watch != nil {
					t.Fatalf("expected no watch override")
				}
			} else if loadedConfig.Serve.Watch == nil || *loadedConfig.Serve.Watch != *testCase.expectWatch {
				t.Fatalf("unexpected watch value")
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	homeDir := t.TempDir()
	workingDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	if err := os.MkdirAll(filepath.Join(workingDir, utils.ConfigFileName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir}); err == nil {
		t.Fatalf("expected error for directory configuration path")
	}
}

func TestTreeConfigurationDefaults(t *testing.T) {
	var configuration ApplicationConfiguration
	labels := configuration.Tree.StatsLabels()
	if labels.Folders != DefaultFolderLabel || labels.Files != DefaultFileLabel {
		t.Fatalf("unexpected default labels %+v", labels)
	}
	if configuration.Tree.ResolvedIndex() != DefaultIndexPath {
		t.Fatalf("unexpected default index %s", configuration.Tree.ResolvedIndex())
	}
	if configuration.Serve.ResolvedAddress() != DefaultServeAddress {
		t.Fatalf("unexpected default address %s", configuration.Serve.ResolvedAddress())
	}
	if !BoolOrDefault(nil, true) || BoolOrDefault(boolPointer(false), true) {
		t.Fatalf("unexpected BoolOrDefault behavior")
	}
}

func TestServeMergeKeepsUnsetFields(t *testing.T) {
	base := ServeConfiguration{Address: ":9000", Minify: boolPointer(true), MaxSessions: 10, SessionTTL: time.Minute}
	merged := base.merge(ServeConfiguration{Sanitize: boolPointer(false), SessionTTL: time.Hour})
	if merged.Address != ":9000" {
		t.Fatalf("expected address to survive merge, got %s", merged.Address)
	}
	if merged.Minify == nil || !*merged.Minify {
		t.Fatalf("expected minify to survive merge")
	}
	if merged.Sanitize == nil || *merged.Sanitize {
		t.Fatalf("expected sanitize override")
	}
	if merged.MaxSessions != 10 || merged.SessionTTL != time.Hour {
		t.Fatalf("unexpected session limits after merge: %d %s", merged.MaxSessions, merged.SessionTTL)
	}
}
