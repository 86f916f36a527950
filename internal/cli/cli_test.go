package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/sitetree/internal/services/clipboard"
	"github.com/temirov/sitetree/internal/types"
)

const sampleIndex = `{"a/b.md":{"title":"B"},"a/c.md":{},"notes.md":{},"ekler/x.md":{},"z.txt":{}}`

type commandRun struct {
	stdout   string
	copier   *clipboard.Recorder
	runError error
}

func runCommand(t *testing.T, input string, arguments ...string) commandRun {
	t.Helper()
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)

	recorder := &clipboard.Recorder{}
	rootCommand := NewRootCommand(Dependencies{
		Input:  strings.NewReader(input),
		Copier: recorder,
	})
	var stdout bytes.Buffer
	rootCommand.SetOut(&stdout)
	rootCommand.SetErr(&bytes.Buffer{})
	configurationArguments := []string{"--config", filepath.Join(homeDirectory, "absent.yaml")}
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, append(arguments, configurationArguments...)))
	runError := rootCommand.Execute()
	return commandRun{stdout: stdout.String(), copier: recorder, runError: runError}
}

func TestTreeCommandFormats(t *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		contains  []string
		excludes  []string
	}{
		{
			name:      "html_default",
			arguments: []string{"tree", "--index", "-"},
			contains: []string{
				`<div class="tree-view">`,
				`<a href="/a/b.md" class="tree-file-link">b</a>`,
				`<a href="/notes.md" class="tree-file-link">notes</a>`,
			},
			excludes: []string{"ekler", "z.txt"},
		},
		{
			name:      "raw_with_summary",
			arguments: []string{"t", "--index", "-", "--format", "raw"},
			contains:  []string{"├── a/", "└── notes", "Summary: 1 klasör, 3 dosya"},
		},
		{
			name:      "explicit_exclusion_replaces_defaults",
			arguments: []string{"tree", "--index", "-", "--format", "raw", "-e", "a"},
			contains:  []string{"ekler/", "notes"},
			excludes:  []string{"b\n"},
		},
		{
			name:      "custom_suffix",
			arguments: []string{"tree", "--index", "-", "--format", "raw", "--suffix", ".txt"},
			contains:  []string{"z", "Summary: 1 klasör, 1 dosya"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			run := runCommand(t, sampleIndex, testCase.arguments...)
			if run.runError != nil {
				t.Fatalf("unexpected error: %v", run.runError)
			}
			for _, fragment := range testCase.contains {
				if !strings.Contains(run.stdout, fragment) {
					t.Fatalf("output missing %q:\n%s", fragment, run.stdout)
				}
			}
			for _, fragment := range testCase.excludes {
				if strings.Contains(run.stdout, fragment) {
					t.Fatalf("output unexpectedly contains %q:\n%s", fragment, run.stdout)
				}
			}
			if len(run.copier.Copied) != 0 {
				t.Fatalf("clipboard used without --clipboard")
			}
		})
	}
}

func TestTreeCommandJSONOutput(t *testing.T) {
	run := runCommand(t, sampleIndex, "tree", "--index", "-", "--format", "json")
	if run.runError != nil {
		t.Fatalf("unexpected error: %v", run.runError)
	}
	var root types.TreeNode
	if decodeError := json.Unmarshal([]byte(run.stdout), &root); decodeError != nil {
		t.Fatalf("decode json: %v\n%s", decodeError, run.stdout)
	}
	if len(root.Children) != 2 || root.Children[0].Name != "a" || !root.Children[0].IsFolder {
		t.Fatalf("unexpected tree: %+v", root.Children)
	}
}

func TestTreeCommandCopiesToClipboard(t *testing.T) {
	run := runCommand(t, `{"a.md":{}}`, "tree", "--index", "-", "--format", "raw", "--clipboard")
	if run.runError != nil {
		t.Fatalf("unexpected error: %v", run.runError)
	}
	if len(run.copier.Copied) != 1 || !strings.Contains(run.copier.Copied[0], "a") {
		t.Fatalf("unexpected clipboard contents %v", run.copier.Copied)
	}
}

func TestTreeCommandRejectsUnknownFormat(t *testing.T) {
	run := runCommand(t, sampleIndex, "tree", "--index", "-", "--format", "yaml")
	if run.runError == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestTreeCommandMissingIndexRendersEmptyTree(t *testing.T) {
	missingPath := filepath.Join(t.TempDir(), "contentIndex.json")
	run := runCommand(t, "", "tree", "--index", missingPath)
	if run.runError != nil {
		t.Fatalf("unexpected error: %v", run.runError)
	}
	if strings.TrimSpace(run.stdout) != `<div class="tree-view"></div>` {
		t.Fatalf("unexpected output %q", run.stdout)
	}
}

func TestStatsCommandPrintsLabels(t *testing.T) {
	run := runCommand(t, sampleIndex, "stats", "--index", "-")
	if run.runError != nil {
		t.Fatalf("unexpected error: %v", run.runError)
	}
	if run.stdout != "1 klasör\n3 dosya\n" {
		t.Fatalf("unexpected stats output %q", run.stdout)
	}
}

func TestTreeCommandReadsConfiguration(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	workingDirectory := t.TempDir()
	indexPath := filepath.Join(workingDirectory, "index.json")
	if writeError := os.WriteFile(indexPath, []byte(sampleIndex), 0o600); writeError != nil {
		t.Fatalf("write index: %v", writeError)
	}
	configurationPath := filepath.Join(workingDirectory, "config.yaml")
	configurationContent := "tree:\n  format: raw\n  index: " + indexPath + "\n  labels:\n    folders: folders\n    files: files\n"
	if writeError := os.WriteFile(configurationPath, []byte(configurationContent), 0o600); writeError != nil {
		t.Fatalf("write configuration: %v", writeError)
	}

	rootCommand := NewRootCommand(Dependencies{Copier: &clipboard.Recorder{}})
	var stdout bytes.Buffer
	rootCommand.SetOut(&stdout)
	rootCommand.SetArgs([]string{"tree", "--config", configurationPath})
	if executeError := rootCommand.Execute(); executeError != nil {
		t.Fatalf("unexpected error: %v", executeError)
	}
	if !strings.Contains(stdout.String(), "Summary: 1 folders, 3 files") {
		t.Fatalf("configuration not applied:\n%s", stdout.String())
	}
}

func TestVersionFlag(t *testing.T) {
	run := runCommand(t, "", "--version")
	if run.runError != nil {
		t.Fatalf("unexpected error: %v", run.runError)
	}
	if !strings.HasPrefix(run.stdout, "sitetree version: ") {
		t.Fatalf("unexpected version output %q", run.stdout)
	}
}
