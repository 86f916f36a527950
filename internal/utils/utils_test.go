package utils_test

import (
	"reflect"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/temirov/sitetree/internal/utils"
)

// TestDeduplicatePatterns verifies that the first occurrence of each pattern is kept in order.
func TestDeduplicatePatterns(testingHandle *testing.T) {
	result := utils.DeduplicatePatterns([]string{"pdf", "media", "pdf", "assets", "media"})
	expected := []string{"pdf", "media", "assets"}
	if !reflect.DeepEqual(result, expected) {
		testingHandle.Fatalf("expected %v, got %v", expected, result)
	}
}

// TestNormalizeFolderNames verifies trimming, lowercasing and deduplication.
func TestNormalizeFolderNames(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "empty", input: nil, expected: []string{}},
		{name: "blank_entries_dropped", input: []string{" ", "", "Media"}, expected: []string{"media"}},
		{name: "duplicates_collapse", input: []string{"PDF", "pdf ", " Pdf"}, expected: []string{"pdf"}},
		{name: "order_preserved", input: []string{"Görseller", "ekler"}, expected: []string{"görseller", "ekler"}},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(t *testing.T) {
			result := utils.NormalizeFolderNames(testCase.input)
			if !reflect.DeepEqual(result, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, result)
			}
		})
	}
}

// TestNewApplicationLoggerHonoursLevel verifies the log level environment variable.
func TestNewApplicationLoggerHonoursLevel(testingHandle *testing.T) {
	testingHandle.Setenv(utils.LogLevelEnvironmentVariable, "debug")
	logger, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		testingHandle.Fatalf("unexpected error: %v", loggerError)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		testingHandle.Fatalf("debug level not enabled")
	}

	testingHandle.Setenv(utils.LogLevelEnvironmentVariable, "chatty")
	if _, invalidError := utils.NewApplicationLogger(); invalidError == nil {
		testingHandle.Fatalf("expected error for unknown level")
	}
}

// TestGetApplicationVersionPrefersLinkTimeValue verifies the -ldflags override.
func TestGetApplicationVersionPrefersLinkTimeValue(testingHandle *testing.T) {
	previousVersion := utils.ApplicationVersion
	testingHandle.Cleanup(func() { utils.ApplicationVersion = previousVersion })
	utils.ApplicationVersion = "v9.9.9"
	if version := utils.GetApplicationVersion(); version != "v9.9.9" {
		testingHandle.Fatalf("version = %s", version)
	}
}
