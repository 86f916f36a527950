package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestOptionalBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	enabled := true
	disabled := false
	testCases := []struct {
		name        string
		arguments   []string
		expected    *bool
		expectError bool
	}{
		{name: "unset_without_flag", arguments: []string{}, expected: nil},
		{name: "sets_true_without_value", arguments: []string{"--watch"}, expected: &enabled},
		{name: "sets_false_with_equals", arguments: []string{"--watch=false"}, expected: &disabled},
		{name: "sets_false_with_no_literal", arguments: []string{"--watch", "no"}, expected: &disabled},
		{name: "sets_true_with_on_literal", arguments: []string{"--watch", "on"}, expected: &enabled},
		{name: "ignores_non_boolean_trailing_value", arguments: []string{"--watch", "maybe"}, expected: &enabled},
		{name: "rejects_invalid_literal", arguments: []string{"--watch=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			var flagValue *bool
			registerOptionalBooleanFlag(command.Flags(), &flagValue, "watch", "watch the index")
			parseErr := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			switch {
			case testCase.expected == nil && flagValue != nil:
				t.Fatalf("expected unset flag, got %t", *flagValue)
			case testCase.expected != nil && flagValue == nil:
				t.Fatalf("expected %t, flag unset", *testCase.expected)
			case testCase.expected != nil && *flagValue != *testCase.expected:
				t.Fatalf("expected %t, got %t", *testCase.expected, *flagValue)
			}
		})
	}
}

func TestNormalizeBooleanFlagArgumentsStopsAtSeparator(t *testing.T) {
	t.Parallel()

	command := &cobra.Command{Use: "boolean-test"}
	var flagValue *bool
	registerOptionalBooleanFlag(command.Flags(), &flagValue, "clipboard", "copy output")
	normalized := normalizeBooleanFlagArguments(command, []string{"--", "--clipboard", "yes"})
	expected := []string{"--", "--clipboard", "yes"}
	if len(normalized) != len(expected) {
		t.Fatalf("unexpected arguments %v", normalized)
	}
	for index := range expected {
		if normalized[index] != expected[index] {
			t.Fatalf("unexpected arguments %v", normalized)
		}
	}
}
