package cli

import (
	"slices"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{
			name:         "defaults_to_false",
			defaultValue: false,
			arguments:    []string{},
			expected:     false,
		},
		{
			name:         "sets_true_without_value",
			defaultValue: false,
			arguments:    []string{"--all"},
			expected:     true,
		},
		{
			name:         "sets_true_with_shorthand",
			defaultValue: false,
			arguments:    []string{"-a"},
			expected:     true,
		},
		{
			name:         "sets_false_with_equals",
			defaultValue: true,
			arguments:    []string{"--all=false"},
			expected:     false,
		},
		{
			name:         "sets_false_with_no_literal",
			defaultValue: true,
			arguments:    []string{"--all", "no"},
			expected:     false,
		},
		{
			name:         "sets_true_with_on_literal",
			defaultValue: false,
			arguments:    []string{"--all", "on"},
			expected:     true,
		},
		{
			name:         "leaves_path_argument_alone",
			defaultValue: false,
			arguments:    []string{"--all", "src"},
			expected:     true,
		},
		{
			name:         "rejects_invalid_literal_with_equals",
			defaultValue: false,
			arguments:    []string{"--all=maybe"},
			expectError:  true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			flagValue := !testCase.defaultValue
			registerBooleanFlag(command.Flags(), &flagValue, "all", "a", testCase.defaultValue, "include hidden entries")
			normalizedArguments := normalizeBooleanFlagArguments(command, testCase.arguments)
			parseErr := command.ParseFlags(normalizedArguments)
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeBooleanFlagArgumentsStopsAtTerminator(t *testing.T) {
	command := &cobra.Command{Use: "boolean-test"}
	var flagValue bool
	registerBooleanFlag(command.Flags(), &flagValue, "count", "c", false, "print counts")

	arguments := []string{"--count", "yes", "--", "--count", "no"}
	expected := []string{"--count=yes", "--", "--count", "no"}
	if normalized := normalizeBooleanFlagArguments(command, arguments); !slices.Equal(normalized, expected) {
		t.Fatalf("expected %v, got %v", expected, normalized)
	}
}
