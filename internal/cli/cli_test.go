package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/treeify/internal/output"
	"github.com/temirov/treeify/internal/tokenizer"
	"github.com/temirov/treeify/internal/types"
	"github.com/temirov/treeify/internal/utils"
)

const (
	scenarioDirectoryName = "_test"
	stubModelName         = "stub-model"
)

type stubCounter struct {
	tokens int
}

func (counter stubCounter) Name() string { return stubModelName }

func (counter stubCounter) CountString(string) (int, error) { return counter.tokens, nil }

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.err
}

type commandHarness struct {
	deps             dependencies
	copier           *recordingCopier
	logs             *observer.ObservedLogs
	workingDirectory string
}

// newCommandHarness isolates the command from the real home directory and clipboard.
func newCommandHarness(t *testing.T) *commandHarness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	workingDirectory := t.TempDir()
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core, logs := observer.New(level)
	copier := &recordingCopier{}
	return &commandHarness{
		deps: dependencies{
			logger: zap.New(core),
			level:  level,
			copier: copier,
			newCounter: func(tokenizer.Config) (tokenizer.Counter, string, error) {
				return stubCounter{tokens: 7}, stubModelName, nil
			},
			workingDirectory: func() (string, error) { return workingDirectory, nil },
		},
		copier:           copier,
		logs:             logs,
		workingDirectory: workingDirectory,
	}
}

func (harness *commandHarness) execute(t *testing.T, arguments ...string) (string, string, error) {
	t.Helper()
	command := createRootCommand(harness.deps)
	var standardOutput bytes.Buffer
	var errorOutput bytes.Buffer
	command.SetOut(&standardOutput)
	command.SetErr(&errorOutput)
	command.SetArgs(normalizeBooleanFlagArguments(command, arguments))
	executionError := command.Execute()
	return standardOutput.String(), errorOutput.String(), executionError
}

// createScenario builds _test/ with foo/, foo1/, .foo2/ and foo.txt.
func createScenario(t *testing.T) string {
	t.Helper()
	scenarioPath := filepath.Join(t.TempDir(), scenarioDirectoryName)
	for _, directoryName := range []string{"foo", "foo1", ".foo2"} {
		if err := os.MkdirAll(filepath.Join(scenarioPath, directoryName), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", directoryName, err)
		}
	}
	if err := os.WriteFile(filepath.Join(scenarioPath, "foo.txt"), []byte("foo"), 0o644); err != nil {
		t.Fatalf("write foo.txt: %v", err)
	}
	return scenarioPath
}

func TestRootCommandListsScenario(t *testing.T) {
	scenarioPath := createScenario(t)

	testCases := []struct {
		name      string
		arguments []string
		expected  string
	}{
		{
			name:      "hidden_skipped",
			arguments: []string{"--sort", scenarioPath},
			expected:  "|_test/\n|---foo/\n|---foo.txt\n|---foo1/\n",
		},
		{
			name:      "hidden_included",
			arguments: []string{"-a", "--sort", scenarioPath},
			expected:  "|_test/\n|---.foo2/\n|---foo/\n|---foo.txt\n|---foo1/\n",
		},
		{
			name:      "hidden_included_with_literal",
			arguments: []string{"--all", "yes", "--sort", scenarioPath},
			expected:  "|_test/\n|---.foo2/\n|---foo/\n|---foo.txt\n|---foo1/\n",
		},
		{
			name:      "counted",
			arguments: []string{"-a", "-c", "--sort", scenarioPath},
			expected:  "|_test/\n|---.foo2/\n|---foo/\n|---foo.txt\n|---foo1/\n\n3 directories, 1 file\n",
		},
		{
			name:      "directories_only",
			arguments: []string{"-d", "--sort", scenarioPath},
			expected:  "|_test/\n|---foo/\n|---foo1/\n",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			harness := newCommandHarness(t)
			standardOutput, _, err := harness.execute(t, testCase.arguments...)
			if err != nil {
				t.Fatalf("execute error: %v", err)
			}
			if standardOutput != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, standardOutput)
			}
		})
	}
}

func TestRootCommandDefaultsToCurrentDirectory(t *testing.T) {
	scenarioPath := createScenario(t)
	t.Chdir(scenarioPath)
	harness := newCommandHarness(t)

	standardOutput, _, err := harness.execute(t, "--sort")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	expected := "|_test/\n|---foo/\n|---foo.txt\n|---foo1/\n"
	if standardOutput != expected {
		t.Fatalf("expected %q, got %q", expected, standardOutput)
	}
}

func TestRootCommandRejectsNonDirectory(t *testing.T) {
	scenarioPath := createScenario(t)
	filePath := filepath.Join(scenarioPath, "foo.txt")
	missingPath := filepath.Join(scenarioPath, "missing")

	for _, inputPath := range []string{filePath, missingPath} {
		harness := newCommandHarness(t)
		standardOutput, _, err := harness.execute(t, scenarioPath, inputPath)
		if err == nil {
			t.Fatalf("expected error for %s", inputPath)
		}
		expectedMessage := `"` + inputPath + `" is not a directory`
		if err.Error() != expectedMessage {
			t.Fatalf("expected %q, got %q", expectedMessage, err.Error())
		}
		if standardOutput != "" {
			t.Fatalf("expected no output on error, got %q", standardOutput)
		}
	}
}

func TestRootCommandRendersRootsInArgumentOrder(t *testing.T) {
	baseDirectory := t.TempDir()
	var rootPaths []string
	for _, rootName := range []string{"zeta", "alpha", "mid"} {
		rootPath := filepath.Join(baseDirectory, rootName)
		if err := os.MkdirAll(filepath.Join(rootPath, "inner"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		rootPaths = append(rootPaths, rootPath)
	}
	harness := newCommandHarness(t)

	arguments := append([]string{"-c"}, rootPaths...)
	arguments = append(arguments, rootPaths[0]+string(filepath.Separator))
	standardOutput, _, err := harness.execute(t, arguments...)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	expected := "|zeta/\n|---inner/\n\n|alpha/\n|---inner/\n\n|mid/\n|---inner/\n\n3 directories, 0 files\n"
	if standardOutput != expected {
		t.Fatalf("expected %q, got %q", expected, standardOutput)
	}
}

func TestRootCommandJSONFormat(t *testing.T) {
	scenarioPath := createScenario(t)
	harness := newCommandHarness(t)

	standardOutput, errorOutput, err := harness.execute(t, "--format", "JSON", "-c", scenarioPath)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	var document output.NodeDocument
	if err := json.Unmarshal([]byte(standardOutput), &document); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, standardOutput)
	}
	if document.Name != "_test/" || document.Type != types.NodeTypeDirectory || document.Children == nil {
		t.Fatalf("unexpected root document: %+v", document)
	}
	if len(*document.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(*document.Children))
	}
	if strings.TrimSpace(errorOutput) != "2 directories, 1 file" {
		t.Fatalf("expected summary on stderr, got %q", errorOutput)
	}
}

func TestRootCommandRejectsUnknownFormat(t *testing.T) {
	harness := newCommandHarness(t)
	_, _, err := harness.execute(t, "--format", "xml", createScenario(t))
	if err == nil || !strings.Contains(err.Error(), "invalid format value 'xml'") {
		t.Fatalf("expected invalid format error, got %v", err)
	}
}

func TestRootCommandAppliesConfiguration(t *testing.T) {
	scenarioPath := createScenario(t)
	harness := newCommandHarness(t)
	configurationPath := filepath.Join(harness.workingDirectory, utils.LocalConfigFileName)
	configurationContent := "all: true\ncount: true\nsort: true\n"
	if err := os.WriteFile(configurationPath, []byte(configurationContent), 0o600); err != nil {
		t.Fatalf("write configuration: %v", err)
	}

	standardOutput, _, err := harness.execute(t, scenarioPath)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	expected := "|_test/\n|---.foo2/\n|---foo/\n|---foo.txt\n|---foo1/\n\n3 directories, 1 file\n"
	if standardOutput != expected {
		t.Fatalf("expected configuration defaults, got %q", standardOutput)
	}

	standardOutput, _, err = harness.execute(t, "--all", "false", "--count=off", scenarioPath)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	expected = "|_test/\n|---foo/\n|---foo.txt\n|---foo1/\n"
	if standardOutput != expected {
		t.Fatalf("expected flags to override configuration, got %q", standardOutput)
	}
}

func TestRootCommandTokensAndClipboard(t *testing.T) {
	scenarioPath := createScenario(t)
	harness := newCommandHarness(t)

	standardOutput, _, err := harness.execute(t, "--sort", "--tokens", "--copy", scenarioPath)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	listing := "|_test/\n|---foo/\n|---foo.txt\n|---foo1/\n"
	expected := listing + "\n7 tokens (model: " + stubModelName + ")\n"
	if standardOutput != expected {
		t.Fatalf("expected %q, got %q", expected, standardOutput)
	}
	if len(harness.copier.copied) != 1 || harness.copier.copied[0] != listing {
		t.Fatalf("expected the listing to be copied once, got %q", harness.copier.copied)
	}
}

func TestRootCommandClipboardFailureIsWarning(t *testing.T) {
	scenarioPath := createScenario(t)
	harness := newCommandHarness(t)
	harness.copier.err = errors.New("no clipboard")

	if _, _, err := harness.execute(t, "--copy", scenarioPath); err != nil {
		t.Fatalf("clipboard failure must not fail the command: %v", err)
	}
	warnings := harness.logs.FilterMessage(clipboardCopyFailedMessage).All()
	if len(warnings) != 1 || warnings[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected one clipboard warning, got %+v", harness.logs.All())
	}
}

func TestRootCommandVerboseEnablesDebugLogging(t *testing.T) {
	scenarioPath := createScenario(t)
	harness := newCommandHarness(t)

	if _, _, err := harness.execute(t, scenarioPath); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if harness.logs.FilterMessage(rootRenderedMessage).Len() != 0 {
		t.Fatalf("debug entries must be suppressed at info level")
	}

	if _, _, err := harness.execute(t, "--verbose", scenarioPath); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if harness.deps.level.Level() != zapcore.DebugLevel {
		t.Fatalf("expected debug level, got %s", harness.deps.level.Level())
	}
	rendered := harness.logs.FilterMessage(rootRenderedMessage).All()
	if len(rendered) != 1 {
		t.Fatalf("expected one debug entry per root, got %d", len(rendered))
	}
}

func TestRootCommandVersionFlag(t *testing.T) {
	harness := newCommandHarness(t)
	standardOutput, _, err := harness.execute(t, "--version")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.HasPrefix(standardOutput, "treeify version: ") {
		t.Fatalf("unexpected version output %q", standardOutput)
	}
}

func TestInitCommandWritesLocalConfiguration(t *testing.T) {
	harness := newCommandHarness(t)
	expectedPath := filepath.Join(harness.workingDirectory, utils.LocalConfigFileName)

	standardOutput, _, err := harness.execute(t, "init")
	if err != nil {
		t.Fatalf("init error: %v", err)
	}
	if !strings.Contains(standardOutput, expectedPath) {
		t.Fatalf("expected written path in output, got %q", standardOutput)
	}
	if _, err := os.Stat(expectedPath); err != nil {
		t.Fatalf("configuration not written: %v", err)
	}

	if _, _, err := harness.execute(t, "init"); err == nil {
		t.Fatalf("expected error when configuration exists")
	}
	if _, _, err := harness.execute(t, "init", "--force"); err != nil {
		t.Fatalf("init --force error: %v", err)
	}
}
