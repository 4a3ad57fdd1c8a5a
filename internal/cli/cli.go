// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/treeify/internal/config"
	"github.com/temirov/treeify/internal/output"
	"github.com/temirov/treeify/internal/services/clipboard"
	"github.com/temirov/treeify/internal/tokenizer"
	"github.com/temirov/treeify/internal/tree"
	"github.com/temirov/treeify/internal/types"
	"github.com/temirov/treeify/internal/utils"
)

const (
	allFlagName       = "all"
	allFlagShort      = "a"
	countFlagName     = "count"
	countFlagShort    = "c"
	dirsOnlyFlagName  = "dirs-only"
	dirsOnlyFlagShort = "d"
	sortFlagName      = "sort"
	formatFlagName    = "format"
	copyFlagName      = "copy"
	tokensFlagName    = "tokens"
	modelFlagName     = "model"
	configFlagName    = "config"
	verboseFlagName   = "verbose"
	versionFlagName   = "version"
	globalFlagName    = "global"
	forceFlagName     = "force"

	versionTemplate      = "treeify version: %s\n"
	defaultPath          = "."
	rootUse              = "treeify [paths...]"
	rootShortDescription = "print a directory as an indented tree"
	rootLongDescription  = `treeify lists every entry below one or more directories, one line per entry.
Each line starts with "|" followed by one "---" per nesting level. Directories end with "/".
Hidden entries are skipped unless --all is given. Defaults can be stored in ~/.treeify/config.yaml
or ./.treeify.yaml; explicit flags always win.`
	rootUsageExample = `  # List the current directory
  treeify

  # Include hidden entries and print totals
  treeify -a -c ./project

  # Emit YAML and copy it to the clipboard
  treeify --format yaml --copy ./project`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration into ./.treeify.yaml, or into ~/.treeify/config.yaml with --global.
An existing file is kept unless --force is given.`

	allFlagDescription      = "include hidden entries"
	countFlagDescription    = "print directory and file totals after the listing"
	dirsOnlyFlagDescription = "list directories only"
	sortFlagDescription     = "sort entries by name"
	formatFlagDescription   = "output format: text, json, or yaml"
	copyFlagDescription     = "also copy the output to the system clipboard"
	tokensFlagDescription   = "report the token count of the output"
	modelFlagDescription    = "tokenizer model to use for token counting"
	configFlagDescription   = "configuration file to use instead of ./.treeify.yaml"
	verboseFlagDescription  = "enable debug logging"
	versionFlagDescription  = "display application version"
	globalFlagDescription   = "write the global configuration in the home directory"
	forceFlagDescription    = "overwrite an existing configuration file"

	maximumConcurrentRoots = 4
	rootSeparator          = "\n"
	yamlDocumentSeparator  = "---\n"

	invalidFormatMessage         = "invalid format value '%s'"
	workingDirectoryErrorFormat  = "unable to determine working directory: %w"
	errorAbsolutePathFormat      = "abs failed for '%s': %w"
	errorNotDirectoryFormat      = "%q is not a directory"
	errorLoadConfigurationFormat = "load configuration: %w"
	errorTokenizerFormat         = "initialize tokenizer: %w"
	errorCountTokensFormat       = "count tokens: %w"
	errorWriteOutputFormat       = "write output: %w"
	configurationLoadedMessage   = "configuration loaded"
	rootRenderedMessage          = "rendered root"
	clipboardCopyFailedMessage   = "clipboard copy failed"
	tokensNotCountedMessage      = "output is not valid UTF-8, tokens not counted"
	configurationWrittenTemplate = "configuration written to %s\n"
	logFieldPath                 = "path"
	logFieldPaths                = "paths"
	logFieldFormat               = "format"
	logFieldDirectories          = "directories"
	logFieldFiles                = "files"
)

// dependencies are the collaborators of the root command. Tests replace them with stubs.
type dependencies struct {
	logger           *zap.Logger
	level            zap.AtomicLevel
	copier           clipboard.Copier
	newCounter       func(tokenizer.Config) (tokenizer.Counter, string, error)
	workingDirectory func() (string, error)
}

// listingSettings are the effective listing options after flags and configuration are merged.
type listingSettings struct {
	format          string
	includeHidden   bool
	countEntries    bool
	directoriesOnly bool
	sortEntries     bool
	copyToClipboard bool
	countTokens     bool
	tokenModel      string
}

// listingFlags holds raw flag values before they are merged with configuration.
type listingFlags struct {
	listingSettings
	configPath  string
	verbose     bool
	showVersion bool
}

// renderedRoot is the output of one root path.
type renderedRoot struct {
	text   string
	counts tree.Counts
}

// Execute runs the treeify application with the process arguments.
func Execute(logger *zap.Logger, level zap.AtomicLevel) error {
	rootCommand := createRootCommand(dependencies{
		logger:           logger,
		level:            level,
		copier:           clipboard.NewService(),
		newCounter:       tokenizer.NewCounter,
		workingDirectory: os.Getwd,
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	if deps.logger == nil {
		deps.logger = zap.NewNop()
	}
	var flags listingFlags

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if flags.verbose {
				deps.level.SetLevel(zapcore.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			settings, settingsError := resolveSettings(command, deps, flags)
			if settingsError != nil {
				return settingsError
			}
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			return runListing(command, deps, settings, arguments)
		},
	}

	rootFlags := rootCommand.Flags()
	registerBooleanFlag(rootFlags, &flags.includeHidden, allFlagName, allFlagShort, false, allFlagDescription)
	registerBooleanFlag(rootFlags, &flags.countEntries, countFlagName, countFlagShort, false, countFlagDescription)
	registerBooleanFlag(rootFlags, &flags.directoriesOnly, dirsOnlyFlagName, dirsOnlyFlagShort, false, dirsOnlyFlagDescription)
	registerBooleanFlag(rootFlags, &flags.sortEntries, sortFlagName, "", false, sortFlagDescription)
	registerBooleanFlag(rootFlags, &flags.copyToClipboard, copyFlagName, "", false, copyFlagDescription)
	registerBooleanFlag(rootFlags, &flags.countTokens, tokensFlagName, "", false, tokensFlagDescription)
	rootFlags.StringVar(&flags.format, formatFlagName, types.FormatText, formatFlagDescription)
	rootFlags.StringVar(&flags.tokenModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	rootFlags.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	rootFlags.BoolVar(&flags.showVersion, versionFlagName, false, versionFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &flags.verbose, verboseFlagName, "", false, verboseFlagDescription)

	rootCommand.AddCommand(createInitCommand(deps))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(deps dependencies) *cobra.Command {
	var writeGlobal bool
	var overwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			workingDirectory, workingDirectoryError := deps.workingDirectory()
			if workingDirectoryError != nil {
				return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            overwrite,
				WorkingDirectory: workingDirectory,
			})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), configurationWrittenTemplate, writtenPath)
			return printError
		},
	}
	registerBooleanFlag(initCommand.Flags(), &writeGlobal, globalFlagName, "", false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &overwrite, forceFlagName, "", false, forceFlagDescription)
	return initCommand
}

// resolveSettings merges configuration files with the parsed flags. A flag set
// on the command line wins over configuration, which wins over the flag default.
func resolveSettings(command *cobra.Command, deps dependencies, flags listingFlags) (listingSettings, error) {
	workingDirectory, workingDirectoryError := deps.workingDirectory()
	if workingDirectoryError != nil {
		return listingSettings{}, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	applicationConfiguration, loadedPaths, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
	})
	if loadError != nil {
		return listingSettings{}, fmt.Errorf(errorLoadConfigurationFormat, loadError)
	}
	if len(loadedPaths) > 0 {
		deps.logger.Debug(configurationLoadedMessage, zap.Strings(logFieldPaths, loadedPaths))
	}

	changed := command.Flags().Changed
	pickBool := func(flagName string, flagValue bool, configured *bool) bool {
		if changed(flagName) {
			return flagValue
		}
		return config.BoolOrDefault(configured, flagValue)
	}
	pickString := func(flagName string, flagValue string, configured string) string {
		if changed(flagName) {
			return flagValue
		}
		return config.StringOrDefault(configured, flagValue)
	}

	settings := listingSettings{
		format:          strings.ToLower(pickString(formatFlagName, flags.format, applicationConfiguration.Format)),
		includeHidden:   pickBool(allFlagName, flags.includeHidden, applicationConfiguration.IncludeHidden),
		countEntries:    pickBool(countFlagName, flags.countEntries, applicationConfiguration.CountEntries),
		directoriesOnly: pickBool(dirsOnlyFlagName, flags.directoriesOnly, applicationConfiguration.DirectoriesOnly),
		sortEntries:     pickBool(sortFlagName, flags.sortEntries, applicationConfiguration.SortEntries),
		copyToClipboard: pickBool(copyFlagName, flags.copyToClipboard, applicationConfiguration.Clipboard),
		countTokens:     pickBool(tokensFlagName, flags.countTokens, applicationConfiguration.Tokens.Enabled),
		tokenModel:      pickString(modelFlagName, flags.tokenModel, applicationConfiguration.Tokens.Model),
	}
	if !output.IsSupportedFormat(settings.format) {
		return listingSettings{}, fmt.Errorf(invalidFormatMessage, settings.format)
	}
	return settings, nil
}

// runListing renders every requested root and writes the combined output.
func runListing(command *cobra.Command, deps dependencies, settings listingSettings, arguments []string) error {
	validatedPaths, pathValidationError := resolveAndValidatePaths(arguments)
	if pathValidationError != nil {
		return pathValidationError
	}

	renderedRoots, renderError := renderRoots(deps.logger, settings, validatedPaths)
	if renderError != nil {
		return renderError
	}

	separator := rootSeparator
	if settings.format == types.FormatYAML {
		separator = yamlDocumentSeparator
	}
	texts := make([]string, 0, len(renderedRoots))
	summary := &types.OutputSummary{Counted: settings.countEntries}
	for _, rendered := range renderedRoots {
		texts = append(texts, rendered.text)
		summary.Directories += rendered.counts.Directories
		summary.Files += rendered.counts.Files
	}
	listing := strings.Join(texts, separator)

	if settings.countTokens {
		tokenSummaryError := addTokenSummary(deps, settings.tokenModel, listing, summary)
		if tokenSummaryError != nil {
			return tokenSummaryError
		}
	}

	if writeError := writeListing(command.OutOrStdout(), command.ErrOrStderr(), settings.format, listing, summary); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, writeError)
	}

	if settings.copyToClipboard {
		if copyError := deps.copier.Copy(listing); copyError != nil {
			deps.logger.Warn(clipboardCopyFailedMessage, zap.Error(copyError))
		}
	}
	return nil
}

// renderRoots renders each root concurrently and returns the results in input order.
func renderRoots(logger *zap.Logger, settings listingSettings, validatedPaths []types.ValidatedPath) ([]renderedRoot, error) {
	results := make([]renderedRoot, len(validatedPaths))
	var group errgroup.Group
	group.SetLimit(maximumConcurrentRoots)
	for index, validatedPath := range validatedPaths {
		group.Go(func() error {
			rendered, renderError := renderRoot(settings, validatedPath)
			if renderError != nil {
				return renderError
			}
			logger.Debug(rootRenderedMessage,
				zap.String(logFieldPath, validatedPath.AbsolutePath),
				zap.String(logFieldFormat, settings.format),
				zap.Int(logFieldDirectories, rendered.counts.Directories),
				zap.Int(logFieldFiles, rendered.counts.Files),
			)
			results[index] = rendered
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return results, nil
}

// renderRoot renders one root. Text output is produced while walking; the
// structured formats need the materialized tree.
func renderRoot(settings listingSettings, validatedPath types.ValidatedPath) (renderedRoot, error) {
	options := tree.Options{
		Path:            validatedPath.InputPath,
		IncludeHidden:   settings.includeHidden,
		CountEntries:    settings.countEntries,
		SortEntries:     settings.sortEntries,
		DirectoriesOnly: settings.directoriesOnly,
	}
	if settings.format == types.FormatText {
		walkResult, walkError := tree.Walk(options)
		if walkError != nil {
			return renderedRoot{}, walkError
		}
		return renderedRoot{text: walkResult.Text, counts: walkResult.Counts}, nil
	}
	builtTree, buildError := tree.Build(options.Path, options)
	if buildError != nil {
		return renderedRoot{}, buildError
	}
	rendered, encodeError := output.Render(settings.format, builtTree)
	if encodeError != nil {
		return renderedRoot{}, encodeError
	}
	return renderedRoot{text: rendered, counts: builtTree.Counts()}, nil
}

func addTokenSummary(deps dependencies, model string, listing string, summary *types.OutputSummary) error {
	counter, resolvedModel, counterError := deps.newCounter(tokenizer.Config{Model: model})
	if counterError != nil {
		return fmt.Errorf(errorTokenizerFormat, counterError)
	}
	countResult, countError := tokenizer.CountText(counter, listing)
	if countError != nil {
		return fmt.Errorf(errorCountTokensFormat, countError)
	}
	if !countResult.Counted {
		deps.logger.Warn(tokensNotCountedMessage)
		return nil
	}
	summary.Tokens = countResult.Tokens
	summary.Model = resolvedModel
	return nil
}

// writeListing writes the listing to standardOutput. The summary follows the
// text listing after a blank line; for structured formats it goes to
// errorOutput so that standard output stays machine readable.
func writeListing(standardOutput io.Writer, errorOutput io.Writer, format string, listing string, summary *types.OutputSummary) error {
	if _, writeError := io.WriteString(standardOutput, listing); writeError != nil {
		return writeError
	}
	summaryLine := output.FormatSummaryLine(summary)
	if summaryLine == "" {
		return nil
	}
	if format == types.FormatText {
		_, writeError := fmt.Fprintf(standardOutput, "\n%s\n", summaryLine)
		return writeError
	}
	_, writeError := fmt.Fprintln(errorOutput, summaryLine)
	return writeError
}

// resolveAndValidatePaths keeps the first occurrence of every directory and
// rejects any path that is not an existing directory.
func resolveAndValidatePaths(inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil || !info.IsDir() {
			return nil, fmt.Errorf(errorNotDirectoryFormat, inputPath)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{InputPath: inputPath, AbsolutePath: cleanPath})
	}
	return result, nil
}
