// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/sitetree/internal/config"
	"github.com/temirov/sitetree/internal/contentindex"
	"github.com/temirov/sitetree/internal/filetree"
	"github.com/temirov/sitetree/internal/output"
	"github.com/temirov/sitetree/internal/services/clipboard"
	"github.com/temirov/sitetree/internal/services/watch"
	"github.com/temirov/sitetree/internal/services/web"
	"github.com/temirov/sitetree/internal/types"
	"github.com/temirov/sitetree/internal/utils"
)

const (
	configFlagName      = "config"
	versionFlagName     = "version"
	indexFlagName       = "index"
	formatFlagName      = "format"
	excludeFlagName     = "exclude"
	excludeFlagShort    = "e"
	suffixFlagName      = "suffix"
	localeFlagName      = "locale"
	clipboardFlagName   = "clipboard"
	addressFlagName     = "address"
	watchFlagName       = "watch"
	minifyFlagName      = "minify"
	sanitizeFlagName    = "sanitize"
	globalFlagName      = "global"
	forceFlagName       = "force"
	standardInputMarker = "-"

	versionTemplate      = "sitetree version: %s\n"
	rootUse              = "sitetree"
	rootShortDescription = "sitetree command line interface"
	rootLongDescription  = `sitetree turns the content index of a static documentation site into a file tree.
It renders the tree as html, raw text, json or xml, prints folder and file counts,
and serves the interactive file-tree modal over HTTP. Use --version to print the application version.`

	treeUse              = "tree"
	treeAlias            = "t"
	treeShortDescription = "render the site file tree (" + treeAlias + ")"
	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Build the file tree from the content index and render it.
Use --format to select html, raw, json, or xml output and --index - to read the index from standard input.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Render the modal fragment for the default content index
  sitetree tree

  # Print an ASCII tree of an index piped from the site build
  cat public/static/contentIndex.json | sitetree tree --index - --format raw

  # Exclude only the drafts folder and print json
  sitetree tree --exclude drafts --format json`

	statsUse              = "stats"
	statsAlias            = "s"
	statsShortDescription = "print folder and file counts (" + statsAlias + ")"
	statsLongDescription  = `Print the localized folder and file counts shown in the modal header.`

	serveUse              = "serve"
	serveShortDescription = "serve the file-tree modal over HTTP"
	serveLongDescription  = `Serve a page carrying the file-tree modal. Each browser session gets its own document;
the modal state is driven through the /modal routes. With --watch the content index is reloaded on change.`

	initUse              = "init"
	initShortDescription = "write the default configuration file"

	configFlagDescription    = "configuration file path"
	versionFlagDescription   = "display application version"
	indexFlagDescription     = "content index path, - for standard input"
	formatFlagDescription    = "output format (html, raw, json, xml)"
	excludeFlagDescription   = "excluded folder name, replaces the configured list"
	suffixFlagDescription    = "document file suffix"
	localeFlagDescription    = "collation locale for sorting"
	clipboardFlagDescription = "copy the rendered tree to the clipboard"
	addressFlagDescription   = "listen address"
	watchFlagDescription     = "reload the content index when it changes"
	minifyFlagDescription    = "minify the served page"
	sanitizeFlagDescription  = "sanitize the injected tree markup"
	globalFlagDescription    = "write the global configuration file"
	forceFlagDescription     = "overwrite an existing configuration file"

	invalidFormatMessage       = "invalid format value '%s'"
	loadConfigurationFormat    = "load configuration: %w"
	loadIndexFormat            = "load content index %s: %w"
	decodeStandardInputFormat  = "read content index from standard input: %w"
	configurationWrittenFormat = "configuration written to %s\n"
	logMessageCopied           = "tree copied to clipboard"
	logMessageReloadFailed     = "content index reload failed"
	logMessageServing          = "file tree available"
	logFieldAddress            = "address"
	logFieldPath               = "path"
	urlTemplate                = "http://%s/"
)

// Dependencies carries the process-level collaborators of the commands.
type Dependencies struct {
	Logger *zap.Logger
	Input  io.Reader
	Copier clipboard.Copier
}

// Execute runs the sitetree application.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{
		Logger: logger,
		Input:  os.Stdin,
		Copier: clipboard.NewService(),
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Input == nil {
		dependencies.Input = os.Stdin
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}

	var showVersion bool
	var configurationPath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, writeError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return writeError
			}
			return command.Help()
		},
	}
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configurationPath, configFlagName, "", configFlagDescription)

	loadConfiguration := func() (config.ApplicationConfiguration, error) {
		applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: configurationPath})
		if loadError != nil {
			return config.ApplicationConfiguration{}, fmt.Errorf(loadConfigurationFormat, loadError)
		}
		return applicationConfiguration, nil
	}

	rootCommand.AddCommand(
		createTreeCommand(dependencies, loadConfiguration),
		createStatsCommand(dependencies, loadConfiguration),
		createServeCommand(dependencies, loadConfiguration),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

type configurationLoader func() (config.ApplicationConfiguration, error)

// treeOptions stores the tree-building flags shared by tree, stats and serve.
type treeOptions struct {
	indexPath       string
	excludedFolders []string
	documentSuffix  string
	locale          string
}

func addTreeFlags(command *cobra.Command, options *treeOptions) {
	command.Flags().StringVar(&options.indexPath, indexFlagName, "", indexFlagDescription)
	command.Flags().StringArrayVarP(&options.excludedFolders, excludeFlagName, excludeFlagShort, nil, excludeFlagDescription)
	command.Flags().StringVar(&options.documentSuffix, suffixFlagName, "", suffixFlagDescription)
	command.Flags().StringVar(&options.locale, localeFlagName, "", localeFlagDescription)
}

// apply overlays the flags given on the command line onto treeConfiguration.
func (options treeOptions) apply(treeConfiguration config.TreeConfiguration) config.TreeConfiguration {
	result := treeConfiguration
	if options.indexPath != "" {
		result.Index = options.indexPath
	}
	if options.documentSuffix != "" {
		result.DocumentSuffix = options.documentSuffix
	}
	if options.locale != "" {
		result.Locale = options.locale
	}
	return result
}

// newPipeline builds the pipeline described by treeConfiguration and the explicit exclusions.
func newPipeline(treeConfiguration config.TreeConfiguration, explicitExclusions []string) (filetree.Pipeline, error) {
	excludedFolders, resolveError := config.ResolveExcludedFolders(treeConfiguration, explicitExclusions)
	if resolveError != nil {
		return filetree.Pipeline{}, resolveError
	}
	classifier := filetree.NewClassifier(excludedFolders, treeConfiguration.DocumentSuffix)
	return filetree.NewPipeline(classifier, treeConfiguration.Locale), nil
}

// loadIndex reads the content index from indexPath, or from input when indexPath is "-".
func loadIndex(indexPath string, input io.Reader) (*contentindex.Index, error) {
	if indexPath == standardInputMarker {
		index, decodeError := contentindex.Decode(input)
		if decodeError != nil {
			return nil, fmt.Errorf(decodeStandardInputFormat, decodeError)
		}
		return index, nil
	}
	index, loadError := contentindex.Load(indexPath)
	if loadError != nil {
		return nil, fmt.Errorf(loadIndexFormat, indexPath, loadError)
	}
	return index, nil
}

// buildTree resolves configuration, loads the index and runs the pipeline.
func buildTree(loader configurationLoader, options treeOptions, input io.Reader) (filetree.Result, config.TreeConfiguration, error) {
	applicationConfiguration, loadError := loader()
	if loadError != nil {
		return filetree.Result{}, config.TreeConfiguration{}, loadError
	}
	treeConfiguration := options.apply(applicationConfiguration.Tree)
	pipeline, pipelineError := newPipeline(treeConfiguration, options.excludedFolders)
	if pipelineError != nil {
		return filetree.Result{}, treeConfiguration, pipelineError
	}
	index, indexError := loadIndex(treeConfiguration.ResolvedIndex(), input)
	if indexError != nil {
		return filetree.Result{}, treeConfiguration, indexError
	}
	return pipeline.Run(index), treeConfiguration, nil
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(dependencies Dependencies, loader configurationLoader) *cobra.Command {
	var options treeOptions
	var outputFormat string
	var copyToClipboard *bool

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			result, treeConfiguration, buildError := buildTree(loader, options, dependencies.Input)
			if buildError != nil {
				return buildError
			}
			format := outputFormat
			if format == "" {
				format = treeConfiguration.Format
			}
			if format == "" {
				format = types.FormatHTML
			}
			format = strings.ToLower(format)
			if !output.IsSupportedFormat(format) {
				return fmt.Errorf(invalidFormatMessage, format)
			}
			rendered, renderError := output.RenderTree(format, result, treeConfiguration.StatsLabels())
			if renderError != nil {
				return renderError
			}
			if _, writeError := fmt.Fprintln(command.OutOrStdout(), rendered); writeError != nil {
				return writeError
			}
			if !config.BoolOrDefault(copyToClipboard, config.BoolOrDefault(treeConfiguration.Clipboard, false)) {
				return nil
			}
			if copyError := dependencies.Copier.Copy(rendered); copyError != nil {
				return copyError
			}
			dependencies.Logger.Info(logMessageCopied)
			return nil
		},
	}

	addTreeFlags(treeCommand, &options)
	treeCommand.Flags().StringVar(&outputFormat, formatFlagName, "", formatFlagDescription)
	registerOptionalBooleanFlag(treeCommand.Flags(), &copyToClipboard, clipboardFlagName, clipboardFlagDescription)
	return treeCommand
}

// createStatsCommand returns the stats subcommand.
func createStatsCommand(dependencies Dependencies, loader configurationLoader) *cobra.Command {
	var options treeOptions

	statsCommand := &cobra.Command{
		Use:     statsUse,
		Aliases: []string{statsAlias},
		Short:   statsShortDescription,
		Long:    statsLongDescription,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			result, treeConfiguration, buildError := buildTree(loader, options, dependencies.Input)
			if buildError != nil {
				return buildError
			}
			folderLabel, fileLabel := output.FormatStatsLabels(result.Stats, treeConfiguration.StatsLabels())
			_, writeError := fmt.Fprintf(command.OutOrStdout(), "%s\n%s\n", folderLabel, fileLabel)
			return writeError
		},
	}
	addTreeFlags(statsCommand, &options)
	return statsCommand
}

// createServeCommand returns the serve subcommand.
func createServeCommand(dependencies Dependencies, loader configurationLoader) *cobra.Command {
	var options treeOptions
	var listenAddress string
	var watchIndex, minifyPage, sanitizeMarkup *bool

	serveCommand := &cobra.Command{
		Use:   serveUse,
		Short: serveShortDescription,
		Long:  serveLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, loadError := loader()
			if loadError != nil {
				return loadError
			}
			treeConfiguration := options.apply(applicationConfiguration.Tree)
			serveConfiguration := applicationConfiguration.Serve
			if listenAddress != "" {
				serveConfiguration.Address = listenAddress
			}
			pipeline, pipelineError := newPipeline(treeConfiguration, options.excludedFolders)
			if pipelineError != nil {
				return pipelineError
			}
			indexPath := treeConfiguration.ResolvedIndex()
			index, indexError := contentindex.Load(indexPath)
			if indexError != nil {
				return fmt.Errorf(loadIndexFormat, indexPath, indexError)
			}

			server := web.NewServer(web.Config{
				Address:     serveConfiguration.ResolvedAddress(),
				Store:       contentindex.NewStore(index),
				Pipeline:    pipeline,
				Labels:      treeConfiguration.StatsLabels(),
				Sanitize:    config.BoolOrDefault(sanitizeMarkup, config.BoolOrDefault(serveConfiguration.Sanitize, true)),
				Minify:      config.BoolOrDefault(minifyPage, config.BoolOrDefault(serveConfiguration.Minify, true)),
				MaxSessions: serveConfiguration.MaxSessions,
				SessionTTL:  serveConfiguration.SessionTTL,
				Logger:      dependencies.Logger,
			})

			ctx, stop := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, server, indexPath, config.BoolOrDefault(watchIndex, config.BoolOrDefault(serveConfiguration.Watch, true)), dependencies.Logger, command.OutOrStdout())
		},
	}

	addTreeFlags(serveCommand, &options)
	serveCommand.Flags().StringVar(&listenAddress, addressFlagName, "", addressFlagDescription)
	registerOptionalBooleanFlag(serveCommand.Flags(), &watchIndex, watchFlagName, watchFlagDescription)
	registerOptionalBooleanFlag(serveCommand.Flags(), &minifyPage, minifyFlagName, minifyFlagDescription)
	registerOptionalBooleanFlag(serveCommand.Flags(), &sanitizeMarkup, sanitizeFlagName, sanitizeFlagDescription)
	return serveCommand
}

// runServer runs the HTTP server and, when enabled, the index watcher until ctx is canceled.
func runServer(ctx context.Context, server *web.Server, indexPath string, watchIndex bool, logger *zap.Logger, announce io.Writer) error {
	var watcher *watch.Watcher
	if watchIndex {
		createdWatcher, watcherError := watch.NewWatcher(indexPath, func() {
			if reloadError := server.ReloadIndex(indexPath); reloadError != nil {
				logger.Warn(logMessageReloadFailed, zap.String(logFieldPath, indexPath), zap.Error(reloadError))
			}
		}, logger)
		if watcherError != nil {
			return watcherError
		}
		watcher = createdWatcher
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.Run(groupCtx, func(address string) {
			logger.Info(logMessageServing, zap.String(logFieldAddress, address))
			_, _ = fmt.Fprintf(announce, urlTemplate+"\n", address)
		})
	})
	if watcher != nil {
		group.Go(func() error {
			return watcher.Run(groupCtx)
		})
	}

	if waitError := group.Wait(); waitError != nil && !errors.Is(waitError, context.Canceled) {
		return waitError
	}
	return nil
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var writeGlobal bool
	var overwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: overwrite})
			if initError != nil {
				return initError
			}
			_, writeError := fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, destinationPath)
			return writeError
		},
	}
	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&overwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}
