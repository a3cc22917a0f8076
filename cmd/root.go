// Package cmd provides the root command and CLI setup for cleandesigner.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"cleandesigner.dev/pkg/cleandesigner/internal/adapter"
	"cleandesigner.dev/pkg/cleandesigner/internal/controller"
	"cleandesigner.dev/pkg/cleandesigner/internal/domain"
)

var fsAdapter adapter.SourceFSAdapter
var syntaxAdapter adapter.SyntaxAdapter
var summaryStore adapter.SummaryStore
var watcher adapter.DirectoryWatcher
var rewriter domain.Rewriter

// workflowFactory builds the workflow for a command run.
var workflowFactory = newWorkflow

var (
	pathFlag     string
	prefixFlag   string
	cleanFlag    bool
	reportFlag   bool
	dryRunFlag   bool
	watchFlag    bool
	summaryFlag  string
	parallelFlag int
	logFileFlag  string
	verboseFlag  bool
)

func init() {
	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	syntaxAdapter = adapter.NewCSharpSyntaxAdapter()
	summaryStore = adapter.NewYAMLSummaryStore(fsAdapter)
	watcher = adapter.NewFSNotifyWatcher(adapter.DefaultWatchDebounce)
	rewriter = domain.NewRewriter(syntaxAdapter)
}

const rootLongDescription = `cleandesigner removes properties and backing fields from *.Designer.cs
files when the hand-written partial class next to it (X.cs for
X.Designer.cs) already declares the same property.

Exactly one of --clean or --report is required. --clean rewrites the
designer files in place (no backup is made); --report only lists the
duplicates. Backing fields are recognized by a one-character prefix
(--prefix, default "f"): field fName backs property Name.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "cleandesigner",
		Short:         "Remove designer members duplicated by the hand-written partial class",
		Long:          rootLongDescription,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&pathFlag, pathFlagName, "p", "", "directory containing the designer and custom class files")
	bindFlagToConfig(cmd.Flags().Lookup(pathFlagName), pathConfigKey)

	cmd.Flags().StringVar(&prefixFlag, prefixFlagName, defaultPrefix, "one-character prefix of backing fields")
	bindFlagToConfig(cmd.Flags().Lookup(prefixFlagName), prefixConfigKey)

	cmd.Flags().BoolVar(&cleanFlag, cleanFlagName, false, "clean designer files")
	cmd.Flags().BoolVar(&reportFlag, reportFlagName, false, "report duplicates and backing fields")
	cmd.Flags().BoolVar(&dryRunFlag, dryRunFlagName, false, "with --clean, print a diff instead of writing files")
	cmd.Flags().BoolVarP(&watchFlag, watchFlagName, "w", false, "keep running and process pairs again when their files change")

	cmd.Flags().StringVar(&summaryFlag, summaryFlagName, "", "write a YAML summary of the run to this file")
	bindFlagToConfig(cmd.Flags().Lookup(summaryFlagName), summaryConfigKey)

	cmd.Flags().IntVar(&parallelFlag, runParallelFlagName, defaultRunParallel, "number of pairs analyzed concurrently (output order is kept)")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(cmd.Flags().Lookup(logFileFlagName), logFilenameKey)

	cmd.Flags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "debug logging")
	bindFlagToConfig(cmd.Flags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

func runRoot(cmd *cobra.Command, _ []string) error {
	// Without any flag, print the usage.
	if cmd.Flags().NFlag() == 0 {
		return cmd.Help()
	}

	configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := domain.NewConfig(ctx, domain.Options{
		Path:    viper.GetString(pathConfigKey),
		Prefix:  viper.GetString(prefixConfigKey),
		Clean:   cleanFlag,
		Report:  reportFlag,
		Threads: viper.GetInt(runParallelConfigKey),
		DryRun:  dryRunFlag,
		Summary: viper.GetString(summaryConfigKey),
	}, fsAdapter)
	if err != nil {
		cmd.PrintErrf("❌ %v\n", err)
		return err
	}

	workflow := workflowFactory(cmd)

	if watchFlag {
		err = workflow.Watch(ctx, cfg)
	} else {
		_, err = workflow.Run(ctx, cfg)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		cmd.PrintErrf("❌ %v\n", err)
		return err
	}

	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

func newWorkflow(cmd *cobra.Command) domain.Workflow {
	ui := controller.NewUI(cmd, isTerminalOutput(cmd))

	return domain.NewWorkflow(fsAdapter, syntaxAdapter, summaryStore, watcher, ui, rewriter)
}

func isTerminalOutput(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)

	return ok && controller.IsTTY(f)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
