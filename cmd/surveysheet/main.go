// Package main provides the CLI entry point for surveysheet.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/surveysheet-go/internal/config"
	"github.com/ukaji3/surveysheet-go/internal/console"
	"github.com/ukaji3/surveysheet-go/internal/discovery"
	"github.com/ukaji3/surveysheet-go/internal/logger"
)

var (
	configPath string
	baseDir    string
	verbose    bool
	pause      bool
	force      bool
	outputPath string
	pretty     bool

	current *app
)

func main() {
	reporter := console.NewReporter(os.Stdout)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(reporter).ExecuteContext(ctx)
	stop()
	if err != nil && !errors.Is(err, discovery.ErrRecordDirCreated) {
		reporter.Error(err)
	}
	if current != nil {
		_ = current.log.Sync()
	}
	if pause {
		reporter.Pause(os.Stdin)
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(reporter *console.Reporter) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "surveysheet",
		Short: "Build survey spreadsheet templates and merge response exports",
		Long: `surveysheet derives a spreadsheet template from a survey definition
(JSON or YAML) and merges exported CSV responses into it, highlighting
duplicate respondent identifiers.

Without a subcommand it builds the template if missing and merges all
record files.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(reporter)
			if err != nil {
				return err
			}
			current = a
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return current.run()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default: ./surveysheet.yaml if present)")
	flags.StringVar(&baseDir, "base-dir", "", "Working directory holding config/, data/ and _admin/")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&pause, "pause", false, "Wait for Enter before exiting")

	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Generate the template workbook from the survey document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, err := current.template()
			return err
		},
	}
	templateCmd.Flags().BoolVarP(&force, "force", "f", false, "Regenerate an existing template")

	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge record files into a copy of the existing template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current.mergeOnly()
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Build the template if missing, then merge record files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current.run()
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Merge once, then re-merge whenever record files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current.watch(cmd.Context())
		},
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [merged.xlsx]",
		Short: "Print the data rows and duplicate rows of a merged workbook as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return current.inspect(args, outputPath, pretty)
		},
	}

	layoutCmd := &cobra.Command{
		Use:   "layout [document]",
		Short: "Print the column layout derived from a survey document as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return current.layout(args, outputPath, pretty)
		},
	}

	for _, c := range []*cobra.Command{inspectCmd, layoutCmd} {
		c.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
		c.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	}

	rootCmd.AddCommand(templateCmd, mergeCmd, runCmd, watchCmd, inspectCmd, layoutCmd)
	return rootCmd
}

func setup(reporter *console.Reporter) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if baseDir != "" {
		cfg.Paths.BaseDir = baseDir
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return newApp(cfg, log, reporter, force)
}
