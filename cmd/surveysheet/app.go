package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ukaji3/surveysheet-go/internal/config"
	"github.com/ukaji3/surveysheet-go/internal/console"
	"github.com/ukaji3/surveysheet-go/internal/discovery"
	"github.com/ukaji3/surveysheet-go/internal/watch"
	"github.com/ukaji3/surveysheet-go/pkg/surveysheet"
	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/output"
	"go.uber.org/zap"
)

const banner = "アンケート集計処理"

// app runs the pipeline steps against the configured directories.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	opts     surveysheet.Options
	reporter *console.Reporter
	stdout   io.Writer

	configDir   string
	csvDir      string
	outputDir   string
	templateDir string
}

func newApp(cfg *config.Config, log *zap.Logger, reporter *console.Reporter, force bool) (*app, error) {
	theme, err := cfg.Style.Theme()
	if err != nil {
		return nil, fmt.Errorf("failed to build theme: %w", err)
	}
	p := cfg.Paths
	return &app{
		cfg: cfg,
		log: log,
		opts: surveysheet.Options{
			Theme:     theme,
			Encodings: cfg.Records.Encodings,
			SkipLines: cfg.Records.SkipLines,
			Force:     force,
			Logger:    log,
		},
		reporter:    reporter,
		stdout:      os.Stdout,
		configDir:   p.Resolve(p.ConfigDir),
		csvDir:      p.Resolve(p.CSVDir),
		outputDir:   p.Resolve(p.OutputDir),
		templateDir: p.Resolve(p.TemplateDir),
	}, nil
}

// template locates the survey document and builds its template.
func (a *app) template() (string, *surveysheet.TemplateResult, error) {
	doc, err := discovery.FindDocument(a.configDir)
	if err != nil {
		return "", nil, err
	}
	a.reporter.Document(doc)

	res, err := surveysheet.BuildTemplate(doc, discovery.TemplatePath(a.templateDir, doc), a.opts)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build template: %w", err)
	}
	a.reporter.Template(res.Path, res.Columns, res.Skipped)
	return doc, res, nil
}

// merge folds all record files into a fresh copy of the template of doc.
func (a *app) merge(doc string) error {
	records, err := discovery.FindRecords(a.csvDir)
	if err != nil {
		if errors.Is(err, discovery.ErrRecordDirCreated) {
			a.reporter.RecordDirCreated(a.csvDir)
		}
		return err
	}
	a.reporter.Records(records)

	report, err := surveysheet.MergeFiles(
		discovery.TemplatePath(a.templateDir, doc),
		discovery.OutputPath(a.outputDir, doc),
		records, a.opts)
	if err != nil {
		return fmt.Errorf("failed to merge records: %w", err)
	}
	for _, b := range report.Batches {
		if b.Unreadable() {
			a.reporter.Unreadable(b.Source)
		}
	}
	a.reporter.Done(report.OutputPath, report.Inserted, report.Duplicates)
	return nil
}

func (a *app) run() error {
	a.reporter.Banner(banner)
	doc, _, err := a.template()
	if err != nil {
		return err
	}
	return a.merge(doc)
}

func (a *app) mergeOnly() error {
	a.reporter.Banner(banner)
	doc, err := discovery.FindDocument(a.configDir)
	if err != nil {
		return err
	}
	a.reporter.Document(doc)
	tpl := discovery.TemplatePath(a.templateDir, doc)
	if _, err := os.Stat(tpl); err != nil {
		return fmt.Errorf("template %s not found, run the template command first: %w", tpl, err)
	}
	return a.merge(doc)
}

// watch runs the pipeline once, then re-merges on record changes until ctx
// is done.
func (a *app) watch(ctx context.Context) error {
	a.reporter.Banner(banner)
	doc, _, err := a.template()
	if err != nil {
		return err
	}
	if err := a.merge(doc); err != nil && !isMissingRecords(err) {
		return err
	}

	w, err := watch.New(a.csvDir, a.cfg.Watch.Debounce, discovery.IsRecordFile, a.log)
	if err != nil {
		return err
	}
	a.reporter.Watching(a.csvDir)
	return w.Run(ctx, func(context.Context) error {
		err := a.merge(doc)
		if isMissingRecords(err) {
			a.log.Info("No record files to merge", zap.String("dir", a.csvDir))
			return nil
		}
		return err
	})
}

func isMissingRecords(err error) bool {
	return errors.Is(err, discovery.ErrNoRecords) || errors.Is(err, discovery.ErrRecordDirCreated)
}

func (a *app) inspect(args []string, dest string, pretty bool) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		doc, err := discovery.FindDocument(a.configDir)
		if err != nil {
			return err
		}
		path = discovery.OutputPath(a.outputDir, doc)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", path)
	}

	wb, err := surveysheet.Inspect(path, a.opts)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}
	data, err := output.ToJSON(wb, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return a.write(data, dest)
}

func (a *app) layout(args []string, dest string, pretty bool) error {
	doc := ""
	if len(args) > 0 {
		doc = args[0]
	} else {
		var err error
		if doc, err = discovery.FindDocument(a.configDir); err != nil {
			return err
		}
	}

	layout, err := surveysheet.LoadLayout(doc)
	if err != nil {
		return err
	}
	data, err := output.LayoutToJSON(layout, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return a.write(data, dest)
}

func (a *app) write(data []byte, dest string) error {
	if dest != "" {
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err := fmt.Fprintln(a.stdout, string(data))
	return err
}
