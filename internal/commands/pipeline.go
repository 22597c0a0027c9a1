package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/cleared-dev/splitbook/internal/id"
	"github.com/cleared-dev/splitbook/internal/importer"
	"github.com/cleared-dev/splitbook/internal/mapping"
	"github.com/cleared-dev/splitbook/internal/model"
	"github.com/cleared-dev/splitbook/internal/session"
)

// pipelineOptions controls how far runPipeline drives the session.
type pipelineOptions struct {
	until          session.Stage
	keepDuplicates bool
	contributors   []string // nil uses the mapping document, then the top two
	extraMappings  []model.CategoryMapping
	progress       io.Writer // nil hides the progress bar
}

func (a *app) services(parser importer.Parser) session.Services {
	return session.Services{
		Ingest: func(files []importer.File) ([]model.Transaction, error) {
			return importer.IngestMany(files,
				importer.WithParser(parser),
				importer.WithConcurrency(a.cfg.Import.Concurrent))
		},
		ContributorLimit: a.cfg.Contributors.Limit,
		Now:              time.Now,
		RunID:            id.NewRunID(),
		Logger:           a.logger,
	}
}

// parser returns the registered parser for the configured import format.
func (a *app) parser() (importer.Parser, error) {
	p := a.registry.Get(a.cfg.Import.Format)
	if p == nil {
		return nil, fmt.Errorf("unknown import format %q (available: %v)", a.cfg.Import.Format, a.registry.Formats())
	}
	return p, nil
}

// loadFiles reads every statement in the configured directory.
func (a *app) loadFiles() ([]importer.File, error) {
	infos, err := importer.Scan(a.cfg.Import.Dir)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("no CSV files found in %s", a.cfg.Import.Dir)
	}

	files := make([]importer.File, 0, len(infos))
	for _, info := range infos {
		f, err := importer.ReadFile(info.Path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	a.logger.Debug("statements found", "dir", a.cfg.Import.Dir, "files", len(files))
	return files, nil
}

// loadDocument reads the mapping document if present. A missing or
// malformed file is not an error.
func (a *app) loadDocument() (mapping.Document, bool) {
	data, err := os.ReadFile(a.cfg.Mapping.File)
	if err != nil {
		if !os.IsNotExist(err) {
			a.logger.Warn("reading mapping document", "path", a.cfg.Mapping.File, "error", err)
		}
		return mapping.Document{}, false
	}
	return mapping.Load(data, a.logger)
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]Reading statements...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

var stageOrder = map[session.Stage]int{
	session.Landing:      0,
	session.Dedup:        1,
	session.Contributors: 2,
	session.Categorize:   3,
	session.Report:       4,
}

func reached(cur, until session.Stage) bool {
	return until != "" && stageOrder[cur] >= stageOrder[until]
}

// runPipeline drives a session from landing until opts.until is reached,
// or through to the report when until is empty.
func (a *app) runPipeline(opts pipelineOptions) (session.State, error) {
	parser, err := a.parser()
	if err != nil {
		return session.State{}, err
	}
	files, err := a.loadFiles()
	if err != nil {
		return session.State{}, err
	}

	svc := a.services(parser)
	if opts.progress != nil {
		bar := newProgressBar(opts.progress, len(files))
		svc.Ingest = func(files []importer.File) ([]model.Transaction, error) {
			return importer.IngestMany(files,
				importer.WithParser(parser),
				importer.WithConcurrency(a.cfg.Import.Concurrent),
				importer.WithProgress(func(string, int) { _ = bar.Add(1) }))
		}
	}

	s := session.New()
	step := func(ev session.Event) error {
		next, err := session.Transition(s, ev, svc)
		if err != nil {
			return err
		}
		s = next
		return nil
	}

	if doc, ok := a.loadDocument(); ok {
		if err := step(session.MappingDocumentLoaded{Document: doc}); err != nil {
			return s, err
		}
	}
	if err := step(session.FilesLoaded{Files: files}); err != nil {
		return s, err
	}
	if reached(s.Stage, opts.until) {
		return s, nil
	}

	if s.Stage == session.Dedup {
		if err := step(session.DuplicatesResolved{Remove: !opts.keepDuplicates}); err != nil {
			return s, err
		}
	}
	if reached(s.Stage, opts.until) {
		return s, nil
	}

	names := opts.contributors
	if names == nil {
		names = s.Selected
	}
	if names == nil {
		for i := 0; i < len(s.Ranked) && i < 2; i++ {
			names = append(names, s.Ranked[i].Name)
		}
	}
	if err := step(session.ContributorsSelected{Names: names}); err != nil {
		return s, err
	}
	for _, m := range opts.extraMappings {
		if err := step(session.MappingAdded{Mapping: m}); err != nil {
			return s, err
		}
	}
	if reached(s.Stage, opts.until) {
		return s, nil
	}

	if err := step(session.CategorizationDone{}); err != nil {
		return s, err
	}
	return s, nil
}
