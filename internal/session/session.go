// Package session drives the import, dedup, contributors, categorize and
// report flow as a state machine. Transition is pure: it returns a new
// State and never modifies the one it was given.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cleared-dev/splitbook/internal/categorize"
	"github.com/cleared-dev/splitbook/internal/contributors"
	"github.com/cleared-dev/splitbook/internal/dedup"
	"github.com/cleared-dev/splitbook/internal/importer"
	"github.com/cleared-dev/splitbook/internal/mapping"
	"github.com/cleared-dev/splitbook/internal/model"
	"github.com/cleared-dev/splitbook/internal/report"
	"github.com/cleared-dev/splitbook/internal/runlog"
)

// Stage names a step of the flow.
type Stage string

const (
	Landing      Stage = "landing"
	Dedup        Stage = "dedup"
	Contributors Stage = "contributors"
	Categorize   Stage = "categorize"
	Report       Stage = "report"
)

// ErrInvalidTransition is returned when an event does not apply to the
// current stage.
var ErrInvalidTransition = errors.New("invalid transition")

// State is an immutable snapshot of the session.
type State struct {
	Stage Stage
	Files []string // source labels in load order

	// Ingested is every parsed transaction, date-sorted.
	Ingested []model.Transaction
	Groups   []model.DuplicateGroup
	// Cleaned is Ingested after duplicate resolution.
	Cleaned           []model.Transaction
	DuplicatesRemoved int

	Ranked   []model.Contributor
	Selected []string
	Mappings []model.CategoryMapping

	// Transactions is Cleaned with contributor and category annotations.
	Transactions []model.Transaction
	Report       report.Data

	// Document is the mapping document loaded at landing, if any.
	Document    mapping.Document
	HasDocument bool

	Log []runlog.Entry
}

// New returns the initial landing state.
func New() State {
	return State{Stage: Landing}
}

// Services are the collaborators Transition calls.
type Services struct {
	// Ingest parses statement files. Defaults to importer.IngestMany.
	Ingest func(files []importer.File) ([]model.Transaction, error)
	// ContributorLimit caps the ranking; contributors.Unlimited ranks all.
	ContributorLimit int
	Now              func() time.Time
	RunID            string
	Logger           *slog.Logger
}

func (s Services) ingest(files []importer.File) ([]model.Transaction, error) {
	if s.Ingest != nil {
		return s.Ingest(files)
	}
	return importer.IngestMany(files)
}

func (s Services) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Services) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Event is something that moves the session forward.
type Event interface {
	event()
}

// FilesLoaded replaces all transactions with the parsed files.
type FilesLoaded struct{ Files []importer.File }

// DuplicatesResolved removes redundant copies when Remove is set, otherwise
// keeps them flagged.
type DuplicatesResolved struct{ Remove bool }

// ContributorsSelected tags income with the chosen contributor names.
type ContributorsSelected struct{ Names []string }

// MappingAdded appends a category rule and reapplies all rules.
type MappingAdded struct{ Mapping model.CategoryMapping }

// MappingDocumentLoaded restores contributors and rules from a previous
// session.
type MappingDocumentLoaded struct{ Document mapping.Document }

// CategorizationDone moves to the report.
type CategorizationDone struct{}

// Back returns to the previous stage.
type Back struct{}

// Reset discards everything and returns to landing.
type Reset struct{}

func (FilesLoaded) event()           {}
func (DuplicatesResolved) event()    {}
func (ContributorsSelected) event()  {}
func (MappingAdded) event()          {}
func (MappingDocumentLoaded) event() {}
func (CategorizationDone) event()    {}
func (Back) event()                  {}
func (Reset) event()                 {}

// Transition applies ev to s. On error the returned State is s unchanged.
func Transition(s State, ev Event, svc Services) (State, error) {
	next, err := transition(s, ev, svc)
	if err != nil {
		return s, err
	}
	return next, nil
}

func transition(s State, ev Event, svc Services) (State, error) {
	if _, ok := ev.(Reset); ok {
		next := New()
		next.Log = record(s.Log, svc, Landing, "reset", "", 0)
		return next, nil
	}

	switch s.Stage {
	case Landing:
		switch e := ev.(type) {
		case FilesLoaded:
			return loadFiles(s, e, svc)
		case MappingDocumentLoaded:
			return loadDocument(s, e, svc)
		}
	case Dedup:
		switch e := ev.(type) {
		case DuplicatesResolved:
			return resolveDuplicates(s, e, svc), nil
		case Back:
			return back(s, Landing, svc), nil
		}
	case Contributors:
		switch e := ev.(type) {
		case ContributorsSelected:
			return selectContributors(s, e, svc), nil
		case Back:
			if len(s.Groups) > 0 {
				return back(s, Dedup, svc), nil
			}
			return back(s, Landing, svc), nil
		}
	case Categorize:
		switch e := ev.(type) {
		case MappingAdded:
			return addMapping(s, e, svc)
		case CategorizationDone:
			return enterReport(s, svc), nil
		case Back:
			return back(s, Contributors, svc), nil
		}
	case Report:
		if _, ok := ev.(Back); ok {
			return back(s, Categorize, svc), nil
		}
	}
	return s, fmt.Errorf("%w: %T in stage %s", ErrInvalidTransition, ev, s.Stage)
}

func record(entries []runlog.Entry, svc Services, stage Stage, action, details string, count int) []runlog.Entry {
	return runlog.Append(entries, runlog.Entry{
		Timestamp: svc.now().UTC().Truncate(time.Second),
		RunID:     svc.RunID,
		Stage:     string(stage),
		Action:    action,
		Details:   details,
		Count:     count,
	})
}

func back(s State, to Stage, svc Services) State {
	s.Log = record(s.Log, svc, s.Stage, "back", string(to), 0)
	s.Stage = to
	return s
}

func loadFiles(s State, e FilesLoaded, svc Services) (State, error) {
	txns, err := svc.ingest(e.Files)
	if err != nil {
		svc.logger().Warn("ingestion failed", "error", err)
		return s, fmt.Errorf("loading files: %w", err)
	}

	labels := make([]string, len(e.Files))
	for i, f := range e.Files {
		labels[i] = f.Label
	}

	next := State{
		Stage:       Landing,
		Files:       labels,
		Ingested:    txns,
		Groups:      dedup.FindDuplicateGroups(txns),
		Cleaned:     txns,
		Document:    s.Document,
		HasDocument: s.HasDocument,
	}
	if s.HasDocument {
		next.Mappings = mapping.Mappings(s.Document)
	}
	next.Log = record(s.Log, svc, Landing, "load_files", strings.Join(labels, ", "), len(txns))
	svc.logger().Info("files loaded", "files", len(labels), "transactions", len(txns), "duplicate_groups", len(next.Groups))

	if len(next.Groups) > 0 {
		next.Stage = Dedup
		return next, nil
	}
	return enterContributors(next, svc), nil
}

func loadDocument(s State, e MappingDocumentLoaded, svc Services) (State, error) {
	if errs := mapping.Validate(e.Document); len(errs) > 0 {
		return s, fmt.Errorf("mapping document: %w", errs[0])
	}
	s.Document = e.Document
	s.HasDocument = true
	s.Log = record(s.Log, svc, Landing, "load_mapping_document",
		fmt.Sprintf("%d contributors", len(e.Document.Contributors)), len(e.Document.Categories))
	return s, nil
}

func resolveDuplicates(s State, e DuplicatesResolved, svc Services) State {
	if e.Remove {
		drop := dedup.TransactionsToRemove(s.Groups)
		s.Cleaned = dedup.ApplyRemoval(s.Ingested, drop)
		s.DuplicatesRemoved = len(drop)
		s.Log = record(s.Log, svc, Dedup, "remove_duplicates", fmt.Sprintf("%d groups", len(s.Groups)), len(drop))
	} else {
		s.Cleaned = dedup.MarkDuplicates(s.Ingested, s.Groups)
		s.DuplicatesRemoved = 0
		s.Log = record(s.Log, svc, Dedup, "keep_duplicates", fmt.Sprintf("%d groups", len(s.Groups)), dedup.Count(s.Groups))
	}
	return enterContributors(s, svc)
}

func enterContributors(s State, svc Services) State {
	s.Stage = Contributors
	s.Ranked = contributors.Rank(s.Cleaned, svc.ContributorLimit)
	if s.Selected == nil && s.HasDocument {
		s.Selected = append([]string(nil), s.Document.Contributors...)
	}
	return s
}

func selectContributors(s State, e ContributorsSelected, svc Services) State {
	s.Selected = append([]string(nil), e.Names...)
	s.Stage = Categorize
	s.Transactions = categorize.ApplyMappings(contributors.Tag(s.Cleaned, s.Selected), s.Mappings)
	s.Log = record(s.Log, svc, Contributors, "select_contributors", strings.Join(s.Selected, ", "), len(s.Selected))
	return s
}

func addMapping(s State, e MappingAdded, svc Services) (State, error) {
	m := e.Mapping
	m.Pattern = strings.TrimSpace(m.Pattern)
	m.Category = strings.TrimSpace(m.Category)
	if m.Pattern == "" || m.Category == "" || !m.MatchType.Valid() {
		return s, fmt.Errorf("invalid mapping %+v", e.Mapping)
	}

	mappings := make([]model.CategoryMapping, len(s.Mappings), len(s.Mappings)+1)
	copy(mappings, s.Mappings)
	s.Mappings = append(mappings, m)

	before := categorize.ComputeProgress(s.Transactions).Categorized
	s.Transactions = categorize.ApplyMappings(s.Transactions, s.Mappings)
	added := categorize.ComputeProgress(s.Transactions).Categorized - before

	s.Log = record(s.Log, svc, Categorize, "add_mapping",
		fmt.Sprintf("%s %s -> %s", m.MatchType, m.Pattern, m.Category), added)
	return s, nil
}

func enterReport(s State, svc Services) State {
	s.Stage = Report
	s.Report = report.Build(s.Transactions, report.Options{
		Contributors:      contributors.Tracked(s.Selected),
		DuplicatesRemoved: s.DuplicatesRemoved,
	})
	s.Log = record(s.Log, svc, Report, "build_report", strings.Join(s.Report.Months, ", "), len(s.Transactions))
	return s
}

// MappingDocument returns a document for the current selection and rules.
// A previously loaded document keeps its creation time.
func MappingDocument(s State, now time.Time) mapping.Document {
	doc := mapping.New(s.Selected, s.Mappings, now)
	if s.HasDocument {
		doc.CreatedAt = s.Document.CreatedAt
	}
	return doc
}
