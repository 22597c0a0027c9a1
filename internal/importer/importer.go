package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/splitbook/internal/model"
)

// Parser converts a bank statement into Transactions.
type Parser interface {
	Parse(r io.Reader, source string) ([]model.Transaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&StatementParser{})
	return r
}

// File is one uploaded statement.
type File struct {
	Label   string
	Content string
}

// FileInfo describes a CSV file found on disk.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns the CSV files directly inside dir, sorted by name.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// ReadFile loads a statement from disk, labelled with its base name.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return File{Label: filepath.Base(path), Content: string(data)}, nil
}

// Options tunes IngestMany.
type Options struct {
	// Concurrency > 1 parses up to that many files at once.
	Concurrency int
	// OnFile is called after each file is parsed, from the parsing goroutine.
	OnFile      func(label string, count int)
	// Parser reads each file. Nil uses the built-in statement parser.
	Parser      Parser
}

// Option mutates Options.
type Option func(*Options)

// WithConcurrency parses up to n files in parallel.
func WithConcurrency(n int) Option {
	return func(o *Options) { o.Concurrency = n }
}

// WithParser parses every file with p.
func WithParser(p Parser) Option {
	return func(o *Options) { o.Parser = p }
}

// WithProgress registers a per-file callback.
func WithProgress(fn func(label string, count int)) Option {
	return func(o *Options) { o.OnFile = fn }
}

// IngestMany parses every file and returns the combined transactions sorted
// by date. Ties keep file order, then in-file order. The first failing file
// (in input order) aborts the whole batch.
func IngestMany(files []File, opts ...Option) ([]model.Transaction, error) {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	if o.Parser == nil {
		o.Parser = &StatementParser{}
	}

	results := make([][]model.Transaction, len(files))
	errs := make([]error, len(files))

	parse := func(i int) {
		txns, err := o.Parser.Parse(strings.NewReader(files[i].Content), files[i].Label)
		results[i], errs[i] = txns, err
		if err == nil && o.OnFile != nil {
			o.OnFile(files[i].Label, len(txns))
		}
	}

	if o.Concurrency > 1 {
		var g errgroup.Group
		g.SetLimit(o.Concurrency)
		for i := range files {
			i := i
			g.Go(func() error {
				parse(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range files {
			parse(i)
			if errs[i] != nil {
				break
			}
		}
	}

	var all []model.Transaction
	for i := range files {
		if errs[i] != nil {
			return nil, errs[i]
		}
		all = append(all, results[i]...)
	}

	sort.SliceStable(all, func(a, b int) bool {
		return all[a].Date.Before(all[b].Date)
	})
	return all, nil
}
