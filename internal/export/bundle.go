package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/cleared-dev/splitbook/internal/mapping"
	"github.com/cleared-dev/splitbook/internal/model"
	"github.com/cleared-dev/splitbook/internal/runlog"
)

// Granularity controls how transactions are split into files.
type Granularity string

const (
	ByMonth Granularity = "month"
	Whole   Granularity = "all"
)

// Valid reports whether g is a known granularity.
func (g Granularity) Valid() bool {
	return g == ByMonth || g == Whole
}

// Archive member names.
const (
	TransactionsDir = "transactions"
	MappingFile     = "mapping.json"
	LogFile         = "pipeline-log.csv"
	wholeRangeFile  = "all.csv"
)

// Bundle is everything written to an export archive.
type Bundle struct {
	Transactions []model.Transaction
	Document     mapping.Document
	Log          []runlog.Entry
	Granularity  Granularity
	Modified     time.Time // archive member timestamp
}

// TransactionFiles returns the CSV member names and contents for b, in
// archive order.
func TransactionFiles(b Bundle) ([]string, map[string][]model.Transaction) {
	if b.Granularity == Whole {
		name := path.Join(TransactionsDir, wholeRangeFile)
		return []string{name}, map[string][]model.Transaction{name: b.Transactions}
	}

	byMonth := SplitByMonth(b.Transactions)
	files := make(map[string][]model.Transaction, len(byMonth))
	var names []string
	for _, month := range sortedKeys(byMonth) {
		name := path.Join(TransactionsDir, month+".csv")
		names = append(names, name)
		files[name] = byMonth[month]
	}
	return names, files
}

// WriteBundle writes b to w as a ZIP archive.
func WriteBundle(w io.Writer, b Bundle) error {
	if b.Granularity == "" {
		b.Granularity = ByMonth
	}
	if !b.Granularity.Valid() {
		return fmt.Errorf("unknown granularity %q", b.Granularity)
	}

	zw := zip.NewWriter(w)

	create := func(name string) (io.Writer, error) {
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: b.Modified}
		f, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		return f, nil
	}

	names, files := TransactionFiles(b)
	for _, name := range names {
		f, err := create(name)
		if err != nil {
			return err
		}
		if err := WriteTransactions(f, files[name]); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	doc, err := mapping.Marshal(b.Document)
	if err != nil {
		return err
	}
	f, err := create(MappingFile)
	if err != nil {
		return err
	}
	if _, err := f.Write(doc); err != nil {
		return fmt.Errorf("writing %s: %w", MappingFile, err)
	}

	f, err = create(LogFile)
	if err != nil {
		return err
	}
	if err := runlog.Write(f, b.Log); err != nil {
		return fmt.Errorf("writing %s: %w", LogFile, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

// Contents is a bundle read back from an archive.
type Contents struct {
	Files    map[string]string // transaction member name -> CSV content
	Document mapping.Document
	HasDoc   bool
	Log      []runlog.Entry
}

// ReadBundle reads an archive written by WriteBundle. A missing or invalid
// mapping document is not an error.
func ReadBundle(r io.ReaderAt, size int64) (Contents, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Contents{}, fmt.Errorf("opening archive: %w", err)
	}

	c := Contents{Files: make(map[string]string)}
	for _, zf := range zr.File {
		data, err := readMember(zf)
		if err != nil {
			return Contents{}, err
		}
		switch {
		case zf.Name == MappingFile:
			doc, perr := mapping.Parse(data)
			if perr == nil {
				c.Document, c.HasDoc = doc, true
			}
		case zf.Name == LogFile:
			entries, lerr := runlog.Read(bytes.NewReader(data))
			if lerr != nil {
				return Contents{}, fmt.Errorf("reading %s: %w", LogFile, lerr)
			}
			c.Log = entries
		case path.Dir(zf.Name) == TransactionsDir && path.Ext(zf.Name) == ".csv":
			c.Files[zf.Name] = string(data)
		}
	}
	return c, nil
}

func readMember(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", zf.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", zf.Name, err)
	}
	return data, nil
}
