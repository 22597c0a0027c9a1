// Package mapping reads and writes the portable JSON document that carries
// contributor selection and category rules between sessions.
package mapping

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cleared-dev/splitbook/internal/model"
)

// CurrentVersion is the only document version understood.
const CurrentVersion = 1

// Rule is one serialized category mapping.
type Rule struct {
	Pattern   string          `json:"pattern"`
	Category  string          `json:"category"`
	MatchType model.MatchType `json:"matchType"`
}

// Document is the mapping file.
type Document struct {
	Version      int      `json:"version"`
	Contributors []string `json:"contributors"`
	Categories   []Rule   `json:"categories"`
	CreatedAt    string   `json:"createdAt"`
	LastUsed     string   `json:"lastUsed"`
}

// ValidationError describes one problem with a document.
type ValidationError struct {
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// New creates a document stamped with now for both timestamps.
func New(contributors []string, mappings []model.CategoryMapping, now time.Time) Document {
	ts := stamp(now)
	return Document{
		Version:      CurrentVersion,
		Contributors: append([]string{}, contributors...),
		Categories:   FromMappings(mappings),
		CreatedAt:    ts,
		LastUsed:     ts,
	}
}

// Touch returns a copy of doc with LastUsed set to now.
func Touch(doc Document, now time.Time) Document {
	doc.Contributors = append([]string{}, doc.Contributors...)
	doc.Categories = append([]Rule{}, doc.Categories...)
	doc.LastUsed = stamp(now)
	return doc
}

// FromMappings converts category mappings to serialized rules.
func FromMappings(mappings []model.CategoryMapping) []Rule {
	rules := make([]Rule, 0, len(mappings))
	for _, m := range mappings {
		rules = append(rules, Rule{Pattern: m.Pattern, Category: m.Category, MatchType: m.MatchType})
	}
	return rules
}

// Mappings returns the document's rules as category mappings.
func Mappings(doc Document) []model.CategoryMapping {
	out := make([]model.CategoryMapping, 0, len(doc.Categories))
	for _, r := range doc.Categories {
		out = append(out, model.CategoryMapping{Pattern: r.Pattern, Category: r.Category, MatchType: r.MatchType})
	}
	return out
}

// Marshal encodes doc as indented JSON.
func Marshal(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling mapping document: %w", err)
	}
	return append(data, '\n'), nil
}

// Parse decodes and validates a document. The first validation problem is
// returned as the error.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parsing mapping document: %w", err)
	}
	if errs := Validate(doc); len(errs) > 0 {
		return Document{}, fmt.Errorf("invalid mapping document: %w", errs[0])
	}
	return doc, nil
}

// Validate reports every problem found in doc.
func Validate(doc Document) []ValidationError {
	var errs []ValidationError

	if doc.Version != CurrentVersion {
		errs = append(errs, ValidationError{
			Field:       "version",
			Description: fmt.Sprintf("unsupported version %d", doc.Version),
		})
	}
	for _, f := range []struct{ name, value string }{
		{"createdAt", doc.CreatedAt},
		{"lastUsed", doc.LastUsed},
	} {
		if _, err := time.Parse(time.RFC3339, f.value); err != nil {
			errs = append(errs, ValidationError{Field: f.name, Description: fmt.Sprintf("not an RFC 3339 timestamp: %q", f.value)})
		}
	}
	for i, c := range doc.Contributors {
		if c == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("contributors[%d]", i), Description: "empty name"})
		}
	}
	for i, r := range doc.Categories {
		field := fmt.Sprintf("categories[%d]", i)
		if r.Pattern == "" {
			errs = append(errs, ValidationError{Field: field, Description: "empty pattern"})
		}
		if r.Category == "" {
			errs = append(errs, ValidationError{Field: field, Description: "empty category"})
		}
		if !r.MatchType.Valid() {
			errs = append(errs, ValidationError{Field: field, Description: fmt.Sprintf("unknown match type %q", r.MatchType)})
		}
	}
	return errs
}

// Load parses data leniently. A malformed document is logged and reported
// as absent so an optional file never blocks the caller.
func Load(data []byte, logger *slog.Logger) (Document, bool) {
	doc, err := Parse(data)
	if err != nil {
		logger.Warn("ignoring mapping document", "error", err)
		return Document{}, false
	}
	return doc, true
}
