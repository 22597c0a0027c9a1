package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/cleared-dev/splitbook/internal/mapping"
	"github.com/cleared-dev/splitbook/internal/model"
)

// updateDocument loads the mapping document (or starts a new one), applies
// fn and writes it back with a fresh lastUsed stamp. An existing file that
// does not parse is left untouched.
func (a *app) updateDocument(fn func(doc *mapping.Document)) (mapping.Document, error) {
	now := time.Now()
	doc := mapping.New(nil, nil, now)

	data, err := os.ReadFile(a.cfg.Mapping.File)
	switch {
	case err == nil:
		if doc, err = mapping.Parse(data); err != nil {
			return mapping.Document{}, fmt.Errorf("refusing to overwrite %s: %w", a.cfg.Mapping.File, err)
		}
	case !os.IsNotExist(err):
		return mapping.Document{}, fmt.Errorf("reading mapping document: %w", err)
	}
	fn(&doc)
	doc = mapping.Touch(doc, now)

	if errs := mapping.Validate(doc); len(errs) > 0 {
		return mapping.Document{}, fmt.Errorf("mapping document: %w", errs[0])
	}
	data, err = mapping.Marshal(doc)
	if err != nil {
		return mapping.Document{}, err
	}
	if err := os.WriteFile(a.cfg.Mapping.File, data, 0o644); err != nil {
		return mapping.Document{}, fmt.Errorf("writing mapping document: %w", err)
	}
	a.logger.Info("mapping document saved", "path", a.cfg.Mapping.File,
		"contributors", len(doc.Contributors), "rules", len(doc.Categories))
	return doc, nil
}

func addRule(doc *mapping.Document, m model.CategoryMapping) {
	doc.Categories = append(doc.Categories, mapping.FromMappings([]model.CategoryMapping{m})...)
}
