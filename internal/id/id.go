package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FormatTransactionID returns a transaction ID like "may.csv-12".
// row is the 0-based index over all data rows of the source file.
func FormatTransactionID(source string, row int) string {
	return fmt.Sprintf("%s-%d", source, row)
}

// ParseTransactionID splits "may.csv-12" into its source label and row.
// The source label may itself contain dashes; the row is after the last one.
func ParseTransactionID(id string) (source string, row int, err error) {
	i := strings.LastIndex(id, "-")
	if i <= 0 || i == len(id)-1 {
		return "", 0, fmt.Errorf("invalid transaction ID format: %q", id)
	}

	row, err = strconv.Atoi(id[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid row in transaction ID %q: %w", id, err)
	}
	if row < 0 {
		return "", 0, fmt.Errorf("negative row in transaction ID %q", id)
	}
	return id[:i], row, nil
}

// NewRunID returns a random identifier for one pipeline run.
func NewRunID() string {
	return uuid.NewString()
}
