package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTransactionID(t *testing.T) {
	tests := []struct {
		source string
		row    int
		want   string
	}{
		{"may.csv", 0, "may.csv-0"},
		{"statement-2024-05.csv", 12, "statement-2024-05.csv-12"},
		{"a", 999, "a-999"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTransactionID(tt.source, tt.row))
	}
}

func TestParseTransactionID(t *testing.T) {
	tests := []struct {
		id     string
		source string
		row    int
	}{
		{"may.csv-0", "may.csv", 0},
		{"statement-2024-05.csv-12", "statement-2024-05.csv", 12},
	}
	for _, tt := range tests {
		source, row, err := ParseTransactionID(tt.id)
		require.NoError(t, err, "ParseTransactionID(%q)", tt.id)
		assert.Equal(t, tt.source, source)
		assert.Equal(t, tt.row, row)
	}
}

func TestParseTransactionID_Invalid(t *testing.T) {
	for _, bad := range []string{"", "nodash", "-3", "file-", "file-x"} {
		_, _, err := ParseTransactionID(bad)
		assert.Error(t, err, "ParseTransactionID(%q) should fail", bad)
	}
}

func TestTransactionIDRoundTrip(t *testing.T) {
	for row := 0; row < 5; row++ {
		source, got, err := ParseTransactionID(FormatTransactionID("x-y.csv", row))
		require.NoError(t, err)
		assert.Equal(t, "x-y.csv", source)
		assert.Equal(t, row, got)
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}
