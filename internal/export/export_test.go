package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/splitbook/internal/importer"
	"github.com/cleared-dev/splitbook/internal/mapping"
	"github.com/cleared-dev/splitbook/internal/model"
	"github.com/cleared-dev/splitbook/internal/runlog"
)

func testTxns() []model.Transaction {
	return []model.Transaction{
		{
			ID: "may.csv-0", Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
			Amount: decimal.RequireFromString("1200.50"), Name: "ALEX EXAMPLE", Title: "Salary share",
			Reference: "00123", Balance: "1200,50", Currency: "EUR", Source: "may.csv",
			Contributor: "Alex",
		},
		{
			ID: "may.csv-1", Date: time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC),
			Amount: decimal.RequireFromString("-42.10"), Name: "K-Market", Title: "K-Market; Kamppi",
			Currency: "EUR", Source: "may.csv", Category: "Groceries", Duplicate: true,
		},
		{
			ID: "june.csv-0", Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Amount: decimal.RequireFromString("-800"), Name: "Landlord Oy", Title: "Rent June",
			Currency: "EUR", Source: "june.csv", Category: "Rent",
		},
	}
}

func TestWriteTransactions_Reingestible(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, testTxns()))

	got, err := importer.Ingest(buf.String(), "export.csv")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "export.csv-1", got[1].ID)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("1200.50")))
	assert.Equal(t, "K-Market; Kamppi", got[1].Title)
	assert.Equal(t, "00123", got[0].Reference)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got[2].Date)
}

func TestWriteTransactions_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, nil))

	first := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, strings.Join(Header(), ";"), first)
	assert.True(t, strings.HasSuffix(first, "Category;Contributor;Duplicate"))
}

func TestReadTransactions_RestoresAnnotations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, testTxns()))

	got, err := ReadTransactions(buf.String(), "export.csv")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Alex", got[0].Contributor)
	assert.Equal(t, "Groceries", got[1].Category)
	assert.True(t, got[1].Duplicate)
	assert.False(t, got[2].Duplicate)
	assert.Equal(t, "Rent", got[2].Category)
}

func TestReadTransactions_EmptyLineKeepsAnnotationsAligned(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, testTxns()))
	lines := strings.SplitAfter(buf.String(), "\n")
	content := lines[0] + lines[1] + "\n" + strings.Join(lines[2:], "")

	got, err := ReadTransactions(content, "export.csv")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "export.csv-2", got[1].ID)
	assert.Equal(t, "Groceries", got[1].Category)
	assert.True(t, got[1].Duplicate)
	assert.Equal(t, "Rent", got[2].Category)
}

func TestReadTransactions_PlainStatement(t *testing.T) {
	content := strings.Join(importer.Columns, ";") + "\n2024/5/1;10,00;;;A;T;;;;EUR\n"
	got, err := ReadTransactions(content, "plain.csv")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Category)
}

func TestSplitByMonth(t *testing.T) {
	got := SplitByMonth(testTxns())
	assert.Len(t, got, 2)
	assert.Len(t, got["2024-05"], 2)
	assert.Equal(t, "Rent June", got["2024-06"][0].Title)
}

func testBundle(g Granularity) Bundle {
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	doc := mapping.New([]string{"Alex"}, []model.CategoryMapping{
		{Pattern: "K-Market", Category: "Groceries", MatchType: model.MatchContains},
	}, now)
	return Bundle{
		Transactions: testTxns(),
		Document:     doc,
		Log:          []runlog.Entry{{Timestamp: now, RunID: "r1", Stage: "report", Action: "export", Count: 3}},
		Granularity:  g,
		Modified:     now,
	}
}

func TestBundle_ByMonth(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBundle(&buf, testBundle(ByMonth)))

	c, err := ReadBundle(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Len(t, c.Files, 2)
	assert.Contains(t, c.Files, "transactions/2024-05.csv")
	assert.Contains(t, c.Files, "transactions/2024-06.csv")
	require.True(t, c.HasDoc)
	assert.Equal(t, []string{"Alex"}, c.Document.Contributors)
	require.Len(t, c.Log, 1)
	assert.Equal(t, "export", c.Log[0].Action)

	may, err := ReadTransactions(c.Files["transactions/2024-05.csv"], "2024-05.csv")
	require.NoError(t, err)
	assert.Len(t, may, 2)
}

func TestBundle_Whole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBundle(&buf, testBundle(Whole)))

	c, err := ReadBundle(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, c.Files, 1)
	all, err := ReadTransactions(c.Files["transactions/all.csv"], "all.csv")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBundle_DefaultAndInvalidGranularity(t *testing.T) {
	names, _ := TransactionFiles(testBundle(ByMonth))
	assert.Equal(t, []string{"transactions/2024-05.csv", "transactions/2024-06.csv"}, names)

	var buf bytes.Buffer
	assert.NoError(t, WriteBundle(&buf, testBundle("")))
	assert.Error(t, WriteBundle(&bytes.Buffer{}, testBundle("weekly")))
}

func TestReadBundle_NotZip(t *testing.T) {
	data := []byte("plain text")
	_, err := ReadBundle(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}
