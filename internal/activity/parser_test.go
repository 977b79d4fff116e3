package activity

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"vehlog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ScenarioTwoRecords(t *testing.T) {
	input := "2024-01-01T10:00,alice,0994-123,ACME,TR1,TRA1\n2024-01-01T11:00,bob,,,TR2,VS-ACME"

	records, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.Record{
		Timestamp: "2024-01-01T10:00", User: "alice", VRID: "0994-123",
		SCAC: "ACME", Tractor: "TR1", Trailer: "TRA1",
	}, records[0])
	assert.Equal(t, "bob", records[1].User)
	assert.Equal(t, "", records[1].VRID)
	assert.Equal(t, "VS-ACME", records[1].Trailer)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t\n"} {
		records, err := Parse(in)
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.NotNil(t, records)
	}
}

func TestParse_SeparatorChosenPerLine(t *testing.T) {
	input := strings.Join([]string{
		"2024-01-01\talice\tV1\tACME",
		"2024-01-02;bob;V2;XYZ",
		"2024-01-03,carol,V3",
	}, "\n")

	records, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "alice", records[0].User)
	assert.Equal(t, "ACME", records[0].SCAC)
	assert.Equal(t, "XYZ", records[1].SCAC)
	assert.Equal(t, "carol", records[2].User)
}

func TestParse_TabWinsOverComma(t *testing.T) {
	records, err := Parse("2024-01-01\tsmith, john\tV1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "smith, john", records[0].User)
}

func TestParse_QuotedFieldSplitBySeparator(t *testing.T) {
	records, err := Parse(`2024-01-01,"alice, smith",V1,ACME`)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice smith", records[0].User)
	assert.Equal(t, "V1", records[0].VRID)
	assert.Equal(t, "ACME", records[0].SCAC)
}

func TestParse_FullyQuotedTokensPairUp(t *testing.T) {
	var row rowBuilder
	for _, token := range splitLine(`"2024-01-01","bob","V2","ACME"`) {
		row.feed(token)
	}
	require.True(t, row.complete())
	assert.Equal(t, []string{`"2024-01-01" "bob"`, `"V2" "ACME"`}, row.take())

	records, err := Parse(`"2024-01-01","bob","V2","ACME"`)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParse_OddQuotedTokenCarriesToNextLine(t *testing.T) {
	records, err := Parse("2024-01-01,\"bob\",V2\nx\",V3,ACME,TR1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.Record{Timestamp: "2024-01-01", User: "bob V2 x", VRID: "V3", SCAC: "ACME", Tractor: "TR1"}, records[0])
}

func TestParse_QuoteSpansLines(t *testing.T) {
	input := "2024-01-01,\"multi\nline\",V3,ACME\n2024-01-02,dave,V4"

	records, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "multi line", records[0].User)
	assert.Equal(t, "V3", records[0].VRID)
	assert.Equal(t, "dave", records[1].User)
}

func TestParse_UnclosedQuoteDropsTrailingRow(t *testing.T) {
	input := "2024-01-01,alice,V1\n2024-01-02,\"bob,V2"

	records, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].User)
}

func TestParse_SkipsShortAndEmptyRows(t *testing.T) {
	input := strings.Join([]string{
		"only,two",
		"singlefield",
		",,,ACME,TR1,TL1",
		"2024-01-01,alice,V1",
	}, "\n")

	records, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.Record{Timestamp: "2024-01-01", User: "alice", VRID: "V1"}, records[0])
}

func TestParse_TrimsAndStripsResidualQuotes(t *testing.T) {
	records, err := Parse(`  2024-01-01 , al"ice ,  V1 ,a"b,  TR1 , TL1  `)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].User)
	assert.Equal(t, "ab", records[0].SCAC)
	assert.Equal(t, "TL1", records[0].Trailer)
}

func TestParse_CRLFLines(t *testing.T) {
	records, err := Parse("2024-01-01,alice,V1\r\n2024-01-02,bob,V2\r\n")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "V1", records[0].VRID)
}

func TestParse_RoundTripWithExport(t *testing.T) {
	records := []models.Record{
		{Timestamp: "2024-01-01 10:00:00", User: "alice", VRID: "0994-1", SCAC: "ACME", Tractor: "ABC12345", Trailer: "TL1234"},
		{Timestamp: "2024-01-01 11:00:00", User: "bob", VRID: "", SCAC: "", Tractor: "", Trailer: "VSACME"},
		{Timestamp: "not a date", User: "carol", VRID: "X1", SCAC: "XY", Tractor: "T1", Trailer: ""},
	}

	for _, sep := range []string{",", ";", "\t"} {
		parsed, err := Parse(Export(records, sep))
		require.NoError(t, err)
		assert.Equal(t, records, parsed, "separator %q", sep)
	}
}

func TestReadSource_RejectsUnsupportedFormat(t *testing.T) {
	_, err := ReadSource(strings.NewReader("a,b,c"), "data.xlsx")

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Equal(t, "data.xlsx", inputErr.Source)
}

func TestReadSource_NilReader(t *testing.T) {
	_, err := ReadSource(nil, "data.csv")
	assert.True(t, errors.Is(err, ErrNoContent))
}

func TestReadSource_ReadsContent(t *testing.T) {
	src, err := ReadSource(strings.NewReader("2024-01-01,alice,V1"), "/tmp/in/Data.CSV")
	require.NoError(t, err)
	assert.Equal(t, "Data.CSV", src.Name)
	assert.Equal(t, int64(19), src.Size)
	assert.Equal(t, "2024-01-01,alice,V1", src.Content)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("2024-01-01;alice;V1\n"), 0644))

	src, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "log.txt", src.Name)
	assert.False(t, src.ModTime.IsZero())

	records, err := Parse(src.Content)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile("")
	assert.True(t, errors.Is(err, ErrNoContent))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Line: 3, Err: errors.New("boom")}
	assert.Equal(t, "parse error at line 3: boom", err.Error())
	assert.Equal(t, "boom", errors.Unwrap(err).Error())
}

func TestFileStats(t *testing.T) {
	stats := FileStats([]models.Record{
		{Timestamp: "t1", User: "a", VRID: "V1"},
		{Timestamp: "t2", User: "b", VRID: "V1"},
		{VRID: "V2"},
		{SCAC: "ACME"},
	})
	assert.Equal(t, models.FileStats{TotalRows: 4, ValidRows: 3, EmptyRows: 1, Duplicates: 1}, stats)
	assert.Equal(t, models.FileStats{}, FileStats(nil))
}
