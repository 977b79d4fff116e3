package activity

import (
	"fmt"
	"io"
	"strings"
	"vehlog/internal/models"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/xuri/excelize/v2"
)

// DefaultSeparator is used by Export when no separator is given.
const DefaultSeparator = ","

var exportHeader = []string{"Data UTC", "User ID", "VRID", "SCAC", "TRAKTOR", "TRAILER"}

// ParseSeparator resolves a separator given by symbol or by name. Only the
// separators Parse detects are accepted. Empty means DefaultSeparator.
func ParseSeparator(s string) (string, error) {
	switch strings.ToLower(s) {
	case "":
		return DefaultSeparator, nil
	case ",", "comma":
		return ",", nil
	case ";", "semicolon":
		return ";", nil
	case "\t", `\t`, "tab":
		return "\t", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedSeparator, s)
}

// Export renders records as a header line plus one line per record.
// An empty collection renders as the empty string.
func Export(records []models.Record, sep string) string {
	if len(records) == 0 {
		return ""
	}
	if sep == "" {
		sep = DefaultSeparator
	}
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(exportHeader, sep))
	for _, r := range records {
		lines = append(lines, strings.Join(r.Values(), sep))
	}
	return strings.Join(lines, "\n")
}

// WriteXLSX writes a workbook with every record on the ALL sheet and one
// sheet per category.
func WriteXLSX(w io.Writer, all []models.Record, buckets models.CategorizedBuckets) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "ALL"); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, "ALL", all); err != nil {
		return err
	}
	for _, c := range models.Categories {
		name := string(c)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, buckets.Get(c)); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, records []models.Record) error {
	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header on %s: %w", sheet, err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Timestamp, r.User, r.VRID, r.SCAC, r.Tractor, r.Trailer}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

// TextDiff renders a line diff of the exported forms of a and b. Lines are
// prefixed with "-" (only in a), "+" (only in b) or a space.
func TextDiff(a, b []models.Record) string {
	textA := exportLines(a)
	textB := exportLines(b)

	dmp := diffmatchpatch.New()
	charsA, charsB, lines := dmp.DiffLinesToChars(textA, textB)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
		}
	}
	return out.String()
}

func exportLines(records []models.Record) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(strings.Join(r.Values(), DefaultSeparator))
		b.WriteByte('\n')
	}
	return b.String()
}
