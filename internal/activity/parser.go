package activity

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"vehlog/internal/models"
)

var supportedFormats = []string{".csv", ".txt"}

type parseState int

const (
	stateNormal parseState = iota
	stateInQuotes
)

// rowBuilder accumulates the fields of one logical row. Quoted values split
// by a separator are joined back with single spaces, even across lines.
type rowBuilder struct {
	state  parseState
	quoted []string
	fields []string
}

func (b *rowBuilder) feed(token string) {
	switch b.state {
	case stateNormal:
		if !strings.HasPrefix(token, `"`) {
			b.fields = append(b.fields, token)
			return
		}
		// An opening token never closes itself: "abc" keeps the quote open
		// until a later token ends with one.
		b.state = stateInQuotes
		b.quoted = []string{token[1:]}
	case stateInQuotes:
		if !strings.HasSuffix(token, `"`) {
			b.quoted = append(b.quoted, token)
			return
		}
		b.quoted = append(b.quoted, token[:len(token)-1])
		b.fields = append(b.fields, `"`+strings.Join(b.quoted, " ")+`"`)
		b.quoted = nil
		b.state = stateNormal
	}
}

// complete reports whether a full row is waiting to be taken.
func (b *rowBuilder) complete() bool {
	return b.state == stateNormal && len(b.fields) > 0
}

func (b *rowBuilder) take() []string {
	fields := b.fields
	b.fields = nil
	return fields
}

// splitLine picks one separator per line: tab, then comma, then semicolon.
// A line without any of them is a single field. Detection is per line, so a
// file mixing commas and semicolons yields rows of different shapes.
func splitLine(line string) []string {
	var tokens []string
	switch {
	case strings.Contains(line, "\t"):
		tokens = strings.Split(line, "\t")
	case strings.Contains(line, ","):
		tokens = strings.Split(line, ",")
	case strings.Contains(line, ";"):
		tokens = strings.Split(line, ";")
	default:
		tokens = []string{line}
	}
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}
	return tokens
}

func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.ReplaceAll(strings.TrimSpace(fields[i]), `"`, "")
}

func toRecord(fields []string) (models.Record, bool) {
	if len(fields) < 3 {
		return models.Record{}, false
	}
	rec := models.Record{
		Timestamp: field(fields, 0),
		User:      field(fields, 1),
		VRID:      field(fields, 2),
		SCAC:      field(fields, 3),
		Tractor:   field(fields, 4),
		Trailer:   field(fields, 5),
	}
	if rec.Timestamp == "" && rec.User == "" && rec.VRID == "" {
		return models.Record{}, false
	}
	if isHeader(rec) {
		return models.Record{}, false
	}
	return rec, true
}

func isHeader(rec models.Record) bool {
	return strings.EqualFold(rec.Timestamp, exportHeader[0]) &&
		strings.EqualFold(rec.User, exportHeader[1]) &&
		strings.EqualFold(rec.VRID, exportHeader[2])
}

// Parse turns delimited text into records. Blank input yields no records.
// Rows with fewer than three fields, or without timestamp, user and VRID,
// are skipped.
func Parse(content string) (records []models.Record, err error) {
	lineNo := 0
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = &ParseError{Line: lineNo, Err: fmt.Errorf("%v", r)}
		}
	}()

	records = make([]models.Record, 0)
	if strings.TrimSpace(content) == "" {
		return records, nil
	}

	var row rowBuilder
	for i, line := range strings.Split(content, "\n") {
		lineNo = i + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, token := range splitLine(line) {
			row.feed(token)
		}
		if !row.complete() {
			continue
		}
		if rec, ok := toRecord(row.take()); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// ReadSource reads the whole stream into a Source. Only .csv and .txt names
// are accepted.
func ReadSource(r io.Reader, name string) (*models.Source, error) {
	if r == nil {
		return nil, &InputError{Source: name, Err: ErrNoContent}
	}
	if !IsSupportedFormat(name) {
		return nil, &InputError{Source: name, Err: ErrUnsupportedFormat}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &InputError{Source: name, Err: err}
	}
	return &models.Source{
		Content: string(data),
		Name:    filepath.Base(name),
		Size:    int64(len(data)),
	}, nil
}

// LoadFile reads a .csv or .txt file from disk.
func LoadFile(path string) (*models.Source, error) {
	if path == "" {
		return nil, &InputError{Err: ErrNoContent}
	}
	if !IsSupportedFormat(path) {
		return nil, &InputError{Source: path, Err: ErrUnsupportedFormat}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Source: path, Err: err}
	}
	defer f.Close()

	src, err := ReadSource(f, path)
	if err != nil {
		return nil, err
	}
	if info, err := f.Stat(); err == nil {
		src.ModTime = info.ModTime()
	}
	return src, nil
}

func IsSupportedFormat(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, f := range supportedFormats {
		if ext == f {
			return true
		}
	}
	return false
}

// FileStats counts rows carrying at least one identifying field and VRIDs
// that appear more than once.
func FileStats(records []models.Record) models.FileStats {
	stats := models.FileStats{TotalRows: len(records)}
	seen := make(map[string]struct{}, len(records))
	vrids := 0
	for _, r := range records {
		if r.Timestamp != "" || r.User != "" || r.VRID != "" {
			stats.ValidRows++
		}
		if r.VRID != "" {
			vrids++
			seen[r.VRID] = struct{}{}
		}
	}
	stats.EmptyRows = stats.TotalRows - stats.ValidRows
	stats.Duplicates = vrids - len(seen)
	return stats
}
