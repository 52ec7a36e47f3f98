package formatter

import (
	"bytes"
	"time"

	"github.com/philipp01105/logsink/core"
)

// TableFormatter renders a finite sequence of records as an aligned
// table. Columns are the union of field keys across all records,
// ordered by first appearance; records missing a key render an empty
// cell. With IncludeMeta set, TIME, LEVEL, and MESSAGE lead the
// column set.
type TableFormatter struct {
	Config
	// IncludeMeta prepends TIME, LEVEL, and MESSAGE columns
	IncludeMeta bool
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(cfg Config) *TableFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339
	}
	return &TableFormatter{Config: cfg}
}

// Format renders a single record as a one-row table. It exists to
// satisfy the Formatter interface; table output is meant to be
// produced from a batch via FormatTable.
func (f *TableFormatter) Format(record *core.Record) ([]byte, error) {
	return f.FormatTable([]*core.Record{record}), nil
}

// FormatTable renders the records as a header row followed by one row
// per record. It never fails; unsupported values degrade through
// Field.StringValue.
func (f *TableFormatter) FormatTable(records []*core.Record) []byte {
	headers, rows := f.buildCells(records)
	if len(headers) == 0 {
		return nil
	}

	// Column widths fit the widest of header and cells
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	buf := getBuffer()
	defer putBuffer(buf)

	writeRow(buf, headers, widths)
	for _, row := range rows {
		writeRow(buf, row, widths)
	}

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result
}

// buildCells computes the first-seen column order and the escaped cell
// text for every record.
func (f *TableFormatter) buildCells(records []*core.Record) ([]string, [][]string) {
	var headers []string
	index := make(map[string]int)

	if f.IncludeMeta {
		headers = append(headers, "TIME", "LEVEL", "MESSAGE")
		index["TIME"], index["LEVEL"], index["MESSAGE"] = 0, 1, 2
	}

	for _, record := range records {
		for _, field := range record.Fields {
			if _, ok := index[field.Key]; !ok {
				index[field.Key] = len(headers)
				headers = append(headers, field.Key)
			}
		}
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := make([]string, len(headers))
		if f.IncludeMeta {
			row[0] = record.Time.Format(f.TimestampFormat)
			row[1] = record.Level.String()
			row[2] = escapeCell(record.Message)
		}
		for _, field := range record.Fields {
			row[index[field.Key]] = escapeCell(field.StringValue())
		}
		rows = append(rows, row)
	}

	return headers, rows
}

func escapeCell(s string) string {
	buf := getBuffer()
	defer putBuffer(buf)
	appendEscaped(buf, s)
	return buf.String()
}

func writeRow(buf *bytes.Buffer, cells []string, widths []int) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteString("  ")
		}
		buf.WriteString(cell)
		// No trailing padding on the last column
		if i < len(cells)-1 {
			for p := len(cell); p < widths[i]; p++ {
				buf.WriteByte(' ')
			}
		}
	}
	buf.WriteByte('\n')
}
