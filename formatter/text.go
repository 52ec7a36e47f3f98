package formatter

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/philipp01105/logsink/core"
)

// TextFormatter formats log records as human-readable text lines:
//
//	TIMESTAMP [LEVEL] message key1=val1 key2=val2
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339
	}
	return &TextFormatter{Config: cfg}
}

// Format formats a record as text
func (f *TextFormatter) Format(record *core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.formatToBuffer(record, buf)

	// Copy buffer content to return
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatTo formats a record and writes it directly to the writer
func (f *TextFormatter) FormatTo(record *core.Record, w io.Writer) error {
	buf := getBuffer()

	f.formatToBuffer(record, buf)

	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}

// pre-formatted level strings, right-padded so messages align across levels
var levelBrackets = [...]string{
	core.TraceLevel: " [TRACE] ",
	core.DebugLevel: " [DEBUG] ",
	core.InfoLevel:  " [INFO ] ",
	core.WarnLevel:  " [WARN ] ",
	core.ErrorLevel: " [ERROR] ",
}

// formatToBuffer writes the formatted record into the given buffer
func (f *TextFormatter) formatToBuffer(record *core.Record, buf *bytes.Buffer) {
	// Timestamp - use AppendFormat to avoid string allocation
	buf.Write(record.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))

	// Level - use pre-formatted padded string
	if int(record.Level) >= 0 && int(record.Level) < len(levelBrackets) {
		buf.WriteString(levelBrackets[record.Level])
	} else {
		buf.WriteString(" [?????] ")
	}

	// Caller info if enabled
	if f.IncludeCaller && record.Caller.Defined {
		buf.WriteByte('[')
		buf.WriteString(record.Caller.ShortFile)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(record.Caller.Line))
		buf.WriteString("] ")
	}

	// Message
	appendEscaped(buf, record.Message)

	// Fields - an empty field set leaves no trailing suffix
	for _, field := range record.Fields {
		buf.WriteByte(' ')
		appendEscaped(buf, field.Key)
		buf.WriteByte('=')
		appendFieldValue(buf, field)
	}

	buf.WriteByte('\n')
}

// appendFieldValue writes a field value, rendering nested groups as
// bracketed sub-lists.
func appendFieldValue(buf *bytes.Buffer, field core.Field) {
	switch field.Type {
	case core.GroupType:
		buf.WriteByte('[')
		for i, sub := range field.Group {
			if i > 0 {
				buf.WriteByte(' ')
			}
			appendEscaped(buf, sub.Key)
			buf.WriteByte('=')
			appendFieldValue(buf, sub)
		}
		buf.WriteByte(']')
	case core.IntType, core.Int64Type:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	case core.Float64Type:
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), field.Float64, 'f', -1, 64))
	case core.BoolType:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), field.Int64 == 1))
	default:
		appendEscaped(buf, field.StringValue())
	}
}
