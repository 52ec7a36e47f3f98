package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldType represents the type of a field value
type FieldType uint8

const (
	StringType FieldType = iota
	IntType
	Int64Type
	Float64Type
	BoolType
	TimeType
	DurationType
	ErrorType
	GroupType
	AnyType
)

// Field represents a key-value pair for structured logging
type Field struct {
	Key     string
	Type    FieldType
	Int64   int64
	Float64 float64
	Str     string
	Group   []Field
	Any     interface{}
}

// StringValue returns the string representation of a field's value.
// It never fails; values of an unknown type render as a placeholder
// token so a broken field can never break a log line.
func (f Field) StringValue() string {
	switch f.Type {
	case StringType:
		return f.Str
	case IntType, Int64Type:
		return strconv.FormatInt(f.Int64, 10)
	case Float64Type:
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case BoolType:
		return strconv.FormatBool(f.Int64 == 1)
	case TimeType:
		return time.Unix(0, f.Int64).Format(time.RFC3339)
	case DurationType:
		return time.Duration(f.Int64).String()
	case ErrorType:
		return f.Str
	case GroupType:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, sub := range f.Group {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(sub.Key)
			sb.WriteByte('=')
			sb.WriteString(sub.StringValue())
		}
		sb.WriteByte(']')
		return sb.String()
	case AnyType:
		if f.Any == nil {
			return "<nil>"
		}
		return fmt.Sprintf("%v", f.Any)
	default:
		return "<unknown>"
	}
}
