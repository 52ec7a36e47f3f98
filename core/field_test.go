package core

import (
	"errors"
	"testing"
	"time"
)

func TestField_StringValue(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"string", Field{Type: StringType, Str: "hello"}, "hello"},
		{"int", Field{Type: IntType, Int64: 42}, "42"},
		{"int64", Field{Type: Int64Type, Int64: -7}, "-7"},
		{"float", Field{Type: Float64Type, Float64: 3.25}, "3.25"},
		{"bool true", Field{Type: BoolType, Int64: 1}, "true"},
		{"bool false", Field{Type: BoolType, Int64: 0}, "false"},
		{"time", Field{Type: TimeType, Int64: ts.UnixNano()}, ts.Format(time.RFC3339)},
		{"duration", Field{Type: DurationType, Int64: int64(1500 * time.Millisecond)}, "1.5s"},
		{"error", Field{Type: ErrorType, Str: errors.New("boom").Error()}, "boom"},
		{"any", Field{Type: AnyType, Any: struct{ X int }{3}}, "{3}"},
		{"any nil", Field{Type: AnyType, Any: nil}, "<nil>"},
		{"unknown type", Field{Type: FieldType(200)}, "<unknown>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.StringValue(); got != tt.want {
				t.Errorf("StringValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestField_StringValue_Group(t *testing.T) {
	f := Field{
		Key:  "req",
		Type: GroupType,
		Group: []Field{
			{Key: "method", Type: StringType, Str: "GET"},
			{Key: "status", Type: IntType, Int64: 200},
		},
	}

	want := "[method=GET status=200]"
	if got := f.StringValue(); got != want {
		t.Errorf("StringValue() = %q, want %q", got, want)
	}
}

func TestField_StringValue_NestedGroup(t *testing.T) {
	f := Field{
		Key:  "outer",
		Type: GroupType,
		Group: []Field{
			{Key: "inner", Type: GroupType, Group: []Field{
				{Key: "a", Type: IntType, Int64: 1},
			}},
		},
	}

	want := "[inner=[a=1]]"
	if got := f.StringValue(); got != want {
		t.Errorf("StringValue() = %q, want %q", got, want)
	}
}

func TestField_StringValue_EmptyGroup(t *testing.T) {
	f := Field{Key: "g", Type: GroupType}
	if got := f.StringValue(); got != "[]" {
		t.Errorf("StringValue() = %q, want []", got)
	}
}
