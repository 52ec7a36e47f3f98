package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/valyala/fastjson"

	"github.com/philipp01105/logsink/core"
)

func TestJSONFormatter_ParsesBack(t *testing.T) {
	f := NewJSONFormatter(Config{})

	record := &core.Record{
		Time:    time.Date(2026, 2, 18, 13, 0, 0, 0, time.UTC),
		Level:   core.WarnLevel,
		Message: "json test",
		Fields: []core.Field{
			{Key: "count", Type: core.IntType, Int64: 7},
			{Key: "ratio", Type: core.Float64Type, Float64: 0.5},
			{Key: "ok", Type: core.BoolType, Int64: 1},
			{Key: "name", Type: core.StringType, Str: "with \"quotes\" and\nnewline"},
		},
	}

	result, err := f.Format(record)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	v, err := fastjson.ParseBytes(result)
	if err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, result)
	}

	if got := string(v.GetStringBytes("level")); got != "WARN" {
		t.Errorf("level = %q, want WARN", got)
	}
	if got := string(v.GetStringBytes("message")); got != "json test" {
		t.Errorf("message = %q", got)
	}
	if got := v.GetInt64("count"); got != 7 {
		t.Errorf("count = %d, want 7", got)
	}
	if got := v.GetFloat64("ratio"); got != 0.5 {
		t.Errorf("ratio = %v, want 0.5", got)
	}
	if !v.GetBool("ok") {
		t.Error("ok = false, want true")
	}
	if got := string(v.GetStringBytes("name")); got != "with \"quotes\" and\nnewline" {
		t.Errorf("name = %q", got)
	}
}

func TestJSONFormatter_GroupNests(t *testing.T) {
	f := NewJSONFormatter(Config{})

	record := &core.Record{
		Time:    time.Now(),
		Level:   core.InfoLevel,
		Message: "nested",
		Fields: []core.Field{
			{Key: "http", Type: core.GroupType, Group: []core.Field{
				{Key: "status", Type: core.IntType, Int64: 200},
				{Key: "path", Type: core.StringType, Str: "/x"},
			}},
		},
	}

	result, _ := f.Format(record)
	v, err := fastjson.ParseBytes(result)
	if err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, result)
	}

	if got := v.GetInt64("http", "status"); got != 200 {
		t.Errorf("http.status = %d, want 200", got)
	}
	if got := string(v.GetStringBytes("http", "path")); got != "/x" {
		t.Errorf("http.path = %q, want /x", got)
	}
}

func TestJSONFormatter_OneObjectPerLine(t *testing.T) {
	f := NewJSONFormatter(Config{})

	record := &core.Record{
		Time:    time.Now(),
		Level:   core.InfoLevel,
		Message: "multi\nline",
	}

	result, _ := f.Format(record)
	output := string(result)
	if strings.Count(output, "\n") != 1 || !strings.HasSuffix(output, "\n") {
		t.Errorf("expected single newline-terminated object, got %q", output)
	}
}

func TestJSONFormatter_WithCaller(t *testing.T) {
	f := NewJSONFormatter(Config{IncludeCaller: true})

	record := &core.Record{
		Time:    time.Now(),
		Level:   core.ErrorLevel,
		Message: "boom",
		Caller: core.CallerInfo{
			ShortFile: "file.go",
			Line:      42,
			Function:  "pkg.fn",
			Defined:   true,
		},
	}

	result, _ := f.Format(record)
	v, err := fastjson.ParseBytes(result)
	if err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, result)
	}

	if got := v.GetInt("caller", "line"); got != 42 {
		t.Errorf("caller.line = %d, want 42", got)
	}
}
