package core

import (
	"testing"
	"time"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevel_Ordering(t *testing.T) {
	if !(TraceLevel < DebugLevel && DebugLevel < InfoLevel && InfoLevel < WarnLevel && WarnLevel < ErrorLevel) {
		t.Error("levels are not strictly ordered")
	}
}

func TestGetRecord_CapturesTime(t *testing.T) {
	// The bound tolerates the coarse clock cache interval when another
	// test in the package has started it.
	before := time.Now().Add(-10 * time.Millisecond)
	r := GetRecord()
	after := time.Now()
	defer PutRecord(r)

	if r.Time.Before(before) || r.Time.After(after) {
		t.Errorf("GetRecord() time %v outside [%v, %v]", r.Time, before, after)
	}
	if len(r.Fields) != 0 {
		t.Errorf("GetRecord() returned record with %d fields", len(r.Fields))
	}
}

func TestPutRecord_Resets(t *testing.T) {
	r := GetRecord()
	r.Message = "hello"
	r.Fields = append(r.Fields, Field{Key: "k", Type: StringType, Str: "v"})
	PutRecord(r)

	r2 := GetRecord()
	defer PutRecord(r2)
	if r2.Message != "" {
		t.Errorf("pooled record kept message %q", r2.Message)
	}
	if len(r2.Fields) != 0 {
		t.Errorf("pooled record kept %d fields", len(r2.Fields))
	}
}

func TestPutRecord_Nil(t *testing.T) {
	PutRecord(nil) // must not panic
}

func TestRecord_Clone(t *testing.T) {
	r := GetRecord()
	r.Level = WarnLevel
	r.Message = "original"
	r.Fields = append(r.Fields, Field{Key: "a", Type: IntType, Int64: 1})

	c := r.Clone()
	PutRecord(r)

	if c.Message != "original" || c.Level != WarnLevel {
		t.Errorf("clone lost data: %+v", c)
	}
	if len(c.Fields) != 1 || c.Fields[0].Key != "a" {
		t.Errorf("clone lost fields: %+v", c.Fields)
	}
}

func TestGetCaller(t *testing.T) {
	info := GetCaller(1)
	if !info.Defined {
		t.Fatal("GetCaller(1) returned undefined caller")
	}
	if info.ShortFile != "record_test.go" {
		t.Errorf("ShortFile = %q, want record_test.go", info.ShortFile)
	}
	if info.Line <= 0 {
		t.Errorf("Line = %d, want > 0", info.Line)
	}
}
