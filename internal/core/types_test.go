package core

import (
	"testing"
)

// ============================================================================
// Display Formatting Tests
// ============================================================================

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"rfc3339", "2024-03-07T00:00:00Z", "7/03/2024"},
		{"plain date", "2024-03-07", "7/03/2024"},
		{"two digit day", "2024-11-21", "21/11/2024"},
		{"non-date passes through", "hello", "hello"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.in); got != tt.want {
				t.Errorf("FormatDate(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"whole float stays integer", float64(42), "42"},
		{"fractional float", 1.5, "1.5"},
		{"int", 7, "7"},
		{"int64", int64(-3), "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.in); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"numeric not lexicographic", float64(9), float64(10), -1},
		{"numeric equal", float64(5), 5, 0},
		{"dates chronological", "2024-01-02", "2024-02-01", -1},
		{"strings lexicographic", "apple", "banana", -1},
		{"mixed falls back to strings", "zzz", float64(1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// ============================================================================
// Record Tests
// ============================================================================

func TestRecordBool(t *testing.T) {
	rec := Record{
		"numOn":  float64(1),
		"numOff": float64(0),
		"strOn":  "1",
		"strTru": "true",
		"boolOn": true,
		"other":  "yes",
	}

	for key, want := range map[string]bool{
		"numOn": true, "numOff": false,
		"strOn": true, "strTru": true,
		"boolOn": true, "other": false,
		"missing": false,
	} {
		if got := rec.Bool(key); got != want {
			t.Errorf("Bool(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestRecordClone(t *testing.T) {
	rec := Record{"a": "1"}
	dup := rec.Clone()
	dup["a"] = "2"

	if rec.String("a") != "1" {
		t.Error("Clone should not share storage with the original")
	}
}

func TestFieldSpecRecordKey(t *testing.T) {
	plain := FieldSpec{Key: "tpName"}
	if got := plain.RecordKey(); got != "tpName" {
		t.Errorf("RecordKey() = %q, want %q", got, "tpName")
	}

	mapped := FieldSpec{Key: "state", PayloadKey: "tpState"}
	if got := mapped.RecordKey(); got != "tpState" {
		t.Errorf("RecordKey() = %q, want %q", got, "tpState")
	}
}
