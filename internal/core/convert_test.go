package core

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// ----------------------------------------------------------------------------
// ParseNumber Tests
// ----------------------------------------------------------------------------

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"integer", "123", 123, true},
		{"negative", "-456", -456, true},
		{"decimal", "123.45", 123.45, true},
		{"leading point", ".99", 0.99, true},
		{"currency and thousands", "$1,234.56", 1234.56, true},
		{"euro", "€99", 99, true},
		{"accounting negative", "(500.00)", -500, true},
		{"scientific", "1.5e3", 1500, true},
		{"empty", "", 0, false},
		{"whitespace", "   ", 0, false},
		{"letters", "abc", 0, false},
		{"mixed", "12abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ParseDate Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		input  string
		want   time.Time
		wantOK bool
	}{
		{"2024-01-15", day(2024, 1, 15), true},
		{"2024/01/15", day(2024, 1, 15), true},
		{"1/15/2024", day(2024, 1, 15), true},
		{"01/15/2024", day(2024, 1, 15), true},
		{"Jan 15, 2024", day(2024, 1, 15), true},
		{"20240115", day(2024, 1, 15), true},
		{"2024-01-15T10:30:00Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"2024-13-45", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "T", "yes", "Y", "1"} {
		if v, ok := ParseBool(s); !ok || !v {
			t.Errorf("ParseBool(%q) = %v, %v, want true, true", s, v, ok)
		}
	}
	for _, s := range []string{"false", "no", "0"} {
		if v, ok := ParseBool(s); !ok || v {
			t.Errorf("ParseBool(%q) = %v, %v, want false, true", s, v, ok)
		}
	}
	if _, ok := ParseBool("maybe"); ok {
		t.Error("ParseBool(maybe) ok = true")
	}
}

// ----------------------------------------------------------------------------
// Stringify Tests
// ----------------------------------------------------------------------------

func TestStringify(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"large float in plain notation", 1e21, "1000000000000000000000"},
		{"float shortest form", 2.675, "2.675"},
		{"whole float", 42.0, "42"},
		{"int", 7, "7"},
		{"decimal", decimal.RequireFromString("1.50"), "1.5"},
		{"time as date", time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC), "2024-03-09"},
		{"zero time", time.Time{}, ""},
		{"bool", true, "true"},
		{"NaN", math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.input); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`  hello  `, "hello"},
		{`="00123"`, "00123"},
		{`=SUM`, "SUM"},
		{`"quoted"`, "quoted"},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
