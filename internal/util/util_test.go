package util

import "testing"

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no quotes", "hello", "hello"},
		{"double quoted", `"hello"`, "hello"},
		{"single quotes only", "'hello'", "'hello'"},
		{"quotes in middle", `he"llo`, `he"llo`},
		{"only quotes", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TrimQuotes(tt.input)
			if result != tt.expected {
				t.Errorf("TrimQuotes(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFixEscapeQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no escaped quotes", "hello", "hello"},
		{"single escaped quote", `he""llo`, `he"llo`},
		{"multiple escaped quotes", `a""b""c`, `a"b"c`},
		{"consecutive escaped", `a""""b`, `a""b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FixEscapeQuotes(tt.input)
			if result != tt.expected {
				t.Errorf("FixEscapeQuotes(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCleanArg(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Supra", "Supra"},
		{"quoted with spaces", `  "GT-R Nismo"  `, "GT-R Nismo"},
		{"escaped inner quotes", `"{""weight"":""1,350""}"`, `{"weight":"1,350"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanArg(tt.input)
			if result != tt.expected {
				t.Errorf("CleanArg(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFirstInt(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{"bare", "1350", 1350, true},
		{"with unit", "Weight 1350 kg", 1350, true},
		{"first of many", "52:48", 52, true},
		{"no digits", "kg", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstInt(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FirstInt(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFirstSignedDecimal(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"negative decimal", "-0.25", -0.25, true},
		{"positive decimal", "G 1.45", 1.45, true},
		{"integer fallback", "-1", -1, true},
		{"decimal preferred over earlier integer", "2 then 0.5", 0.5, true},
		{"none", "n/a", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstSignedDecimal(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FirstSignedDecimal(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFirstDecimal(t *testing.T) {
	if got, ok := FirstDecimal("45.6 kgfm"); !ok || got != 45.6 {
		t.Errorf("FirstDecimal = (%v, %v), want (45.6, true)", got, ok)
	}
	if got, ok := FirstDecimal("3 ratio"); !ok || got != 3 {
		t.Errorf("FirstDecimal = (%v, %v), want (3, true)", got, ok)
	}
	if _, ok := FirstStrictDecimal("PP 600"); ok {
		t.Error("FirstStrictDecimal should require a fraction")
	}
}

func TestStripThousands(t *testing.T) {
	if got := StripThousands("8,500 rpm"); got != "8500 rpm" {
		t.Errorf("StripThousands = %q", got)
	}
}
