package parser

import "testing"

func TestToGridFormula(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"SUM(A1:B3)*2", "sum(A0:B2)*2"},
		{"$A$1+B2", "A0+B1"},
		{"AVERAGE(C:C)", "avg(C)"},
		{"SUM(A:B)", "sum((A + B))"},
		{"AA1*2", "BA0*2"},
		{`A1&"x"`, `A0+"x"`},
	}

	for _, tt := range tests {
		result := ToGridFormula(tt.input)
		if result != tt.expected {
			t.Errorf("ToGridFormula(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestToExcelFormula(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"sum(A0:B2)*2", "SUM(A1:B3)*2"},
		{"A0:5", "A1:A6"},
		{"avg(B)", "AVERAGE(B:B)"},
		{"BA0+1", "AA1+1"},
		{"a0+1", "a0+1"},
	}

	for _, tt := range tests {
		result := ToExcelFormula(tt.input)
		if result != tt.expected {
			t.Errorf("ToExcelFormula(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}
