package fixed

import (
	"math"
	"testing"
)

func TestFixedPoint_FromFloat64(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"zero", 0.0, "0"},
		{"positive", 123.45, "123.45"},
		{"negative", -67.89, "-67.89"},
		{"small decimal", 0.0001, "0.0001"},
		{"negative small", -0.00123, "-0.00123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromFloat64(tt.value)
			if err != nil {
				t.Fatalf("FromFloat64(%f) failed: %v", tt.value, err)
			}
			if got.String() != tt.want {
				t.Errorf("FromFloat64(%f) = %s; want %s", tt.value, got.String(), tt.want)
			}
		})
	}
}

func TestFixedPoint_FromFloat64Invalid(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := FromFloat64(v); err == nil {
			t.Errorf("FromFloat64(%f) expected error", v)
		}
	}
}

func TestFixedPoint_Significant(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		digits int
		want   string
	}{
		{"small", 0.012345, 3, "0.0123"},
		{"keeps integer digits", 1234.5, 3, "1234"},
		{"exact", 7.5, 3, "7.5"},
		{"negative", -0.9876, 2, "-0.99"},
		{"zero", 0, 3, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FromFloat64(tt.value)
			if err != nil {
				t.Fatalf("FromFloat64(%f) failed: %v", tt.value, err)
			}
			if got := p.Significant(tt.digits).String(); got != tt.want {
				t.Errorf("Significant(%f, %d) = %s; want %s", tt.value, tt.digits, got, tt.want)
			}
		})
	}
}
