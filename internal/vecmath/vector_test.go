package vecmath

import (
	"math"
	"testing"
)

func TestVector_Arithmetic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, 5, 6)

	if got := a.Add(b); got != New(5, 7, 9) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != New(3, 3, 3) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != New(2, 4, 6) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := a.AddScaled(b, 0.5); got != New(3, 4.5, 6) {
		t.Errorf("AddScaled failed: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
	if got := a.Invert(); got != New(-1, -2, -3) {
		t.Errorf("Invert failed: got %v", got)
	}
}

func TestVector_Normalize(t *testing.T) {
	tests := []struct {
		name string
		v    Vector3
		want Vector3
	}{
		{"axis", New(0, 5, 0), Up},
		{"3-4-0", New(3, 4, 0), New(0.6, 0.8, 0)},
		{"zero", Zero, Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Normalize()
			if got.Sub(tt.want).Magnitude() > 1e-12 {
				t.Errorf("Normalize(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestVector_IsValid(t *testing.T) {
	if !New(1, 2, 3).IsValid() {
		t.Error("finite vector reported invalid")
	}
	if New(math.NaN(), 0, 0).IsValid() {
		t.Error("NaN vector reported valid")
	}
	if New(0, math.Inf(-1), 0).IsValid() {
		t.Error("Inf vector reported valid")
	}
}
