package arena

import (
	"math"
	"testing"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vector{3, 4}
	b := Vector{1, -2}

	if got := a.Add(b); got != (Vector{4, 2}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vector{2, 6}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(0.5); got != (Vector{1.5, 2}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("Dot = %v", got)
	}
	if a != (Vector{3, 4}) {
		t.Error("operations must not mutate the receiver")
	}
}

func TestVectorNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vector
		want Vector
	}{
		{"zero", Vector{0, 0}, Vector{0, 0}},
		{"axis", Vector{-7, 0}, Vector{-1, 0}},
		{"pythagorean", Vector{3, 4}, Vector{0.6, 0.8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVectorReflect(t *testing.T) {
	v := Vector{1, -1}

	got := v.Reflect(Vector{0, 1})
	if got != (Vector{1, 1}) {
		t.Errorf("reflect across floor normal = %v, want (1,1)", got)
	}

	if got := v.Reflect(Vector{}); got != v {
		t.Errorf("reflect across zero normal = %v, want unchanged", got)
	}

	n := Vector{1, 2}.Normalize()
	r := Vector{0.3, -0.9}.Reflect(n)
	if math.Abs(r.Len()-Vector{0.3, -0.9}.Len()) > 1e-12 {
		t.Errorf("reflection changed magnitude: %v", r.Len())
	}
}

func TestHeadingIsUnit(t *testing.T) {
	for _, theta := range []float64{0, 0.5, math.Pi, 4.2, 2*math.Pi - 1e-9} {
		if l := Heading(theta).Len(); math.Abs(l-1) > 1e-12 {
			t.Errorf("Heading(%v) has length %v", theta, l)
		}
	}
}
