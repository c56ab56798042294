package core

import "testing"

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{"overlapping", NewRect(0, 0, 36, 36), NewRect(18, 18, 36, 36), true},
		{"touching right edge", NewRect(0, 0, 36, 36), NewRect(36, 0, 36, 36), false},
		{"touching bottom edge", NewRect(0, 0, 36, 36), NewRect(0, 36, 36, 36), false},
		{"one pixel into tile", NewRect(0, 1, 36, 36), NewRect(0, 36, 36, 36), true},
		{"far apart", NewRect(0, 0, 10, 10), NewRect(100, 100, 10, 10), false},
		{"contained spike", NewRect(0, 0, 36, 36), NewRect(4, 27, 28, 9), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectEdgeSetters(t *testing.T) {
	r := NewRect(10, 10, 36, 36)

	r.SetRight(72)
	if r.X != 36 || r.Right() != 72 {
		t.Errorf("SetRight(72) left X=%d Right=%d", r.X, r.Right())
	}

	r.SetBottom(108)
	if r.Y != 72 || r.Bottom() != 108 {
		t.Errorf("SetBottom(108) left Y=%d Bottom=%d", r.Y, r.Bottom())
	}

	cx, cy := r.Center()
	if cx != 54 || cy != 90 {
		t.Errorf("Center() = (%d, %d), expected (54, 90)", cx, cy)
	}
	if !r.Contains(36, 72) || r.Contains(72, 108) {
		t.Error("Contains() should include the top-left and exclude the bottom-right corner")
	}
}

func TestRoundHalfEven(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.5, 0},
		{1.5, 2},
		{2.5, 2},
		{-0.5, 0},
		{-1.5, -2},
		{10.49, 10},
		{10.51, 11},
	}
	for _, tc := range tests {
		if got := RoundHalfEven(tc.in); got != tc.want {
			t.Errorf("RoundHalfEven(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{35.9, 0},
		{36, 1},
		{-0.1, -1},
		{-36, -1},
		{-36.1, -2},
	}
	for _, tc := range tests {
		if got := FloorDiv(tc.in, 36); got != tc.want {
			t.Errorf("FloorDiv(%v, 36) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestVecArithmetic(t *testing.T) {
	v := Vec{X: 1, Y: 2}.Add(Vec{X: 3, Y: 4}).Sub(Vec{X: 1, Y: 1}).Scale(0.5)
	if v != (Vec{X: 1.5, Y: 2.5}) {
		t.Errorf("unexpected vector %+v", v)
	}
}

func TestClampAndSign(t *testing.T) {
	if Clamp(15, 0, 10) != 10 || Clamp(-5, 0, 10) != 0 || Clamp(5, 0, 10) != 5 {
		t.Error("Clamp returned a value outside the range")
	}
	if ClampF(11.5, -11, 11) != 11 || ClampF(-12, -11, 11) != -11 {
		t.Error("ClampF returned a value outside the range")
	}
	if Sign(-3) != -1 || Sign(0) != 0 || Sign(0.1) != 1 {
		t.Error("Sign returned an unexpected value")
	}
}
