package math

import (
	"math"
	"testing"
)

func TestVec2Sub(t *testing.T) {
	got := Vec2{356012.5, 5645100}.Sub(Vec2{356000, 5645000})
	if want := (Vec2{12.5, 100}); got != want {
		t.Errorf("Vec2.Sub() = %v, want %v", got, want)
	}
}

func TestVec3XY(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got := v.XY(); got != (Vec2{1, 2}) {
		t.Errorf("Vec3.XY() = %v", got)
	}
	if got := v.Add(Vec3{1, 1, 1}); got != (Vec3{2, 3, 4}) {
		t.Errorf("Vec3.Add() = %v", got)
	}
}

func TestVec3Sub(t *testing.T) {
	a := Vec3{700621.5, 9311966.25, 12}
	b := Vec3{700600, 9311900, 2}
	got := a.Sub(b)
	want := Vec3{21.5, 66.25, 10}
	if got != want {
		t.Errorf("Vec3.Sub() = %v, want %v", got, want)
	}
}

func TestVec3IsFinite(t *testing.T) {
	tests := []struct {
		v    Vec3
		want bool
	}{
		{Vec3{1, 2, 3}, true},
		{Vec3{math.NaN(), 0, 0}, false},
		{Vec3{0, math.Inf(1), 0}, false},
		{Vec3{0, 0, math.Inf(-1)}, false},
	}
	for _, tc := range tests {
		if got := tc.v.IsFinite(); got != tc.want {
			t.Errorf("%v.IsFinite() = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestBounds3Extend(t *testing.T) {
	b := EmptyBounds3()
	if !b.IsEmpty() {
		t.Fatal("EmptyBounds3 should be empty")
	}

	b = b.Extend(Vec3{0, 4, 1}).Extend(Vec3{10, 0, -2})
	if b.IsEmpty() {
		t.Fatal("extended bounds should not be empty")
	}
	if b.Width() != 10 || b.Height() != 4 || b.Depth() != 3 {
		t.Errorf("extent = %v x %v x %v, want 10 x 4 x 3", b.Width(), b.Height(), b.Depth())
	}
	if c := b.Center(); c != (Vec3{5, 2, -0.5}) {
		t.Errorf("Center() = %v", c)
	}
}
