package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHdg2Dir(t *testing.T) {
	tests := []struct {
		hdg  float64
		want Vec2
	}{
		{0, Vec2{X: 0, Y: 1}},
		{90, Vec2{X: 1, Y: 0}},
		{180, Vec2{X: 0, Y: -1}},
		{270, Vec2{X: -1, Y: 0}},
		{45, Vec2{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}},
	}
	for _, tc := range tests {
		got := Hdg2Dir(tc.hdg)
		assert.InDelta(t, tc.want.X, got.X, 1e-12, "hdg %v X", tc.hdg)
		assert.InDelta(t, tc.want.Y, got.Y, 1e-12, "hdg %v Y", tc.hdg)
	}
}

func TestDir2HdgRoundtrip(t *testing.T) {
	for hdg := 0.0; hdg < 360; hdg += 7.5 {
		assert.InDelta(t, hdg, Dir2Hdg(Hdg2Dir(hdg)), 1e-9)
	}
}

func TestNormalizeHdg(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeHdg(360))
	assert.Equal(t, 350.0, NormalizeHdg(-10))
	assert.Equal(t, 10.0, NormalizeHdg(730))
	assert.Equal(t, 0.0, NormalizeHdg(0))
}

func TestRelHdg(t *testing.T) {
	assert.Equal(t, 10.0, RelHdg(350, 0))
	assert.Equal(t, -10.0, RelHdg(0, 350))
	assert.Equal(t, 180.0, RelHdg(0, 180))
	assert.Equal(t, 90.0, RelHdg(45, 135))
	assert.Equal(t, -90.0, RelHdg(135, 45))
}

func TestPerp(t *testing.T) {
	north := Vec2{X: 0, Y: 1}
	right := Perp(north, true)
	left := Perp(north, false)
	assert.InDelta(t, 1, right.X, 1e-12)
	assert.InDelta(t, 0, right.Y, 1e-12)
	assert.InDelta(t, -1, left.X, 1e-12)
	assert.InDelta(t, 0, left.Y, 1e-12)
}

func TestRotMatchesHeadingComposition(t *testing.T) {
	for _, h := range []float64{0, 30, 117, 255} {
		for _, a := range []float64{15, 90, -45} {
			got := Rot(Hdg2Dir(h), a)
			want := Hdg2Dir(h + a)
			assert.InDelta(t, want.X, got.X, 1e-9)
			assert.InDelta(t, want.Y, got.Y, 1e-9)
		}
	}
}

func TestSetAbs(t *testing.T) {
	v := SetAbs(Vec2{X: 3, Y: 4}, 10)
	assert.InDelta(t, 6, v.X, 1e-12)
	assert.InDelta(t, 8, v.Y, 1e-12)

	zero := SetAbs(Vec2{}, 5)
	assert.Equal(t, Vec2{}, zero)
}

func TestIsect(t *testing.T) {
	// Perpendicular crossing at (1, 1).
	p := Isect(Vec2{X: 2, Y: 0}, Vec2{X: 0, Y: 1}, Vec2{X: 0, Y: 2}, Vec2{X: 1, Y: 0}, false)
	require.False(t, IsNullVec2(p))
	assert.InDelta(t, 1, p.X, 1e-12)
	assert.InDelta(t, 1, p.Y, 1e-12)

	// Parallel lines never meet.
	p = Isect(Vec2{X: 1, Y: 0}, Vec2{}, Vec2{X: 2, Y: 0}, Vec2{X: 0, Y: 1}, false)
	assert.True(t, IsNullVec2(p))

	// Confined: the crossing lies beyond the first segment's extent.
	p = Isect(Vec2{X: 0.5, Y: 0}, Vec2{X: 0, Y: 1}, Vec2{X: 0, Y: 2}, Vec2{X: 1, Y: 0}, true)
	assert.True(t, IsNullVec2(p))

	// Same rays unconfined do meet.
	p = Isect(Vec2{X: 0.5, Y: 0}, Vec2{X: 0, Y: 1}, Vec2{X: 0, Y: 2}, Vec2{X: 1, Y: 0}, false)
	assert.False(t, IsNullVec2(p))
}

func TestIsOnArc(t *testing.T) {
	// Clockwise from 350 to 20 wraps through north.
	assert.True(t, IsOnArc(0, 350, 20, true))
	assert.True(t, IsOnArc(15, 350, 20, true))
	assert.False(t, IsOnArc(180, 350, 20, true))

	// Counterclockwise swaps the endpoints.
	assert.True(t, IsOnArc(0, 20, 350, false))
	assert.False(t, IsOnArc(90, 20, 350, false))

	assert.True(t, IsOnArc(45, 0, 90, true))
	assert.False(t, IsOnArc(45, 90, 0, true))
}

func TestVec2Eq(t *testing.T) {
	assert.True(t, Vec2Eq(Vec2{X: 1, Y: 2}, Vec2{X: 1 + 1e-9, Y: 2}, 1e-6))
	assert.False(t, Vec2Eq(Vec2{X: 1, Y: 2}, Vec2{X: 1.1, Y: 2}, 1e-6))
}

func TestNullVec2(t *testing.T) {
	assert.True(t, IsNullVec2(NullVec2))
	assert.False(t, IsNullVec2(Vec2{}))
}

func TestArcPoints(t *testing.T) {
	c := Vec2{X: 50, Y: 0}
	p0 := Vec2{X: 0, Y: 0}
	pts := ArcPoints(c, p0, 90, 5)
	require.GreaterOrEqual(t, len(pts), 2)

	// Both endpoints are included and every sample stays on the circle.
	assert.InDelta(t, 0, Dist(pts[0], p0), 1e-9)
	end := pts[len(pts)-1]
	assert.InDelta(t, 50, end.X, 1e-9)
	assert.InDelta(t, 50, end.Y, 1e-9)
	for _, p := range pts {
		assert.InDelta(t, 50, Dist(p, c), 1e-9)
	}
}
