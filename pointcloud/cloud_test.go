package pointcloud

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/gator/noise"
)

var unitBox = Box{Min: Point{-4, -4, -4}, Max: Point{4, 4, 4}}

func TestScatterBounds(t *testing.T) {
	c := New()
	c.Scatter(500, unitBox, 1)
	require.Equal(t, 500, c.Len())

	for _, r := range c.Records() {
		assert.GreaterOrEqual(t, r.X, -4.0)
		assert.Less(t, r.X, 4.0)
		assert.GreaterOrEqual(t, r.Y, -4.0)
		assert.Less(t, r.Y, 4.0)
		assert.GreaterOrEqual(t, r.Z, -4.0)
		assert.Less(t, r.Z, 4.0)
	}
}

func TestScatterDeterministic(t *testing.T) {
	a, b := New(), New()
	a.Scatter(100, unitBox, 7)
	b.Scatter(100, unitBox, 7)
	assert.Equal(t, a.Records(), b.Records())
}

func TestAddAssignsCell(t *testing.T) {
	c := New()
	c.Add(Point{-0.5, 2.25, 9.99})

	recs := c.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, int32(-1), recs[0].CellX)
	assert.Equal(t, int32(2), recs[0].CellY)
	assert.Equal(t, int32(9), recs[0].CellZ)
}

func TestEvaluateMatchesNoise(t *testing.T) {
	c := New()
	c.Scatter(2000, unitBox, 3)

	s := noise.NewAlligatorSampler(0)
	c.Evaluate(s, 4)

	for _, r := range c.Records() {
		want := noise.Evaluate(noise.Vec3{X: r.X, Y: r.Y, Z: r.Z})
		require.Equal(t, want, r.Density, "point %d", r.ID)
	}
}

func TestEvaluateIndependentOfWorkers(t *testing.T) {
	s := noise.NewAlligatorSampler(11)

	serial := New()
	serial.Scatter(1500, unitBox, 5)
	serial.Evaluate(s, 1)

	parallel := New()
	parallel.Scatter(1500, unitBox, 5)
	parallel.Evaluate(s, 6)

	assert.Equal(t, serial.Densities(), parallel.Densities())
}

func TestClear(t *testing.T) {
	c := New()
	e := c.Add(Point{1, 2, 3})
	c.Scatter(50, unitBox, 1)
	c.Clear()

	assert.Zero(t, c.Len())
	assert.Empty(t, c.Records())
	assert.False(t, c.world.Alive(e), "cleared entity still alive")

	// Evaluating an empty cloud is a no-op.
	c.Evaluate(noise.NewAlligatorSampler(0), 2)
}

func TestScatterClearCycles(t *testing.T) {
	c := New()
	var first []ecs.Entity
	for i := 0; i < 3; i++ {
		c.Scatter(200, unitBox, int64(i))
		if i == 0 {
			query := c.filter.Query()
			for query.Next() {
				first = append(first, query.Entity())
			}
		}
		require.Equal(t, 200, c.Len())
		require.Len(t, c.Records(), 200)
		c.Clear()
	}

	for _, e := range first {
		assert.False(t, c.world.Alive(e))
	}

	c.Scatter(10, unitBox, 9)
	c.Evaluate(noise.NewAlligatorSampler(0), 2)
	assert.Len(t, c.Densities(), 10)
}

func TestRecordIDsSequential(t *testing.T) {
	c := New()
	c.Scatter(10, unitBox, 2)
	for i, r := range c.Records() {
		assert.Equal(t, i, r.ID)
	}
}
