// Package pointcloud scatters sample points into an ECS world and attaches
// a noise density to each of them.
package pointcloud

import (
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gator/noise"
)

// parallelThreshold is the minimum point count to evaluate in parallel.
const parallelThreshold = 256

// Sampler is the noise source evaluated per point.
type Sampler interface {
	Eval(p noise.Vec3) float64
}

// snapshot captures read-only state for parallel evaluation.
type snapshot struct {
	Entity ecs.Entity
	Pos    noise.Vec3
}

// Cloud is a set of points stored as ECS entities.
type Cloud struct {
	world  *ecs.World
	mapper *ecs.Map3[Point, Density, Cell]
	filter *ecs.Filter3[Point, Density, Cell]
	dens   *ecs.Map1[Density]

	count     int
	snapshots []snapshot
	results   []float64
}

// New creates an empty cloud.
func New() *Cloud {
	world := ecs.NewWorld()
	return &Cloud{
		world:  world,
		mapper: ecs.NewMap3[Point, Density, Cell](world),
		filter: ecs.NewFilter3[Point, Density, Cell](world),
		dens:   ecs.NewMap1[Density](world),
	}
}

// Len returns the number of points.
func (c *Cloud) Len() int {
	return c.count
}

// Add inserts a single point and returns its entity.
func (c *Cloud) Add(p Point) ecs.Entity {
	cell := Cell{
		X: int32(math.Floor(p.X)),
		Y: int32(math.Floor(p.Y)),
		Z: int32(math.Floor(p.Z)),
	}
	c.count++
	return c.mapper.NewEntity(&p, &Density{}, &cell)
}

// Scatter adds n points uniformly distributed in bounds. The same seed
// always produces the same points.
func (c *Cloud) Scatter(n int, bounds Box, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	size := bounds.Size()
	for i := 0; i < n; i++ {
		c.Add(Point{
			X: bounds.Min.X + rng.Float64()*size.X,
			Y: bounds.Min.Y + rng.Float64()*size.Y,
			Z: bounds.Min.Z + rng.Float64()*size.Z,
		})
	}
}

// Clear removes every point.
func (c *Cloud) Clear() {
	var toRemove []ecs.Entity
	query := c.filter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		c.world.RemoveEntity(e)
	}
	c.count = 0
}

// Evaluate computes the density of every point with s using up to workers
// goroutines (<= 0 uses GOMAXPROCS). Results are applied in query order on
// the calling goroutine.
func (c *Cloud) Evaluate(s Sampler, workers int) {
	// Phase A: snapshot positions (single-threaded)
	c.snapshots = c.snapshots[:0]
	query := c.filter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		c.snapshots = append(c.snapshots, snapshot{
			Entity: query.Entity(),
			Pos:    noise.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z},
		})
	}

	n := len(c.snapshots)
	if n == 0 {
		return
	}
	if cap(c.results) < n {
		c.results = make([]float64, n)
	}
	c.results = c.results[:n]

	// Phase B: compute
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if n < parallelThreshold || workers == 1 {
		c.computeChunk(s, 0, n)
	} else {
		chunkSize := (n + workers - 1) / workers
		var wg sync.WaitGroup
		for start := 0; start < n; start += chunkSize {
			end := min(start+chunkSize, n)
			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				c.computeChunk(s, start, end)
			}(start, end)
		}
		wg.Wait()
	}

	// Phase C: apply
	for i, snap := range c.snapshots {
		d := c.dens.Get(snap.Entity)
		if d == nil {
			continue
		}
		d.Value = c.results[i]
		d.Evaluated = true
	}
}

func (c *Cloud) computeChunk(s Sampler, start, end int) {
	for i := start; i < end; i++ {
		c.results[i] = s.Eval(c.snapshots[i].Pos)
	}
}

// Densities returns the density of every point in query order.
func (c *Cloud) Densities() []float64 {
	out := make([]float64, 0, c.count)
	query := c.filter.Query()
	for query.Next() {
		_, d, _ := query.Get()
		out = append(out, d.Value)
	}
	return out
}

// Records flattens the cloud for export.
func (c *Cloud) Records() []PointRecord {
	out := make([]PointRecord, 0, c.count)
	query := c.filter.Query()
	for query.Next() {
		p, d, cell := query.Get()
		out = append(out, PointRecord{
			ID:      len(out),
			X:       p.X,
			Y:       p.Y,
			Z:       p.Z,
			CellX:   cell.X,
			CellY:   cell.Y,
			CellZ:   cell.Z,
			Density: d.Value,
		})
	}
	return out
}
