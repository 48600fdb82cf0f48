package field

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum row count to use the workers.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 16

// workChunk is a range of rows (y + z*H) for a worker to fill.
type workChunk struct {
	f          *Field
	region     Region
	eval       Evaluator
	start, end int
}

// Pool fills fields with persistent worker goroutines. A Pool is driven by
// one goroutine at a time.
type Pool struct {
	numWorkers int

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// NewPool creates a pool with n workers; n <= 0 uses GOMAXPROCS.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: n}
}

// Workers returns the worker count.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// Start launches the worker goroutines. Fill calls it on demand.
func (p *Pool) Start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop signals all workers to exit and waits for them.
func (p *Pool) Stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			fillRows(chunk)
			p.doneChan <- struct{}{}
		}
	}
}

// Fill samples eval over region into every voxel of f. The result does not
// depend on the number of workers.
func (p *Pool) Fill(f *Field, region Region, eval Evaluator) {
	rows := f.H * f.D
	if rows == 0 || f.W == 0 {
		return
	}

	if rows < parallelThreshold || p.numWorkers == 1 {
		fillRows(workChunk{f: f, region: region, eval: eval, start: 0, end: rows})
		return
	}

	p.Start()

	chunkSize := (rows + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > rows {
			end = rows
		}
		if start >= end {
			continue
		}
		p.workChan <- workChunk{f: f, region: region, eval: eval, start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// fillRows evaluates rows [start, end) of chunk.f. Rows are disjoint between
// chunks so no locking is needed.
func fillRows(c workChunk) {
	f, r := c.f, c.region
	for row := c.start; row < c.end; row++ {
		y := row % f.H
		z := row / f.H
		pz := float32(r.Origin.Z + float64(z)*r.Spacing.Z)
		py := float32(r.Origin.Y + float64(y)*r.Spacing.Y)
		base := row * f.W
		for x := 0; x < f.W; x++ {
			px := float32(r.Origin.X + float64(x)*r.Spacing.X)
			f.Data[base+x] = c.eval.Eval32(px, py, pz)
		}
	}
}
