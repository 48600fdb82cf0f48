package telemetry

import (
	"log/slog"
	"math"
	"time"
)

// Phase names for a generation run or a preview frame.
const (
	PhaseSample         = "sample"
	PhaseScatter        = "scatter"
	PhaseEvaluatePoints = "evaluate_points"
	PhaseEncode         = "encode"
	PhaseWrite          = "write"
)

// phases is the fixed reporting order.
var phases = []string{PhaseSample, PhaseScatter, PhaseEvaluatePoints, PhaseEncode, PhaseWrite}

// PerfSample holds timing data for a single run.
type PerfSample struct {
	Duration time.Duration
	Phases   map[string]time.Duration
}

// PerfCollector tracks phase timings over a rolling window of runs.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	runStart      time.Time
	phaseStart    time.Time
	lastPhase     string
	samplesPerRun int
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of runs to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// Start begins timing a new run.
func (p *PerfCollector) Start() {
	p.runStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// SetSamplesPerRun records how many noise evaluations a run performs,
// used for the per-sample cost.
func (p *PerfCollector) SetSamplesPerRun(n int) {
	p.samplesPerRun = n
}

// End finishes timing the current run and records the sample.
func (p *PerfCollector) End() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		Duration: now.Sub(p.runStart),
		Phases:   p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.lastPhase = ""
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgDuration time.Duration
	MinDuration time.Duration
	MaxDuration time.Duration

	// Phase breakdown (average durations) and share of the run
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Average sampling cost per noise evaluation
	NsPerSample float64
	Runs        int
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total, minDur, maxDur time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.Duration
		if i == 0 || s.Duration < minDur {
			minDur = s.Duration
		}
		if s.Duration > maxDur {
			maxDur = s.Duration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var nsPerSample float64
	if p.samplesPerRun > 0 {
		nsPerSample = float64(phaseAvg[PhaseSample]) / float64(p.samplesPerRun)
	}

	return PerfStats{
		AvgDuration: avg,
		MinDuration: minDur,
		MaxDuration: maxDur,
		PhaseAvg:    phaseAvg,
		PhasePct:    phasePct,
		NsPerSample: nsPerSample,
		Runs:        p.sampleCount,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"runs", s.Runs,
		"avg_us", s.AvgDuration.Microseconds(),
		"min_us", s.MinDuration.Microseconds(),
		"max_us", s.MaxDuration.Microseconds(),
		"ns_per_sample", s.NsPerSample,
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", math.Round(pct*10)/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Runs              int     `csv:"runs"`
	AvgUS             int64   `csv:"avg_us"`
	MinUS             int64   `csv:"min_us"`
	MaxUS             int64   `csv:"max_us"`
	NsPerSample       float64 `csv:"ns_per_sample"`
	SamplePct         float64 `csv:"sample_pct"`
	ScatterPct        float64 `csv:"scatter_pct"`
	EvaluatePointsPct float64 `csv:"evaluate_points_pct"`
	EncodePct         float64 `csv:"encode_pct"`
	WritePct          float64 `csv:"write_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV() PerfStatsCSV {
	return PerfStatsCSV{
		Runs:              s.Runs,
		AvgUS:             s.AvgDuration.Microseconds(),
		MinUS:             s.MinDuration.Microseconds(),
		MaxUS:             s.MaxDuration.Microseconds(),
		NsPerSample:       s.NsPerSample,
		SamplePct:         s.PhasePct[PhaseSample],
		ScatterPct:        s.PhasePct[PhaseScatter],
		EvaluatePointsPct: s.PhasePct[PhaseEvaluatePoints],
		EncodePct:         s.PhasePct[PhaseEncode],
		WritePct:          s.PhasePct[PhaseWrite],
	}
}
