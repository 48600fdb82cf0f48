package telemetry

import (
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gator/noise"
)

// Summary holds distribution statistics for a set of noise samples.
type Summary struct {
	Source string  `csv:"source"`
	Count  int     `csv:"count"`
	Mean   float64 `csv:"mean"`
	Std    float64 `csv:"std"`
	Min    float64 `csv:"min"`
	Max    float64 `csv:"max"`
	P10    float64 `csv:"p10"`
	P50    float64 `csv:"p50"`
	P90    float64 `csv:"p90"`
	Zeros  int     `csv:"zeros"` // Samples exactly 0 (no competing contributions)
}

// Summarize computes distribution statistics. The input is not modified.
// An empty slice returns a zero Summary with only Source set.
func Summarize(source string, values []float64) Summary {
	s := Summary{Source: source, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	if math.IsNaN(s.Std) {
		s.Std = 0
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	s.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	s.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	for _, v := range sorted {
		if v == 0 {
			s.Zeros++
		}
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", s.Source),
		slog.Int("count", s.Count),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("p10", s.P10),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
		slog.Int("zeros", s.Zeros),
	)
}

// LogStats logs the summary using slog.
func (s Summary) LogStats() {
	slog.Info("summary", "stats", s)
}

// HistogramBin is one bucket of a histogram.
type HistogramBin struct {
	Source string  `csv:"source"`
	Lo     float64 `csv:"lo"`
	Hi     float64 `csv:"hi"`
	Count  int     `csv:"count"`
}

// Histogram buckets values into bins equal-width bins over [lo, hi).
// Values outside the range are dropped and reported in outside.
func Histogram(source string, values []float64, bins int, lo, hi float64) (hist []HistogramBin, outside int) {
	if bins < 1 || hi <= lo {
		return nil, len(values)
	}

	inRange := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lo && v < hi {
			inRange = append(inRange, v)
		}
	}
	outside = len(values) - len(inRange)
	sort.Float64s(inRange)

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	counts := stat.Histogram(nil, dividers, inRange, nil)

	hist = make([]HistogramBin, bins)
	for i := range hist {
		hist[i] = HistogramBin{
			Source: source,
			Lo:     dividers[i],
			Hi:     dividers[i+1],
			Count:  int(counts[i]),
		}
	}
	return hist, outside
}

// HashCorrelation samples the four hash channels at n random integer
// triples and returns their 4x4 Pearson correlation matrix.
func HashCorrelation(seed uint32, n int, rngSeed int64) *mat.SymDense {
	rng := rand.New(rand.NewSource(rngSeed))
	data := make([]float64, 0, n*4)
	for i := 0; i < n; i++ {
		x := rng.Intn(1<<16) - 1<<15
		y := rng.Intn(1<<16) - 1<<15
		z := rng.Intn(1<<16) - 1<<15
		ch := noise.Channels(seed, x, y, z)
		data = append(data, ch[:]...)
	}
	var m mat.SymDense
	stat.CorrelationMatrix(&m, mat.NewDense(n, 4, data), nil)
	return &m
}

// MaxOffDiagonal returns the largest absolute off-diagonal entry of m.
func MaxOffDiagonal(m *mat.SymDense) float64 {
	var worst float64
	d := m.SymmetricDim()
	for i := 0; i < d; i++ {
		for j := i + 1; j < d; j++ {
			worst = math.Max(worst, math.Abs(m.At(i, j)))
		}
	}
	return worst
}

// HashReport is the flattened pairwise channel correlation for CSV export.
type HashReport struct {
	Seed    uint32  `csv:"seed"`
	Samples int     `csv:"samples"`
	R12     float64 `csv:"r12"`
	R13     float64 `csv:"r13"`
	R14     float64 `csv:"r14"`
	R23     float64 `csv:"r23"`
	R24     float64 `csv:"r24"`
	R34     float64 `csv:"r34"`
	MaxAbs  float64 `csv:"max_abs"`
}

// NewHashReport builds a report from a correlation matrix.
func NewHashReport(seed uint32, samples int, m *mat.SymDense) HashReport {
	return HashReport{
		Seed:    seed,
		Samples: samples,
		R12:     m.At(0, 1),
		R13:     m.At(0, 2),
		R14:     m.At(0, 3),
		R23:     m.At(1, 2),
		R24:     m.At(1, 3),
		R34:     m.At(2, 3),
		MaxAbs:  MaxOffDiagonal(m),
	}
}
