// Command gatorgen renders alligator noise headlessly: image slices, a
// point cloud with a noise attribute, distribution statistics and a hash
// channel correlation report.
//
// Usage: go run ./cmd/gatorgen -output-dir out
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pthm-cable/gator/config"
	"github.com/pthm-cable/gator/field"
	"github.com/pthm-cable/gator/imaging"
	"github.com/pthm-cable/gator/noise"
	"github.com/pthm-cable/gator/pointcloud"
	"github.com/pthm-cable/gator/telemetry"
)

// options holds the command-line settings. Overrides apply only to flags
// that were passed explicitly.
type options struct {
	configPath string
	outputDir  string
	hashReport bool

	format  string
	points  int
	seed    int64
	workers int
	set     map[string]bool
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("gatorgen", flag.ContinueOnError)
	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "Path to config.yaml or config.toml (empty = use defaults)")
	fs.StringVar(&o.outputDir, "output-dir", "", "Output directory for images, CSV logs and config snapshot")
	fs.StringVar(&o.format, "format", "", "Image format: png, tiff, bmp (default from config)")
	fs.IntVar(&o.points, "points", 0, "Point cloud size, 0 = skip (default from config)")
	fs.BoolVar(&o.hashReport, "hash-report", false, "Measure hash channel correlation")
	fs.Int64Var(&o.seed, "seed", 0, "Noise seed (default from config)")
	fs.IntVar(&o.workers, "workers", 0, "Worker goroutines, 0 = GOMAXPROCS (default from config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		o.set[f.Name] = true
	})
	return o, nil
}

// apply copies the explicitly passed overrides into cfg and revalidates it.
func (o *options) apply(cfg *config.Config) error {
	if o.set["format"] {
		cfg.Image.Format = o.format
	}
	if o.set["points"] {
		cfg.Cloud.Count = o.points
	}
	if o.set["seed"] {
		cfg.Noise.Seed = o.seed
	}
	if o.set["workers"] {
		cfg.Workers = o.workers
		cfg.Derived.Workers = o.workers
	}
	return cfg.Validate()
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(opts.configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if err := opts.apply(cfg); err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, opts.outputDir, opts.hashReport); err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, outputDir string, hashReport bool) error {
	out, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	sampler, err := noise.NewSampler(cfg.Noise)
	if err != nil {
		return err
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	perf.SetSamplesPerRun(cfg.Derived.NumVoxel)
	perf.Start()

	slog.Info("starting generation",
		"basis", cfg.Noise.Basis,
		"seed", cfg.Noise.Seed,
		"octaves", cfg.Noise.Octaves,
		"size", fmt.Sprintf("%dx%dx%d", cfg.Image.Width, cfg.Image.Height, cfg.Image.Depth),
		"points", cfg.Cloud.Count,
		"workers", cfg.Derived.Workers,
	)

	// Volume
	perf.StartPhase(telemetry.PhaseSample)
	f := field.New(cfg.Image.Width, cfg.Image.Height, cfg.Image.Depth)
	pool := field.NewPool(cfg.Derived.Workers)
	defer pool.Stop()
	region := field.UniformRegion(
		noise.Vec3{X: cfg.Image.Origin.X, Y: cfg.Image.Origin.Y, Z: cfg.Image.Origin.Z},
		cfg.Image.Spacing,
	)
	pool.Fill(f, region, sampler)

	raw := f.Float64s()
	if err := report(out, "image", raw, cfg.Telemetry.HistogramBins); err != nil {
		return err
	}

	if out != nil {
		perf.StartPhase(telemetry.PhaseEncode)
		if err := writeSlices(out, cfg, f); err != nil {
			return err
		}
	}

	// Point cloud
	if cfg.Cloud.Count > 0 {
		perf.StartPhase(telemetry.PhaseScatter)
		cloud := pointcloud.New()
		cloud.Scatter(cfg.Cloud.Count, pointcloud.Box{
			Min: pointcloud.Point{X: cfg.Cloud.Min.X, Y: cfg.Cloud.Min.Y, Z: cfg.Cloud.Min.Z},
			Max: pointcloud.Point{X: cfg.Cloud.Max.X, Y: cfg.Cloud.Max.Y, Z: cfg.Cloud.Max.Z},
		}, cfg.Cloud.Seed)

		perf.StartPhase(telemetry.PhaseEvaluatePoints)
		cloud.Evaluate(sampler, cfg.Derived.Workers)

		perf.StartPhase(telemetry.PhaseWrite)
		if err := out.WritePoints(cloud.Records()); err != nil {
			return err
		}
		if err := report(out, "points", cloud.Densities(), cfg.Telemetry.HistogramBins); err != nil {
			return err
		}
	}

	if hashReport {
		m := telemetry.HashCorrelation(uint32(cfg.Noise.Seed), cfg.Telemetry.HashSamples, 1)
		r := telemetry.NewHashReport(uint32(cfg.Noise.Seed), cfg.Telemetry.HashSamples, m)
		slog.Info("hash channels", "samples", r.Samples, "max_abs_r", r.MaxAbs,
			"r12", r.R12, "r13", r.R13, "r14", r.R14, "r23", r.R23, "r24", r.R24, "r34", r.R34)
		if err := out.WriteHashReport(r); err != nil {
			return err
		}
	}

	perf.End()
	stats := perf.Stats()
	stats.LogStats()
	if err := out.WritePerf(stats); err != nil {
		return err
	}

	if out != nil {
		slog.Info("output written", "dir", out.Dir())
	}
	return out.Close()
}

// report logs and records the distribution of values.
func report(out *telemetry.OutputManager, source string, values []float64, bins int) error {
	s := telemetry.Summarize(source, values)
	s.LogStats()
	if err := out.WriteSummary(s); err != nil {
		return err
	}

	lo, hi := s.Min, s.Max
	if hi <= lo {
		hi = lo + 1
	}
	// Nudge the top edge so the maximum lands in the last bin.
	hi += (hi - lo) * 1e-9
	hist, _ := telemetry.Histogram(source, values, bins, lo, hi)
	return out.WriteHistogram(hist)
}

// writeSlices encodes every z slice of f as an image.
func writeSlices(out *telemetry.OutputManager, cfg *config.Config, f *field.Field) error {
	ramp, err := imaging.NewRamp(cfg.Image.Ramp)
	if err != nil {
		return err
	}
	ext := imaging.Ext(cfg.Image.Format)
	if ext == "" {
		return fmt.Errorf("%w: %q", imaging.ErrUnknownFormat, cfg.Image.Format)
	}

	if cfg.Image.Normalize {
		f.Normalize()
	}

	for z := 0; z < f.D; z++ {
		name := fmt.Sprintf("slice_%03d%s", z, ext)
		file, err := out.Create(name)
		if err != nil {
			return err
		}
		err = imaging.Encode(file, imaging.Render(f, z, ramp), cfg.Image.Format)
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		slog.Debug("slice written", "file", name)
	}
	return nil
}
