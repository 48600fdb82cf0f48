package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/gator/config"
	"github.com/pthm-cable/gator/pointcloud"
)

// Output file names.
const (
	SummaryFile   = "summary.csv"
	HistogramFile = "histogram.csv"
	PointsFile    = "points.csv"
	PerfFile      = "perf.csv"
	HashFile      = "hash.csv"
	ConfigFile    = "config.yaml"
)

// csvSink is an append-only CSV file that writes its header once.
type csvSink struct {
	file          *os.File
	headerWritten bool
}

// OutputManager handles structured run output with CSV logging.
// A nil *OutputManager discards everything.
type OutputManager struct {
	dir   string
	sinks map[string]*csvSink
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &OutputManager{dir: dir, sinks: make(map[string]*csvSink)}, nil
}

// sink opens name on first use.
func (om *OutputManager) sink(name string) (*csvSink, error) {
	if s, ok := om.sinks[name]; ok {
		return s, nil
	}
	f, err := os.Create(filepath.Join(om.dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	s := &csvSink{file: f}
	om.sinks[name] = s
	return s, nil
}

// writeRecords appends records to the named CSV, with headers on the first write.
func writeRecords[T any](om *OutputManager, name string, records []T) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	s, err := om.sink(name)
	if err != nil {
		return err
	}

	if !s.headerWritten {
		if err := gocsv.Marshal(records, s.file); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		s.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, s.file); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteSummary appends a summary row to summary.csv.
func (om *OutputManager) WriteSummary(s Summary) error {
	return writeRecords(om, SummaryFile, []Summary{s})
}

// WriteHistogram appends histogram bins to histogram.csv.
func (om *OutputManager) WriteHistogram(bins []HistogramBin) error {
	return writeRecords(om, HistogramFile, bins)
}

// WritePoints writes point records to points.csv.
func (om *OutputManager) WritePoints(points []pointcloud.PointRecord) error {
	return writeRecords(om, PointsFile, points)
}

// WritePerf appends a performance row to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats) error {
	return writeRecords(om, PerfFile, []PerfStatsCSV{stats.ToCSV()})
}

// WriteHashReport appends a hash correlation row to hash.csv.
func (om *OutputManager) WriteHashReport(r HashReport) error {
	return writeRecords(om, HashFile, []HashReport{r})
}

// Create opens a file in the output directory for raw output such as
// images. The caller closes it.
func (om *OutputManager) Create(name string) (*os.File, error) {
	if om == nil {
		return nil, fmt.Errorf("creating %s: output disabled", name)
	}
	f, err := os.Create(filepath.Join(om.dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return f, nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, s := range om.sinks {
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	om.sinks = make(map[string]*csvSink)
	return firstErr
}
