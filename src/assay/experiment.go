package assay

import (
	"bufio"
	"fmt"
	"math"
	"os"

	"github.com/Ladme/plot-scrambling/src/diag"
)

// Timing is the normalization window of one experiment: Start may be nil
// (treated as 0), End marks the dithionite-addition moment in seconds
// relative to the start of the recording.
type Timing struct {
	Start *int
	End   int
}

// Experiment is one raw data file's parsed and normalized time series.
// Times and Values stay index-correlated through every operation. An
// Experiment is single-use: one Load, one Normalize, never re-read.
type Experiment struct {
	Path   string
	Window Timing
	Format Format

	Times  []int
	Values []float64
}

// Load reads and parses the experiment's data file. A forced format other
// than FormatUnknown bypasses detection.
func (e *Experiment) Load(forced Format, log *diag.Logger) error {
	f, err := os.Open(e.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", e.Path, err)
	}

	if forced != FormatUnknown {
		e.Format = forced
	} else {
		fm, err := DetectFormat(lines)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Path, err)
		}
		e.Format = fm
		log.Infof("%s: detected %s format", e.Path, fm)
	}
	e.parseLines(lines, log)
	return nil
}

// Normalize aligns the dithionite-addition moment to t=0 and rescales the
// intensities against the mean of the normalization window.
//
// Both window indexes are located on the original recorded times before
// anything is mutated. The baseline is values[si:ei) — half-open, so the
// point used for the time shift is excluded from the divisor. That asymmetry
// is deliberate; do not "fix" it.
func (e *Experiment) Normalize(log *diag.Logger) {
	if len(e.Times) == 0 {
		return
	}
	start := 0
	if e.Window.Start != nil {
		start = *e.Window.Start
	}
	si := indexClosest(e.Times, start)
	ei := indexClosest(e.Times, e.Window.End)

	shift := e.Times[ei]
	divisor := 1.0
	if si < ei {
		divisor = mean(e.Values[si:ei])
	} else {
		log.Warnf("%s: empty normalization window [%d, %d); leaving intensities unscaled", e.Path, start, e.Window.End)
	}

	for i := range e.Times {
		e.Times[i] -= shift
	}
	for i := range e.Values {
		e.Values[i] /= divisor
	}
}

// indexClosest returns the index of the recorded time with the smallest
// absolute distance to target. Ties break to the lowest index.
func indexClosest(times []int, target int) int {
	best := 0
	bestDiff := math.MaxInt
	for i, t := range times {
		d := t - target
		if d < 0 {
			d = -d
		}
		if d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}
