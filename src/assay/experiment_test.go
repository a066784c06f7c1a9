package assay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ladme/plot-scrambling/src/diag"
)

func newTestLogger() (*diag.Logger, *diag.Capture) {
	cap := &diag.Capture{}
	return diag.New(cap, diag.LevelDebug), cap
}

func writeDataFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadExperiment(t *testing.T, content string, forced Format) (*Experiment, *diag.Capture) {
	t.Helper()
	log, cap := newTestLogger()
	e := &Experiment{Path: writeDataFile(t, "data.txt", content)}
	require.NoError(t, e.Load(forced, log))
	require.Len(t, e.Values, len(e.Times), "times and values must stay parallel")
	return e, cap
}

func TestLoadFluorEssence(t *testing.T) {
	e, cap := loadExperiment(t, "Time (s)\tS1c/R1 A\n0.0\t100.0\n1.4\t101.0\n2.0\t99.0\n", FormatUnknown)

	assert.Equal(t, FormatFluorEssence, e.Format)
	assert.Equal(t, []int{0, 1, 2}, e.Times)
	assert.Equal(t, []float64{100.0, 101.0, 99.0}, e.Values)
	// header line is reported, not fatal
	assert.True(t, cap.Contains("skipping line"))
	assert.True(t, cap.Contains("detected fluoressence format"))
}

func TestLoadDatapoints(t *testing.T) {
	content := "\uFEFF10.0 5.0\n1.0 5.5\n\n2.0 6.0\nbad line here\n"
	e, cap := loadExperiment(t, content, FormatUnknown)

	assert.Equal(t, FormatDatapoints, e.Format)
	// first line's time token carries the two-character prefix artifact;
	// stripping it costs the leading digit, matching the source convention
	assert.Equal(t, []int{0, 1, 2}, e.Times)
	assert.Equal(t, []float64{5.0, 5.5, 6.0}, e.Values)
	assert.True(t, cap.Contains("bad line here"))
}

func TestLoadEZSpec(t *testing.T) {
	content := "ezspec kinetics export\n" +
		"sample: s1c\n" +
		"Frame CCD Ex.Filter Em.Polz Em.Filter Ref\n" +
		"units s counts\n" +
		"0.0 100.0 extra columns ignored\n" +
		"1.0 101.0\n" +
		"2.0\n" + // too few columns, skipped
		"3.0 99.0\n"
	e, cap := loadExperiment(t, content, FormatUnknown)

	assert.Equal(t, FormatEZSpec, e.Format)
	assert.Equal(t, []int{0, 1, 3}, e.Times)
	assert.Equal(t, []float64{100.0, 101.0, 99.0}, e.Values)
	// 4 header lines plus the short line
	skips := 0
	for _, entry := range cap.Entries() {
		if entry.Level == diag.LevelInfo {
			skips++
		}
	}
	assert.GreaterOrEqual(t, skips, 5)
}

func TestLoadTableHeader(t *testing.T) {
	content := "\uFEFFDataSet1 Time Intensity\n" +
		"1 0.0 100.0\n" +
		"2 1.0 101.0\n" +
		"3 2.0 99.0\n"
	e, _ := loadExperiment(t, content, FormatUnknown)

	assert.Equal(t, FormatTableHeader, e.Format)
	assert.Equal(t, []int{0, 1, 2}, e.Times)
	assert.Equal(t, []float64{100.0, 101.0, 99.0}, e.Values)
}

func TestLoadForcedFormatSkipsDetection(t *testing.T) {
	// No detectable markers at all, but a forced format parses fine.
	e, cap := loadExperiment(t, "0.0 100.0\n1.0 101.0\n", FormatEZSpec)

	assert.Equal(t, FormatEZSpec, e.Format)
	assert.Empty(t, e.Times) // both lines eaten by the 4-line header skip
	assert.False(t, cap.Contains("detected"))
}

func TestLoadUnrecognizedFormatFatal(t *testing.T) {
	log, _ := newTestLogger()
	e := &Experiment{Path: writeDataFile(t, "data.txt", "1 2\n3 4\n5 6\n")}
	err := e.Load(FormatUnknown, log)
	assert.ErrorIs(t, err, ErrUnrecognizedFormat)
}

func TestIndexClosest(t *testing.T) {
	assert.Equal(t, 1, indexClosest([]int{98, 100, 102}, 100), "exact match wins")
	assert.Equal(t, 0, indexClosest([]int{99, 101}, 100), "ties break to the lowest index")
	assert.Equal(t, 2, indexClosest([]int{0, 10, 20}, 1000), "clamps to the nearest end")
}

func TestNormalize(t *testing.T) {
	e := &Experiment{Path: "synthetic"}
	start := 100
	e.Window = Timing{Start: &start, End: 200}
	for ts := 0; ts <= 300; ts += 25 {
		e.Times = append(e.Times, ts)
		e.Values = append(e.Values, 2.0)
	}
	// the point at t=200 is used for the shift but excluded from the baseline
	e.Values[8] = 4.0

	log, _ := newTestLogger()
	e.Normalize(log)

	// divisor is the mean over [100, 200) which is constant 2.0
	assert.InDelta(t, 1.0, e.Values[4], 1e-12)
	assert.InDelta(t, 2.0, e.Values[8], 1e-12)
	// t=200 becomes the new origin
	assert.Equal(t, 0, e.Times[8])
	assert.Equal(t, -200, e.Times[0])
	assert.Equal(t, 100, e.Times[12])
}

func TestNormalizeDefaultStart(t *testing.T) {
	e := &Experiment{
		Path:   "synthetic",
		Window: Timing{End: 5},
		Times:  []int{0, 1, 2, 3, 4, 5, 6},
		Values: []float64{5, 5, 5, 5, 5, 10, 10},
	}
	log, _ := newTestLogger()
	e.Normalize(log)

	// baseline [0,5) has mean 5; everything rescales against it
	assert.Equal(t, []int{-5, -4, -3, -2, -1, 0, 1}, e.Times)
	assert.InDelta(t, 1.0, e.Values[0], 1e-12)
	assert.InDelta(t, 2.0, e.Values[5], 1e-12)
}

func TestNormalizeEmptyWindowWarns(t *testing.T) {
	start := 10
	e := &Experiment{
		Path:   "synthetic",
		Window: Timing{Start: &start, End: 0},
		Times:  []int{0, 5, 10},
		Values: []float64{1, 2, 3},
	}
	log, cap := newTestLogger()
	e.Normalize(log)

	assert.True(t, cap.Contains("empty normalization window"))
	// values left unscaled, times still shifted
	assert.Equal(t, []float64{1, 2, 3}, e.Values)
	assert.Equal(t, []int{0, 5, 10}, e.Times)
}
