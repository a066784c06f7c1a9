package assay

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Ladme/plot-scrambling/src/diag"
)

const (
	// DefaultManifest is the manifest file name looked up when no
	// positional argument is given.
	DefaultManifest = "Measurements"
	// DefaultOutput is the chart path written when -o is not given.
	DefaultOutput = "scrambling.png"

	// Block names longer than this crowd the legend; warn, don't reject.
	maxLegendName = 20
)

// Measurements drives one chart-generation run: the parsed manifest, the
// run options and the blocks in manifest order (order determines legend and
// color assignment).
type Measurements struct {
	ManifestPath string
	Format       Format // FormatUnknown selects per-file detection
	Before       *int   // display window, seconds before the alignment point; nil = unbounded
	After        *int   // seconds after; nil = unbounded
	Colors       []drawing.Color
	Output       string
	Blocks       []*Block

	log *diag.Logger
}

// Options carries the command-level configuration into ParseManifest.
type Options struct {
	Format Format
	Before *int
	After  *int
	Colors []drawing.Color
	Output string
	Log    *diag.Logger
}

// ParseTiming parses the trailing timing token of a manifest measurement
// line: either "END" or "START-END" (integers, literal hyphen).
func ParseTiming(tok string) (Timing, error) {
	if end, err := strconv.Atoi(tok); err == nil {
		return Timing{End: end}, nil
	}
	if parts := strings.SplitN(tok, "-", 2); len(parts) == 2 {
		s, serr := strconv.Atoi(parts[0])
		e, eerr := strconv.Atoi(parts[1])
		if serr == nil && eerr == nil {
			return Timing{Start: &s, End: e}, nil
		}
	}
	return Timing{}, fmt.Errorf("bad timing %q (want END or START-END)", tok)
}

// ParseManifest reads the manifest into a Measurements. Structural problems
// (data line before any block header, too few tokens, bad timing grammar)
// are fatal; nothing is recovered at this level.
//
// Manifest grammar, line-oriented:
//
//	> NAME            starts a block
//	PATH... TIMING    adds a measurement to the current block; all tokens but
//	                  the last form the data path, resolved against the
//	                  manifest's directory
func ParseManifest(path string, opts Options) (*Measurements, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := &Measurements{
		ManifestPath: path,
		Format:       opts.Format,
		Before:       opts.Before,
		After:        opts.After,
		Colors:       opts.Colors,
		Output:       opts.Output,
		log:          opts.Log,
	}
	if m.Output == "" {
		m.Output = DefaultOutput
	}

	dir := filepath.Dir(path)
	var cur *Block
	lineNo := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			name := strings.TrimSpace(line[1:])
			if len([]rune(name)) > maxLegendName {
				m.log.Warnf("%s:%d: block name %q is longer than %d characters and may not fit the legend", path, lineNo, name, maxLegendName)
			}
			cur = &Block{Name: name}
			m.Blocks = append(m.Blocks, cur)
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("%s:%d: block not found: measurement line before any \">\" header", path, lineNo)
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s:%d: line too short: want data file and timing, got %q", path, lineNo, line)
		}
		timing, err := ParseTiming(fields[len(fields)-1])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		cur.Experiments = append(cur.Experiments, &Experiment{
			Path:   filepath.Join(dir, strings.Join(fields[:len(fields)-1], " ")),
			Window: timing,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return m, nil
}

// Process loads, normalizes and averages every block in manifest order.
func (m *Measurements) Process() error {
	for _, b := range m.Blocks {
		for _, e := range b.Experiments {
			if err := e.Load(m.Format, m.log); err != nil {
				return err
			}
			e.Normalize(m.log)
		}
		b.Average()
	}
	return nil
}
