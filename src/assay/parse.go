package assay

import (
	"math"
	"strconv"
	"strings"

	"github.com/Ladme/plot-scrambling/src/diag"
)

const ezspecHeaderLines = 4

// parseLines feeds the file's lines through the parser for the resolved
// format. All parsers are permissive: a line that does not match the
// expected numeric layout is skipped with a diagnostic, never fatal.
func (e *Experiment) parseLines(lines []string, log *diag.Logger) {
	switch e.Format {
	case FormatFluorEssence:
		e.parseFluorEssence(lines, log)
	case FormatDatapoints:
		e.parseDatapoints(lines, log)
	case FormatEZSpec:
		e.parseEZSpec(lines, log)
	case FormatTableHeader:
		e.parseTableHeader(lines, log)
	}
}

// parseFluorEssence: whitespace-split floats, column 0 time, column 1 value.
func (e *Experiment) parseFluorEssence(lines []string, log *diag.Logger) {
	for _, line := range lines {
		vals, ok := parseFloats(strings.Fields(line))
		if !ok || len(vals) < 2 {
			e.skipLine(line, log)
			continue
		}
		e.appendPoint(vals[0], vals[1])
	}
}

// parseDatapoints: blank lines skipped; column 0 parsed as a float, retried
// with its first two characters stripped (known export prefix artifact);
// column 1 value.
func (e *Experiment) parseDatapoints(lines []string, log *diag.Logger) {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			e.skipLine(line, log)
			continue
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			if r := []rune(fields[0]); len(r) > 2 {
				t, err = strconv.ParseFloat(string(r[2:]), 64)
			}
			if err != nil {
				e.skipLine(line, log)
				continue
			}
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			e.skipLine(line, log)
			continue
		}
		e.appendPoint(t, v)
	}
}

// parseEZSpec: the first 4 lines are header and skipped unconditionally;
// remaining lines need at least 2 numeric columns.
func (e *Experiment) parseEZSpec(lines []string, log *diag.Logger) {
	for i, line := range lines {
		if i < ezspecHeaderLines {
			e.skipLine(line, log)
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			e.skipLine(line, log)
			continue
		}
		t, terr := strconv.ParseFloat(fields[0], 64)
		v, verr := strconv.ParseFloat(fields[1], 64)
		if terr != nil || verr != nil {
			e.skipLine(line, log)
			continue
		}
		e.appendPoint(t, v)
	}
}

// parseTableHeader: like fluoressence but with an extra leading index
// column, so column 1 is time and column 2 the value.
func (e *Experiment) parseTableHeader(lines []string, log *diag.Logger) {
	for _, line := range lines {
		vals, ok := parseFloats(strings.Fields(line))
		if !ok || len(vals) < 3 {
			e.skipLine(line, log)
			continue
		}
		e.appendPoint(vals[1], vals[2])
	}
}

// appendPoint records one sample. Times round to the nearest integer
// second; values keep full precision.
func (e *Experiment) appendPoint(t, v float64) {
	e.Times = append(e.Times, int(math.Round(t)))
	e.Values = append(e.Values, v)
}

func (e *Experiment) skipLine(line string, log *diag.Logger) {
	log.Infof("%s: skipping line %q", e.Path, lineHead(line))
}

// parseFloats converts every field; a single bad field fails the line.
func parseFloats(fields []string) ([]float64, bool) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// lineHead returns the first 40 characters of a line for diagnostics.
func lineHead(line string) string {
	r := []rune(line)
	if len(r) > 40 {
		return string(r[:40])
	}
	return line
}
