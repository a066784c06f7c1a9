package assay

import (
	"errors"
	"fmt"
	"strings"
)

// Format identifies one of the recognized instrument export layouts.
type Format int

const (
	// FormatUnknown selects per-file auto-detection.
	FormatUnknown Format = iota
	// FormatFluorEssence is the two-column FluorEssence export ("A" channel
	// marker on the first line).
	FormatFluorEssence
	// FormatDatapoints is a bare two-column dump, BOM-prefixed.
	FormatDatapoints
	// FormatEZSpec is the EzSpec kinetics table (4 header lines).
	FormatEZSpec
	// FormatTableHeader is the BOM-prefixed table with a leading index
	// column ("Data" in the header line).
	FormatTableHeader
)

// ErrUnrecognizedFormat is returned when auto-detection exhausts the first
// three lines without a match. Fatal for the whole run.
var ErrUnrecognizedFormat = errors.New("unrecognized data format")

func (f Format) String() string {
	switch f {
	case FormatFluorEssence:
		return "fluoressence"
	case FormatDatapoints:
		return "datapoints"
	case FormatEZSpec:
		return "ezspec"
	case FormatTableHeader:
		return "tableheader"
	}
	return "unknown"
}

// ParseFormat maps a case-insensitive format keyword to its Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fluoressence":
		return FormatFluorEssence, nil
	case "datapoints":
		return FormatDatapoints, nil
	case "ezspec":
		return FormatEZSpec, nil
	case "tableheader":
		return FormatTableHeader, nil
	}
	return FormatUnknown, fmt.Errorf("unknown format %q (want fluoressence, datapoints, ezspec or tableheader)", s)
}

const byteOrderMark = "\uFEFF"

// ezspecMarkers must all appear on the third line of an EzSpec export.
var ezspecMarkers = []string{"CCD", "Ex.Filter", "Em.Polz", "Em.Filter", "Ref"}

// DetectFormat classifies a file from up to its first three lines. Rules are
// checked per line index, first match wins:
//
//	line 0 starts with a BOM  -> tableheader if it contains "Data", else datapoints
//	line 0 contains "A"       -> fluoressence
//	line 2 carries the EzSpec column markers -> ezspec
//
// Anything else is ErrUnrecognizedFormat.
func DetectFormat(lines []string) (Format, error) {
	for i, line := range lines {
		if i >= 3 {
			break
		}
		switch i {
		case 0:
			if strings.HasPrefix(line, byteOrderMark) {
				if strings.Contains(line, "Data") {
					return FormatTableHeader, nil
				}
				return FormatDatapoints, nil
			}
			if strings.Contains(line, "A") {
				return FormatFluorEssence, nil
			}
		case 2:
			if containsAll(line, ezspecMarkers) {
				return FormatEZSpec, nil
			}
		}
	}
	return FormatUnknown, ErrUnrecognizedFormat
}

func containsAll(line string, markers []string) bool {
	for _, m := range markers {
		if !strings.Contains(line, m) {
			return false
		}
	}
	return true
}
