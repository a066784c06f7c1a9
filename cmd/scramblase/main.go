// scramblase renders a scrambling-activity comparison chart from
// fluorescence time series listed in a measurement manifest.
//
// Each manifest block groups replicate measurements; every measurement is
// aligned to its dithionite-addition moment, rescaled against its
// normalization window, and the replicates are averaged into one curve with
// a ±1σ band. The result is a single PNG.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Ladme/plot-scrambling/src/assay"
	"github.com/Ladme/plot-scrambling/src/diag"
)

// set by the release tooling
var version = "dev"

// parseTimerange parses "before,after". Either side may be empty, leaving
// that side of the display window unbounded.
func parseTimerange(spec string) (before, after *int, err error) {
	if spec == "" {
		return nil, nil, nil
	}
	parts := strings.Split(spec, ",")
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("bad timerange %q (want before,after)", spec)
	}
	conv := func(s string) (*int, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("bad timerange value %q", s)
		}
		return &v, nil
	}
	if before, err = conv(parts[0]); err != nil {
		return nil, nil, err
	}
	if after, err = conv(parts[1]); err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

func newRootCmd(log *diag.Logger) *cobra.Command {
	var (
		formatFlag    string
		timerangeFlag string
		colorsFlag    string
		outputFlag    string
		logLevelFlag  string
	)
	cmd := &cobra.Command{
		Use:     "scramblase [manifest]",
		Short:   "Plot scrambling-activity assay measurements",
		Long:    "Reads the measurement manifest (default ./" + assay.DefaultManifest + "), normalizes and aligns every listed fluorescence time series to its dithionite-addition point, averages replicates per block and writes one comparison chart.",
		Args:    cobra.MaximumNArgs(1),
		Version: version,

		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetLevel(logLevelFlag)

			manifest := assay.DefaultManifest
			if len(args) == 1 {
				manifest = args[0]
			}
			format := assay.FormatUnknown
			if formatFlag != "" {
				f, err := assay.ParseFormat(formatFlag)
				if err != nil {
					return err
				}
				format = f
			}
			before, after, err := parseTimerange(timerangeFlag)
			if err != nil {
				return err
			}
			colors, err := assay.ParseColors(colorsFlag)
			if err != nil {
				return err
			}

			m, err := assay.ParseManifest(manifest, assay.Options{
				Format: format,
				Before: before,
				After:  after,
				Colors: colors,
				Output: outputFlag,
				Log:    log,
			})
			if err != nil {
				return err
			}
			if err := m.Process(); err != nil {
				return err
			}
			if err := m.WriteChart(); err != nil {
				return err
			}
			log.Infof("wrote %s", m.Output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "force input format (fluoressence|datapoints|ezspec|tableheader); auto-detected per file when omitted")
	cmd.Flags().StringVarP(&timerangeFlag, "timerange", "t", "", "display window as \"before,after\" seconds around the alignment point")
	cmd.Flags().StringVarP(&colorsFlag, "colors", "c", "", "comma-separated block colors, named or hex")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", assay.DefaultOutput, "output PNG path")
	cmd.Flags().StringVar(&logLevelFlag, "log-level", "info", "log level (debug|info|warn|error)")
	return cmd
}

func main() {
	log := diag.NewStderr()
	if err := newRootCmd(log).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
		os.Exit(1)
	}
}
