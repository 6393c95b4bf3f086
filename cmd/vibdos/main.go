// Command vibdos prints the spectral density of states of a vibronic level
// coupled to wide-band leads.
//
// Usage:
//
//	vibdos [flags]
//
// The integral table used by the lead self-energies is loaded from the file
// named by -cache and rebuilt (and saved back) when the file is missing or
// was built with different parameters.
//
// Examples:
//
//	vibdos -dim 8 -points 200
//	vibdos -mu 0.25,-0.25 -gamma 0.05 -coupling 0.5
//	vibdos -cache phi.toml -workers 8 -min -3 -max 3
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-vibronic/vibronic/dos"
	"github.com/cwbudde/algo-vibronic/vibronic/lead"
	"github.com/cwbudde/algo-vibronic/vibronic/oscillator"
	"github.com/cwbudde/algo-vibronic/vibronic/phi"
)

func main() {
	cachePath := flag.String("cache", "phi-cache.toml", "integral table snapshot file")
	dim := flag.Int("dim", 8, "phonon basis size")
	level := flag.Float64("level", 0, "bare electronic level energy")
	hf := flag.Float64("hf", 0.5, "phonon quantum of energy")
	coupling := flag.Float64("coupling", 0.5, "linear vibrational coupling strength")
	mus := flag.String("mu", "0", "comma-separated chemical potentials, one lead each")
	temp := flag.Float64("temp", 2.5, "lead temperature")
	gamma := flag.Float64("gamma", 0.025, "tunneling rate per lead")
	band := flag.Float64("band", 50000, "lead half bandwidth")
	min := flag.Float64("min", -2, "lowest frequency")
	max := flag.Float64("max", 2, "highest frequency")
	points := flag.Int("points", 100, "number of frequency points")
	workers := flag.Int("workers", 1, "parallel evaluation goroutines")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vibdos [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the density of states of a vibronic level as a tab-separated table.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vibdos -dim 8 -points 200\n")
		fmt.Fprintf(os.Stderr, "  vibdos -mu 0.25,-0.25 -gamma 0.05 -coupling 0.5\n")
	}
	flag.Parse()

	logLevel := log.InfoLevel
	if *verbose {
		logLevel = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           logLevel,
	})

	if *points < 2 || *max <= *min {
		logger.Fatal("frequency window needs at least two points and max > min")
	}

	table, rebuilt, err := phi.LoadOrBuild(*cachePath, phi.DefaultBuildParams())
	if err != nil {
		logger.Fatal("integral table", "err", err)
	}
	if rebuilt {
		logger.Warn("integral table rebuilt, expect a one-time delay", "path", *cachePath)
		if err := table.SaveSnapshot(*cachePath); err != nil {
			logger.Warn("could not save rebuilt table", "err", err)
		}
	}
	logger.Debug("integral table ready", "points", table.Len(), "bound", table.Bound())

	var leads []*lead.Lead
	for _, field := range strings.Split(*mus, ",") {
		mu, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			logger.Fatal("parsing -mu", "value", field, "err", err)
		}
		l, err := lead.New(*dim, lead.Config{
			Mu:           mu,
			T:            *temp,
			Gamma:        *gamma,
			Bandwidth:    *band,
			CouplingFunc: oscillator.LinearCoupling(*coupling),
		}, table)
		if err != nil {
			logger.Fatal("building lead", "mu", mu, "err", err)
		}
		leads = append(leads, l)
	}

	energies := oscillator.HarmonicEnergies(*hf)
	omegas := make([]float64, *points)
	step := (*max - *min) / float64(*points-1)
	for i := range omegas {
		omegas[i] = *min + float64(i)*step
	}

	ys, err := dos.Calculate(omegas, *dim, dos.Params{
		Leads:           leads,
		LevelEnergy:     *level,
		PhononEnergy:    energies,
		PhononStateFunc: oscillator.ThermalDist(*temp, energies),
	}, dos.WithWorkers(*workers))
	if err != nil {
		logger.Fatal("calculation failed", "err", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "omega\tdos")
	for i, x := range omegas {
		fmt.Fprintf(w, "%.6g\t%.6g\n", x, ys[i])
	}
	w.Flush()
}
