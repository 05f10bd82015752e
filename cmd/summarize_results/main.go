package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jdginn/go-diffusion/diffusion"
)

// Summary condenses one frequency of an exported results file
type Summary struct {
	Frequency   float64
	Coefficient float64
	Mean        float64
	Min         float64
	Max         float64
	// Set when the file holds a reference plate result for this frequency
	HasReference bool
	Reference    float64
	Normalized   float64
}

func Summarize(results diffusion.ResultsJSON) []Summary {
	references := make(map[float64]float64, len(results.ReferenceResults))
	for _, r := range results.ReferenceResults {
		references[r.Frequency] = r.Coefficient
	}

	out := make([]Summary, 0, len(results.Results))
	for _, r := range results.Results {
		s := Summary{Frequency: r.Frequency, Coefficient: r.Coefficient}
		if len(r.Data) > 0 {
			s.Mean = stat.Mean(r.Data, nil)
			s.Min = floats.Min(r.Data)
			s.Max = floats.Max(r.Data)
		}
		if reference, ok := references[r.Frequency]; ok {
			normalized, err := diffusion.NormalizedDiffusion(r.Coefficient, reference)
			if err != nil {
				glog.Warningf("%g Hz: %v", r.Frequency, err)
			} else {
				s.HasReference = true
				s.Reference = reference
				s.Normalized = normalized
			}
		}
		out = append(out, s)
	}
	return out
}

func WriteTable(w io.Writer, summaries []Summary) {
	fmt.Fprintf(w, "%10s  %11s  %8s  %8s  %8s  %9s  %10s\n", "Hz", "coefficient", "mean dB", "min dB", "max dB", "reference", "normalized")
	for _, s := range summaries {
		fmt.Fprintf(w, "%10g  %11.4f  %8.2f  %8.2f  %8.2f", s.Frequency, s.Coefficient, s.Mean, s.Min, s.Max)
		if s.HasReference {
			fmt.Fprintf(w, "  %9.4f  %10.4f\n", s.Reference, s.Normalized)
		} else {
			fmt.Fprintf(w, "  %9s  %10s\n", "-", "-")
		}
	}
}

func main() {
	flag.Set("logtostderr", "true")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: summarize_results <results.json>")
	}
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	results, err := diffusion.LoadResultsFromJSON(flag.Arg(0))
	if err != nil {
		glog.Exitf("loading results: %v", err)
	}
	WriteTable(os.Stdout, Summarize(results))
}
