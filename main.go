package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/golang/glog"

	"github.com/jdginn/go-diffusion/diffusion"
	"github.com/jdginn/go-diffusion/diffusion/config"
	"github.com/jdginn/go-diffusion/diffusion/experiment"
)

var CLI struct {
	Simulate SimulateCmd `cmd:"" help:"Simulate a model and compute its diffusion coefficient"`
	Validate ValidateCmd `cmd:"" help:"Validate a config file and load its model"`
	Layout   LayoutCmd   `cmd:"" help:"Print the collector positions for a collector count"`
}

type SimulateCmd struct {
	Config  string `arg:"" name:"config" help:"experiment config file" type:"existingfile"`
	OutDir  string `name:"out-dir" help:"directory that receives experiment directories" default:"experiments"`
	Workers int    `name:"workers" help:"override simulation.workers"`
}

// loadConfig loads, merges and validates a config, then builds everything a
// simulation needs from it
func loadConfig(path string) (*config.ExperimentConfig, diffusion.Params, *diffusion.Mesh, error) {
	cfg, err := config.LoadFromFile(path, config.LoadOptions{
		ValidateImmediately: true,
		ResolvePaths:        true,
		MergeFiles:          true,
	})
	if err != nil {
		return nil, diffusion.Params{}, nil, err
	}
	params := cfg.Constants.Params()
	model, err := cfg.Input.CreateModel(params)
	if err != nil {
		return nil, diffusion.Params{}, nil, err
	}
	return cfg, params, model, nil
}

func (c SimulateCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dir, summary, err := c.simulate(ctx, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return err
	}
	fmt.Printf("Experiment written to %s\n", dir.Path)
	fmt.Print(summary)
	return nil
}

// runSimulation runs every configured frequency against model and reduces
// the runs to diffusion coefficients
func runSimulation(ctx context.Context, model diffusion.Model, absorption diffusion.Absorption, props diffusion.SimulationProperties, params diffusion.Params) ([]diffusion.FrequencyRun, diffusion.Results, error) {
	sim, err := diffusion.NewSimulator(model, absorption, props, params)
	if err != nil {
		return nil, nil, err
	}
	glog.Infof("simulating %v", sim)

	start := time.Now()
	runs, err := sim.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	glog.Infof("simulation finished in %v", time.Since(start))

	results, err := diffusion.GetResults(diffusion.DiffusionCoefficient{}, diffusion.CollectorsPerFrequency(runs), params.SampleRate)
	if err != nil {
		return nil, nil, err
	}
	for _, frequency := range results.Frequencies() {
		glog.Infof("%g Hz: diffusion coefficient %.4f", frequency, results[frequency].Value)
	}
	return runs, results, nil
}

func (c SimulateCmd) simulate(ctx context.Context, rng *rand.Rand) (*experiment.ExperimentDir, string, error) {
	cfg, params, model, err := loadConfig(c.Config)
	if err != nil {
		return nil, "", err
	}
	absorption, err := cfg.Material.Create()
	if err != nil {
		return nil, "", err
	}
	props := cfg.Simulation.Properties()
	if c.Workers > 0 {
		props.Workers = c.Workers
	}

	runs, results, err := runSimulation(ctx, model, absorption, props, params)
	if err != nil {
		return nil, "", err
	}

	var referenceRuns []diffusion.FrequencyRun
	var referenceResults diffusion.Results
	if cfg.Simulation.ReferenceRun {
		reference, err := diffusion.NewReferenceModel(model.SideSize(), params)
		if err != nil {
			return nil, "", fmt.Errorf("building reference plate: %w", err)
		}
		glog.Infof("repeating the simulation against %v", reference)
		referenceRuns, referenceResults, err = runSimulation(ctx, reference, absorption, props, params)
		if err != nil {
			return nil, "", fmt.Errorf("simulating reference plate: %w", err)
		}
	}

	dir, err := experiment.CreateExperimentDirectory(c.OutDir, rng)
	if err != nil {
		return nil, "", err
	}
	if err := config.SaveToFile(cfg, dir.GetFilePath("config.yaml")); err != nil {
		return nil, "", err
	}
	// collector positions do not depend on frequency, any run will do
	if err := diffusion.SaveCollectorsToJSON(dir.GetFilePath("collectors.json"), runs[0].Collectors); err != nil {
		return nil, "", err
	}
	if err := diffusion.SaveModelToJSON(dir.GetFilePath("model.json"), model); err != nil {
		return nil, "", err
	}
	if err := diffusion.SaveResultsToJSON(dir.GetFilePath("results.json"), results, referenceResults); err != nil {
		return nil, "", err
	}
	if props.TrackedRaysPerAxis > 0 {
		if err := diffusion.SaveTrackingToJSON(dir.GetFilePath("tracking.json"), runs, referenceRuns); err != nil {
			return nil, "", err
		}
	}
	if err := model.ToPT().SaveSTL(dir.GetFilePath("model.stl")); err != nil {
		return nil, "", fmt.Errorf("saving model STL: %w", err)
	}

	var normalized map[float64]float64
	if referenceResults != nil {
		normalized, err = diffusion.NormalizeResults(results, referenceResults)
		if err != nil {
			glog.Warningf("skipping normalized coefficients: %v", err)
		}
	}
	var b strings.Builder
	for _, frequency := range results.Frequencies() {
		fmt.Fprintf(&b, "%8g Hz  %.4f", frequency, results[frequency].Value)
		if n, ok := normalized[frequency]; ok {
			fmt.Fprintf(&b, "  reference %.4f  normalized %.4f", referenceResults[frequency].Value, n)
		}
		b.WriteString("\n")
	}
	return dir, b.String(), nil
}

type ValidateCmd struct {
	Config string `arg:"" name:"config" help:"experiment config file" type:"existingfile"`
}

func (c ValidateCmd) Run() error {
	cfg, params, model, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	if _, err := cfg.Material.Create(); err != nil {
		return err
	}
	if err := diffusion.ValidateEnclosure(model, params); err != nil {
		return fmt.Errorf("checking %v: %w", model, err)
	}
	fmt.Printf("Config OK: %v\n", model)
	fmt.Printf("Source height %v, wall radius %v\n", params.SimulationHeight, params.WallRadius)
	return nil
}

type LayoutCmd struct {
	Collectors int     `name:"collectors" help:"number of collectors" default:"37"`
	SideSize   float64 `name:"side-size" help:"half width of the reference plate in meters" default:"1"`
}

func (c LayoutCmd) Run() error {
	params := diffusion.DefaultParams()
	model, err := diffusion.NewReferenceModel(c.SideSize, params)
	if err != nil {
		return err
	}
	collectors, err := diffusion.BuildCollectors(model, c.Collectors, params)
	if err != nil {
		return err
	}
	for i, collector := range collectors {
		fmt.Printf("%3d  %v\n", i, collector)
	}
	return nil
}

func main() {
	flag.Set("logtostderr", "true")
	flag.CommandLine.Parse(nil)
	defer glog.Flush()

	ctx := kong.Parse(&CLI)
	if err := ctx.Run(); err != nil {
		glog.Flush()
		glog.Exitf("%v", err)
	}
}
