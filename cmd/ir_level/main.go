package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/jdginn/go-diffusion/diffusion"
)

// ImpulseResponse is a REW text export: linear amplitude samples starting
// at PeakIndex
type ImpulseResponse struct {
	PeakIndex      int
	SampleInterval float64 // seconds
	Samples        []float64
}

// ParseImpulseResponse reads the REW header fields we need, then the
// samples following "* Data start"
func ParseImpulseResponse(r io.Reader) (ImpulseResponse, error) {
	ir := ImpulseResponse{PeakIndex: -1}
	scanner := bufio.NewScanner(r)
	foundDataStart := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "// Peak index") {
			ir.PeakIndex, _ = strconv.Atoi(strings.Fields(line)[0])
		} else if strings.Contains(line, "// Sample interval (seconds)") {
			ir.SampleInterval, _ = strconv.ParseFloat(strings.Fields(line)[0], 64)
		} else if line == "* Data start" {
			foundDataStart = true
			break
		}
	}
	if !foundDataStart {
		return ir, fmt.Errorf("* Data start not found")
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		val, err := strconv.ParseFloat(line, 64)
		if err != nil {
			continue
		}
		ir.Samples = append(ir.Samples, val)
	}
	if err := scanner.Err(); err != nil {
		return ir, fmt.Errorf("reading samples: %w", err)
	}

	if ir.PeakIndex < 0 || ir.SampleInterval == 0 || ir.PeakIndex > len(ir.Samples) {
		return ir, fmt.Errorf("metadata missing or malformed")
	}
	return ir, nil
}

// Wave squares every sample from the peak on into the energy buffer of a
// wave object sampled at 1/SampleInterval
func (ir ImpulseResponse) Wave() (*diffusion.WaveObject, error) {
	sampleRate := int(1/ir.SampleInterval + 0.5)
	wave, err := diffusion.NewWaveObject(sampleRate)
	if err != nil {
		return nil, err
	}
	for i, v := range ir.Samples[ir.PeakIndex:] {
		if err := wave.AddEnergyAtTime(float64(i)/float64(sampleRate), v*v); err != nil {
			return nil, err
		}
	}
	return wave, nil
}

func main() {
	flag.Set("logtostderr", "true")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ir_level <impulse_response_file>")
	}
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		glog.Exitf("opening impulse response: %v", err)
	}
	defer f.Close()

	ir, err := ParseImpulseResponse(f)
	if err != nil {
		glog.Exitf("parse error: %v", err)
	}
	wave, err := ir.Wave()
	if err != nil {
		glog.Exitf("building wave: %v", err)
	}
	fmt.Printf("%d samples at %d Hz: %.2f dB\n", len(ir.Samples)-ir.PeakIndex, wave.SampleRate(), wave.TotalPressureLevel())
}
