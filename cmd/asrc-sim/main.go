// Command asrc-sim simulates an ASRC between two free-running clocks.
//
// A primary side runs in fixed periods while the secondary side drifts by
// a configurable amount. In feedback mode a PI loop watches the secondary
// buffer fill and steers the converter with UpdateDrift; the averaged
// correction is the drift estimate. In fixed mode every period is armed
// with UpdateFsRatio from the exact frame counts.
//
// Usage:
//
//	asrc-sim -mode push -sec 44100 -drift 150
//	asrc-sim -mode pull -fixed -seconds 5
//	asrc-sim -demo
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	asrc "github.com/tphakala/go-asrc"
)

func main() {
	var (
		mode     = flag.String("mode", "push", "Operation mode: push or pull")
		fixed    = flag.Bool("fixed", false, "Arm each period with exact frame counts instead of the feedback loop")
		prim     = flag.Int("prim", defaultPrimRate, "Primary sample rate in Hz")
		sec      = flag.Int("sec", defaultSecRate, "Secondary sample rate in Hz")
		channels = flag.Int("channels", defaultChannels, "Number of audio channels")
		block    = flag.Int("block", defaultBlock, "Primary frames per period")
		seconds  = flag.Float64("seconds", defaultSeconds, "Simulated duration in seconds")
		drift    = flag.Float64("drift", defaultDriftPPM, "Secondary clock deviation in ppm")
		kp       = flag.Float64("kp", defaultKp, "Proportional gain, ppm per frame")
		ki       = flag.Float64("ki", defaultKi, "Integral gain, ppm per frame per period")
		demo     = flag.Bool("demo", false, "Print the converter setup for every rate pair")
	)
	flag.Parse()

	if *demo {
		runDemo()
		return
	}

	opMode, err := parseMode(*mode)
	if err != nil {
		log.Fatal(err)
	}

	opts := simOptions{
		mode:     opMode,
		fixed:    *fixed,
		primRate: *prim,
		secRate:  *sec,
		channels: *channels,
		block:    *block,
		periods:  int(*seconds * float64(*prim) / float64(*block)),
		driftPPM: *drift,
		kp:       *kp,
		ki:       *ki,
	}

	stats, err := simulate(opts)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	control := "feedback"
	if opts.fixed {
		control = "fixed"
	}
	fmt.Printf("Simulated %d periods (%s, %s)\n", stats.periods, opMode, control)
	fmt.Printf("  Primary: %d Hz, %d frames\n", opts.primRate, stats.primFrames)
	fmt.Printf("  Secondary: %d Hz %+.1f ppm, %d frames\n", opts.secRate, opts.driftPPM, stats.secFrames)
	fmt.Printf("  Buffer fill: %d (target %d)\n", stats.finalFill, stats.target)
	fmt.Printf("  Overruns: %d, Underruns: %d, Missed cycles: %d\n", stats.overruns, stats.underruns, stats.missedCycles)
	if !opts.fixed {
		fmt.Printf("  Estimated drift: %+.2f ppm (last correction %+.2f ppm)\n", stats.estimatePPM, stats.lastCorrected)
	}
}

func parseMode(s string) (asrc.OperationMode, error) {
	switch strings.ToLower(s) {
	case "push":
		return asrc.Push, nil
	case "pull":
		return asrc.Pull, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

func runDemo() {
	fmt.Println("=== ASRC Demo ===")

	fmt.Println("\n1. Conversions")
	fmt.Println("--------------")

	rates := asrc.SupportedRates()
	for _, mode := range []asrc.OperationMode{asrc.Push, asrc.Pull} {
		fmt.Printf("\n%s mode:\n", mode)
		for _, p := range rates {
			for _, s := range rates {
				cfg := demoConfig(stereoChannels, p, s, mode)
				c, err := asrc.New(cfg)
				if err != nil {
					fmt.Printf("  %5d -> %5d: %v\n", p, s, err)
					continue
				}
				info := c.Info()
				fmt.Printf("  %5d -> %5d: %-11s %3d taps, %d polynomials, ratio %.6f, latency %d\n",
					p, s, info.Conversion, info.FilterLength, info.NumFilters, c.Ratio().Float64(), info.Latency)
			}
		}
	}

	fmt.Println("\n2. Memory")
	fmt.Println("---------")

	for _, ch := range []int{monoChannels, stereoChannels, surround5_1, surround7_1} {
		c, err := asrc.New(demoConfig(ch, 48000, 44100, asrc.Push))
		if err != nil {
			fmt.Printf("  %d channels: Error - %v\n", ch, err)
			continue
		}
		bound, err := asrc.RequiredSize(ch, 32)
		if err != nil {
			fmt.Printf("  %d channels: Error - %v\n", ch, err)
			continue
		}
		fmt.Printf("  %d channels: %.1f KB used, %.1f KB bound\n",
			ch, float64(c.MemoryUsage())/bytesPerKilobyte, float64(bound)/bytesPerKilobyte)
	}

	fmt.Printf("\nCPU: %s\n", func() string {
		c, err := asrc.New(demoConfig(stereoChannels, 48000, 44100, asrc.Push))
		if err != nil {
			return err.Error()
		}
		return c.Info().CPU
	}())

	fmt.Println("\n=== Demo Complete ===")
}

func demoConfig(channels, prim, sec int, mode asrc.OperationMode) asrc.Config {
	return asrc.Config{
		NumChannels:   channels,
		FsPrim:        prim,
		FsSec:         sec,
		InputFormat:   asrc.Interleaved,
		OutputFormat:  asrc.Interleaved,
		BufferMode:    asrc.Circular,
		BufferLength:  defaultBlock * 8,
		BitDepth:      32,
		ControlMode:   asrc.Feedback,
		OperationMode: mode,
	}
}
