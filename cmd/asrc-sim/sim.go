package main

import (
	"errors"
	"fmt"
	"math"

	asrc "github.com/tphakala/go-asrc"
)

// simOptions describes one simulated link between two free-running clocks.
type simOptions struct {
	mode     asrc.OperationMode
	fixed    bool
	primRate int
	secRate  int
	channels int
	block    int
	periods  int
	driftPPM float64
	kp, ki   float64
}

// simStats summarises a simulation run.
type simStats struct {
	periods       int
	primFrames    int64
	secFrames     int64
	overruns      int
	underruns     int
	missedCycles  int
	finalFill     int
	target        int
	estimatePPM   float64
	lastCorrected float64
}

// secondaryClock yields the number of secondary frames due in each period
// of the primary clock, carrying the fractional remainder.
type secondaryClock struct {
	perPeriod float64
	acc       float64
}

func newSecondaryClock(o simOptions) *secondaryClock {
	rate := float64(o.secRate) * (1 + o.driftPPM*1e-6)
	return &secondaryClock{perPeriod: rate * float64(o.block) / float64(o.primRate)}
}

func (c *secondaryClock) next() int {
	c.acc += c.perPeriod
	n := int(c.acc)
	c.acc -= float64(n)
	return n
}

// controller is a PI loop that holds the secondary buffer at its target
// fill by steering the converter skew.
type controller struct {
	kp, ki float64
	integ  float64
	sign   float64
}

// update returns the correction in ppm for the current fill error.
func (c *controller) update(fill, target int) float64 {
	e := float64(fill - target)
	c.integ = clampPPM(c.integ + c.ki*e)
	return c.sign * clampPPM(c.kp*e+c.integ)
}

func clampPPM(v float64) float64 {
	return math.Max(-maxCorrectionPPM, math.Min(maxCorrectionPPM, v))
}

// simulate runs the link for o.periods primary periods.
func simulate(o simOptions) (*simStats, error) {
	fsIn, fsOut := o.primRate, o.secRate
	if o.mode == asrc.Pull {
		fsIn, fsOut = o.secRate, o.primRate
	}
	maxPeriod := o.block * max(o.primRate, o.secRate) / o.primRate
	length := bufferPeriods * (maxPeriod + 2)

	cfg := asrc.Config{
		NumChannels:   o.channels,
		FsPrim:        o.primRate,
		FsSec:         o.secRate,
		InputFormat:   asrc.Interleaved,
		OutputFormat:  asrc.Interleaved,
		BufferMode:    asrc.Circular,
		BufferLength:  length,
		BitDepth:      32,
		ControlMode:   asrc.Feedback,
		OperationMode: o.mode,
	}
	if o.fixed {
		cfg.ControlMode = asrc.Fixed
	}
	conv, err := asrc.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create converter (%d Hz -> %d Hz): %w", fsIn, fsOut, err)
	}
	sb, err := asrc.NewSecondaryBuffer[int32](cfg)
	if err != nil {
		return nil, err
	}

	l := &link{
		opts:   o,
		conv:   conv,
		sb:     sb,
		clock:  newSecondaryClock(o),
		ctl:    &controller{kp: o.kp, ki: o.ki, sign: 1},
		prim:   make([]int32, o.block*o.channels),
		sec:    make([]int32, (maxPeriod+2)*o.channels),
		target: length / 2,
	}
	if o.mode == asrc.Pull {
		l.ctl.sign = -1
	}
	return l.run()
}

type link struct {
	opts   simOptions
	conv   *asrc.Converter
	sb     *asrc.SecondaryBuffer[int32]
	clock  *secondaryClock
	ctl    *controller
	prim   []int32
	sec    []int32
	target int
	phase  float64
}

// tone fills buf with the next stretch of a sine at rate.
func (l *link) tone(buf []int32, frames, rate int) {
	step := 2 * math.Pi * testSignalFrequency / float64(rate)
	for f := range frames {
		v := int32(testSignalAmplitude * math.MaxInt32 * math.Sin(l.phase))
		for ch := range l.opts.channels {
			buf[f*l.opts.channels+ch] = v
		}
		l.phase = math.Mod(l.phase+step, 2*math.Pi)
	}
}

func (l *link) run() (*simStats, error) {
	o := l.opts
	stats := &simStats{target: l.target}

	// Pull links start with the secondary buffer half full.
	if o.mode == asrc.Pull {
		clear(l.sec)
		for l.sb.Available() < l.target {
			n := min(l.target-l.sb.Available(), len(l.sec)/o.channels)
			if _, err := l.sb.Write([][]int32{l.sec}, n); err != nil {
				return nil, err
			}
		}
	}

	started := o.mode == asrc.Pull
	var estimate float64
	for p := range o.periods {
		n := l.clock.next()

		var err error
		if o.mode == asrc.Push {
			started, err = l.pushPeriod(n, started, stats)
		} else {
			err = l.pullPeriod(n, stats)
		}
		if err != nil {
			if !errors.Is(err, asrc.ErrFailedPushMode) && !errors.Is(err, asrc.ErrFailedPullMode) {
				return nil, fmt.Errorf("period %d: %w", p, err)
			}
			stats.missedCycles++
		}

		stats.primFrames += int64(o.block)
		stats.secFrames += int64(n)
		if o.fixed || !started {
			continue
		}

		ppm := l.ctl.update(l.sb.Available(), l.target)
		if err := l.conv.UpdateDrift(asrc.SkewFromPPM(ppm)); err != nil {
			return nil, fmt.Errorf("period %d: %w", p, err)
		}
		stats.lastCorrected = ppm
		if p >= settlePeriods {
			estimate += -ppm
		}
	}

	stats.periods = o.periods
	stats.finalFill = l.sb.Available()
	if settled := o.periods - settlePeriods; settled > 0 && !o.fixed {
		stats.estimatePPM = estimate / float64(settled)
	}
	return stats, nil
}

// pushPeriod converts one primary period into the secondary buffer and
// lets the secondary side drain n frames once the buffer reached its
// target.
func (l *link) pushPeriod(n int, started bool, stats *simStats) (bool, error) {
	o := l.opts
	l.tone(l.prim, o.block, o.primRate)

	var convErr error
	if o.fixed {
		if err := l.conv.UpdateFsRatio(o.block, n); err != nil {
			return started, err
		}
	}
	if l.sb.Free() == 0 {
		stats.overruns++
	} else {
		res, err := l.conv.ProcessPush32([][]int32{l.prim}, l.sb.Buffers(), o.block, l.sb.Indices())
		if err != nil && !errors.Is(err, asrc.ErrFailedPushMode) {
			return started, err
		}
		convErr = err
		l.sb.Produced(res.OutputFrames)
		if res.InputFrames < o.block {
			stats.overruns++
		}
	}

	if !started && l.sb.Available() < l.target && !o.fixed {
		return false, convErr
	}
	got, err := l.sb.Read([][]int32{l.sec}, n)
	if err != nil {
		return true, err
	}
	if got < n {
		stats.underruns++
	}
	return true, convErr
}

// pullPeriod lets the secondary side deliver n frames and converts one
// primary period out of the secondary buffer.
func (l *link) pullPeriod(n int, stats *simStats) error {
	o := l.opts
	l.tone(l.sec, n, o.secRate)
	written, err := l.sb.Write([][]int32{l.sec}, n)
	if err != nil {
		return err
	}
	if written < n {
		stats.overruns++
	}

	if o.fixed {
		if err := l.conv.UpdateFsRatio(o.block, n); err != nil {
			return err
		}
	}
	res, err := l.conv.ProcessPull32(l.sb.Buffers(), [][]int32{l.prim}, o.block, l.sb.Indices())
	l.sb.Consumed(res.InputFrames)
	if res.OutputFrames < o.block {
		stats.underruns++
	}
	return err
}
