package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	asrc "github.com/tphakala/go-asrc"
)

func baseOptions(mode asrc.OperationMode) simOptions {
	return simOptions{
		mode:     mode,
		primRate: 48000,
		secRate:  44100,
		channels: 1,
		block:    defaultBlock,
		periods:  4000,
		driftPPM: 150,
		kp:       defaultKp,
		ki:       defaultKi,
	}
}

func TestSecondaryClock(t *testing.T) {
	c := newSecondaryClock(simOptions{primRate: 48000, secRate: 44100, block: 480})
	total := 0
	for range 100 {
		n := c.next()
		assert.Equal(t, 441, n)
		total += n
	}
	assert.Equal(t, 44100, total)

	c = newSecondaryClock(simOptions{primRate: 48000, secRate: 44100, block: 480, driftPPM: 1000})
	total = 0
	for range 1000 {
		total += c.next()
	}
	assert.InDelta(t, 441441, total, 1)
}

func TestController(t *testing.T) {
	c := &controller{kp: 2, ki: 0.5, sign: 1}
	assert.InDelta(t, 25, c.update(110, 100), 1e-9)
	assert.InDelta(t, 5, c.integ, 1e-9)
	assert.InDelta(t, 5, c.update(100, 100), 1e-9)

	c = &controller{kp: 1e6, sign: -1}
	assert.InDelta(t, -maxCorrectionPPM, c.update(10, 0), 1e-9)
}

func TestSimulate_FeedbackTracksDrift(t *testing.T) {
	for _, mode := range []asrc.OperationMode{asrc.Push, asrc.Pull} {
		t.Run(mode.String(), func(t *testing.T) {
			stats, err := simulate(baseOptions(mode))
			require.NoError(t, err)

			assert.Zero(t, stats.overruns)
			assert.Zero(t, stats.underruns)
			assert.Zero(t, stats.missedCycles)
			assert.InDelta(t, stats.target, stats.finalFill, 20)
			assert.InDelta(t, 150, stats.estimatePPM, 15)
		})
	}
}

func TestSimulate_FixedModeIsExact(t *testing.T) {
	for _, mode := range []asrc.OperationMode{asrc.Push, asrc.Pull} {
		t.Run(mode.String(), func(t *testing.T) {
			o := baseOptions(mode)
			o.fixed = true
			o.periods = 500

			stats, err := simulate(o)
			require.NoError(t, err)
			assert.Zero(t, stats.missedCycles)
			assert.Zero(t, stats.underruns)
			assert.Zero(t, stats.overruns)

			want := 0
			if mode == asrc.Pull {
				want = stats.target
			}
			assert.Equal(t, want, stats.finalFill, "every period moves exactly the secondary frame count")
		})
	}
}

func TestSimulate_UnsupportedRates(t *testing.T) {
	o := baseOptions(asrc.Push)
	o.secRate = 44000
	_, err := simulate(o)
	assert.ErrorIs(t, err, asrc.ErrInvalidSampleRate)
}

func TestParseMode(t *testing.T) {
	m, err := parseMode("PULL")
	require.NoError(t, err)
	assert.Equal(t, asrc.Pull, m)
	_, err = parseMode("sideways")
	assert.Error(t, err)
}
