package main

// Default command-line flag values
const (
	defaultPrimRate = 48000
	defaultSecRate  = 44100
	defaultChannels = 2
	defaultBlock    = 480 // primary frames per period, 10 ms at 48 kHz
	defaultSeconds  = 30.0
	defaultDriftPPM = 100.0
)

// Control loop
const (
	// Proportional gain in ppm per frame of fill error.
	defaultKp = 20.0

	// Integral gain in ppm per frame of fill error per period.
	defaultKi = 0.05

	// Largest correction the controller applies.
	maxCorrectionPPM = 2000.0

	// Secondary buffer length in periods of the faster clock.
	bufferPeriods = 8

	// Periods skipped before the drift estimate is averaged.
	settlePeriods = 1000
)

// Test signal parameters
const (
	testSignalFrequency = 1000.0
	testSignalAmplitude = 0.5
)

// Demo channel configurations
const (
	monoChannels   = 1
	stereoChannels = 2
	surround5_1    = 6
	surround7_1    = 8
)

// Memory conversion
const (
	bytesPerKilobyte = 1024
)
