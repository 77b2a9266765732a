package main

import "time"

// Runtime and rendering constants for the interactive window. Simulation
// tuning lives in the YAML configuration; these values only shape how the
// frame loop drives and draws it.
const (
	defaultTPS           = 60.0
	defaultSimMultiplier = 1
	simMultiplierStep    = 1
	minSimMultiplier     = 1
	maxSimMultiplier     = 16
	pgoRecordDuration    = 15 * time.Second
	autoPlayActionFrames = 12
	statusDuration       = 2 * time.Second
	clickSpeed           = 1.5
	wiggleDepth          = 0.12
	minLobes             = 3
	maxLobes             = 12
	outlineWidth         = 2
	memberOutlineWidth   = 1.25
	tetherWidth          = 1
	tetherSag            = 0.5
	audioBufferDuration  = 80 * time.Millisecond
	pcm16MaxValue        = 32767
	pcm16MinValue        = -32768
	sweepTickDefault     = 3600
)
