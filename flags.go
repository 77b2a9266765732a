package main

import "time"

// Command-line flags. Persistent flags apply to every command and override
// the matching configuration values when set.
var (
	// configPath is the YAML configuration file; a missing file means defaults.
	configPath string

	// verbose forces debug logging regardless of the configured level.
	verbose bool

	// seedFlag fixes the world seed when non-zero.
	seedFlag int64

	// storeFlag overrides the scene database path.
	storeFlag string

	// debugFlag enables the FPS and simulation overlay.
	debugFlag bool

	// enableAudioFlag toggles live sonification of the bands.
	enableAudioFlag bool

	// sceneFlag starts the window from a stored scene instead of random bands.
	sceneFlag string

	// cpuProfilePath writes a CPU profile for the whole run when set.
	cpuProfilePath string

	// recordDefaultPGO drives scripted activity for 15s while capturing default.pgo.
	recordDefaultPGO bool

	headlessTicks  int
	headlessExport string
	headlessScene  string

	audioOut      string
	audioDuration time.Duration
	audioFPS      int

	sweepSeeds   int
	sweepTicks   int
	sweepWorkers int

	sceneLimit int
)
