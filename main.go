package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wigglybands/internal/config"
	"wigglybands/internal/sim"
	"wigglybands/internal/store"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd opens the interactive window.
var rootCmd = &cobra.Command{
	Use:   "wigglybands",
	Short: "Oscillating bands that merge, ring, tether and oscillate on contact",
	Long: `wigglybands simulates elliptical bands that drift under a charge field
and resolve every collision by their frequency ratio: harmonious pairs may form
rings, tethers or oscillators, the rest may merge.

Run without a subcommand to open the window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlagOverrides(cfg, cmd)

		logger, err = newLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runGame,
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(c *config.Config, cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		c.Simulation.Seed = seedFlag
	}
	if flags.Changed("store") {
		c.Store.Path = storeFlag
	}
	if flags.Changed("audio") {
		c.Audio.Enabled = enableAudioFlag
	}
	if flags.Changed("debug") {
		c.Render.ShowOverlay = debugFlag
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "wigglybands.yaml", "configuration file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.Int64Var(&seedFlag, "seed", 0, "world seed (0 picks one from the clock)")
	pf.StringVar(&storeFlag, "store", "", "scene database path")

	f := rootCmd.Flags()
	f.BoolVar(&debugFlag, "debug", true, "show FPS and simulation overlay")
	f.BoolVar(&enableAudioFlag, "audio", true, "sonify the bands")
	f.StringVar(&sceneFlag, "scene", "", "start from a stored scene id")
	f.StringVar(&cpuProfilePath, "cpuprofile", "", "write a CPU profile to this file")
	f.BoolVar(&recordDefaultPGO, "record-default-pgo", false, "drive scripted activity for 15s while capturing default.pgo")

	rootCmd.AddCommand(headlessCmd)
	rootCmd.AddCommand(renderAudioCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(sceneCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the zap logger described by the logging section.
func newLogger(c config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// newWorld builds a world from the loaded configuration and seeds it with
// the configured number of random bands.
func newWorld() (*sim.World, int64, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, 0, err
	}
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w, err := sim.NewWorld(settings, seed, sim.WithLogger(logger.Named("sim")))
	if err != nil {
		return nil, 0, err
	}
	for i := 0; i < cfg.Simulation.InitialBands; i++ {
		w.AddRandomBand()
	}
	return w, seed, nil
}

// openStore opens the scene database. Failure is returned to the caller,
// which decides whether scenes are optional.
func openStore() (*store.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return store.Open(cfg.Store.Path)
}

// runGame opens the window and runs the frame loop until it is closed.
func runGame(cmd *cobra.Command, args []string) error {
	if cpuProfilePath != "" || recordDefaultPGO {
		path := cpuProfilePath
		if path == "" {
			path = "default.pgo"
		}
		stop, err := startCPUProfile(path)
		if err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		defer stop()
	}

	world, seed, err := newWorld()
	if err != nil {
		return err
	}
	defer world.Close()

	db, err := openStore()
	if err != nil {
		logger.Warn("scene store unavailable", zap.String("path", cfg.Store.Path), zap.Error(err))
		db = nil
	} else {
		defer db.Close()
	}

	if sceneFlag != "" {
		if db == nil {
			return fmt.Errorf("cannot load scene %s without a store", sceneFlag)
		}
		_, snap, err := db.LoadScene(cmd.Context(), sceneFlag)
		if err != nil {
			return err
		}
		if err := world.Restore(snap); err != nil {
			return err
		}
	}

	g := newGame(world, seed, db)
	defer g.Close()
	g.overrides = func(c *config.Config) { applyFlagOverrides(c, cmd) }
	g.watchConfig(cmd.Context(), configPath)
	if recordDefaultPGO {
		g.enableAutoPlay(pgoRecordDuration)
	}

	s := world.Settings()
	ebiten.SetWindowTitle("wigglybands")
	ebiten.SetWindowSize(int(s.Bounds.Width*cfg.Render.Scale), int(s.Bounds.Height*cfg.Render.Scale))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(defaultTPS))
	logger.Info("starting", zap.Int64("seed", seed), zap.Int("bands", world.Len()))
	return ebiten.RunGame(g)
}
