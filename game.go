package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"

	"wigglybands/internal/config"
	"wigglybands/internal/sim"
	"wigglybands/internal/store"
	"wigglybands/internal/synth"
)

// Game wires the band world to the window, the audio device, the scene store
// and the config watcher.
type Game struct {
	world  *sim.World
	cfg    *config.Config
	log    *zap.Logger
	seed   int64
	scenes *store.DB
	rand   *rand.Rand

	lastSimDuration   time.Duration
	simStepMultiplier int
	paused            bool

	autoSpawnEvery time.Duration
	autoSpawnAcc   float64

	autoPlay           bool
	autoPlayDeadline   time.Time
	autoPlayFrameCount int

	reloads     chan *config.Config
	overrides   func(*config.Config)
	cancelWatch context.CancelFunc
	watchDone   chan struct{}

	status      string
	statusUntil time.Time

	audioCtx    *audio.Context
	audioStream *bandAudioStream
	audioPlayer *audio.Player
}

// newGame constructs a Game around an already populated world. db may be nil,
// in which case scene keys only report that the store is unavailable.
func newGame(world *sim.World, seed int64, db *store.DB) *Game {
	g := &Game{
		world:             world,
		cfg:               cfg,
		log:               logger.Named("game"),
		seed:              seed,
		scenes:            db,
		rand:              rand.New(rand.NewSource(seed + 1)),
		simStepMultiplier: defaultSimMultiplier,
		reloads:           make(chan *config.Config, 1),
	}
	every, err := cfg.AutoSpawnInterval()
	if err != nil {
		g.log.Warn("auto spawn disabled", zap.Error(err))
	}
	g.autoSpawnEvery = every

	if cfg.Audio.Enabled {
		ctx := audio.NewContext(cfg.Audio.SampleRate)
		g.audioCtx = ctx
		stream := newBandAudioStream(synth.NewBank(beep.SampleRate(cfg.Audio.SampleRate), cfg.Audio.Volume))
		g.audioStream = stream
		if player, err := ctx.NewPlayer(stream); err != nil {
			g.log.Warn("audio player creation failed", zap.Error(err))
		} else {
			g.audioPlayer = player
			g.audioPlayer.SetBufferSize(audioBufferDuration)
			g.audioPlayer.Play()
		}
	}
	return g
}

// Update applies pending config reloads and input, then advances the world
// simStepMultiplier fixed steps and retargets the audio voices.
func (g *Game) Update() error {
	g.applyReloads()
	g.handleInput()
	g.handleDebugControls()
	if g.autoPlay {
		g.stepAutoPlay()
	}

	if !g.paused {
		dt := 1 / defaultTPS
		simStart := time.Now()
		for i := 0; i < g.simStepMultiplier; i++ {
			g.world.Step(dt)
			g.stepAutoSpawn(dt)
		}
		g.lastSimDuration = time.Since(simStart)
	}

	if g.audioStream != nil {
		g.audioStream.SetVoices(synth.VoicesFor(g.world.Bands(), g.cfg.Audio.MaxVoices))
	}
	return nil
}

// stepAutoSpawn adds a random band every autoSpawnEvery of simulated time
// while the world is below the configured cap.
func (g *Game) stepAutoSpawn(dt float64) {
	if !g.cfg.Simulation.AutoSpawn || g.autoSpawnEvery <= 0 {
		return
	}
	g.autoSpawnAcc += dt
	if g.autoSpawnAcc < g.autoSpawnEvery.Seconds() {
		return
	}
	g.autoSpawnAcc = 0
	if g.cfg.Simulation.MaxBands <= 0 || g.world.Len() < g.cfg.Simulation.MaxBands {
		g.world.AddRandomBand()
	}
}

// watchConfig reloads the configuration file in the background. Reloaded
// configs are handed to the frame loop, which owns the world.
func (g *Game) watchConfig(parent context.Context, path string) {
	ctx, cancel := context.WithCancel(parent)
	g.cancelWatch = cancel
	g.watchDone = make(chan struct{})
	go func() {
		defer close(g.watchDone)
		err := config.Watch(ctx, path, func(c *config.Config, err error) {
			if err != nil {
				g.log.Warn("config reload failed", zap.Error(err))
				return
			}
			select {
			case g.reloads <- c:
			default:
			}
		})
		if err != nil {
			g.log.Warn("config watcher stopped", zap.String("path", path), zap.Error(err))
		}
	}()
}

// applyReloads swaps in a reloaded config with the command line overrides
// applied on top. Bands keep their state.
func (g *Game) applyReloads() {
	var c *config.Config
	select {
	case c = <-g.reloads:
	default:
		return
	}
	if g.overrides != nil {
		g.overrides(c)
	}
	var every time.Duration
	s, err := c.Settings()
	if err == nil {
		every, err = c.AutoSpawnInterval()
	}
	if err == nil {
		err = g.world.SetSettings(s)
	}
	if err != nil {
		g.log.Warn("reloaded config rejected", zap.Error(err))
		g.flash("config rejected")
		return
	}
	g.cfg = c
	g.autoSpawnEvery = every
	if g.audioStream != nil {
		g.audioStream.bank.SetVolume(c.Audio.Volume)
	}
	g.log.Info("config reloaded")
	g.flash("config reloaded")
}

// flash shows a short status line in the overlay.
func (g *Game) flash(msg string) {
	g.status = msg
	g.statusUntil = time.Now().Add(statusDuration)
}

// Close stops the watcher and releases the audio player.
func (g *Game) Close() {
	if g.cancelWatch != nil {
		g.cancelWatch()
		<-g.watchDone
	}
	if g.audioPlayer != nil {
		if err := g.audioPlayer.Close(); err != nil {
			g.log.Warn("audio player close failed", zap.Error(err))
		}
	}
}
