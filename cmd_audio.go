package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wigglybands/internal/synth"
)

var renderAudioCmd = &cobra.Command{
	Use:   "render-audio",
	Short: "Render the sound of a headless run to a WAV file",
	Args:  cobra.NoArgs,
	RunE:  runRenderAudio,
}

func init() {
	f := renderAudioCmd.Flags()
	f.StringVarP(&audioOut, "out", "o", "wigglybands.wav", "output WAV file")
	f.DurationVar(&audioDuration, "duration", 30*time.Second, "length of the recording")
	f.IntVar(&audioFPS, "fps", int(defaultTPS), "world steps per second of audio")
}

func runRenderAudio(cmd *cobra.Command, args []string) error {
	if audioDuration <= 0 {
		return fmt.Errorf("duration %s must be positive", audioDuration)
	}
	world, seed, err := newWorld()
	if err != nil {
		return err
	}
	defer world.Close()

	rate := beep.SampleRate(cfg.Audio.SampleRate)
	bank := synth.NewBank(rate, cfg.Audio.Volume)
	perf := synth.NewPerformance(world, bank, audioDuration, audioFPS, cfg.Audio.MaxVoices)

	f, err := os.Create(audioOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", audioOut, err)
	}
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, perf, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", audioOut, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	info, err := os.Stat(audioOut)
	if err != nil {
		return err
	}
	logger.Info("audio rendered",
		zap.String("path", audioOut),
		zap.Int64("seed", seed),
		zap.Duration("duration", audioDuration),
		zap.String("size", humanize.Bytes(uint64(info.Size()))),
		zap.Int("bands", world.Len()))
	return nil
}
