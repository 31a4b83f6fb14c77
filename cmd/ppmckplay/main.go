package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli"

	"apu2a03/internal/apu"
	"apu2a03/internal/audio"
	"apu2a03/internal/config"
	"apu2a03/internal/driver"
	"apu2a03/internal/glue"
	"apu2a03/internal/memory"
	"apu2a03/internal/version"
	"apu2a03/internal/wavefile"
)

func main() {
	app := cli.NewApp()
	app.Name = "ppmckplay"
	app.Usage = "ppmckplay [options] <rom file>"
	app.Description = "Renders a PPMCK music ROM through a 2A03 audio core, to a sound card and/or a WAVE file."
	app.Version = version.GetVersion()
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "path to the JSON settings file (created with defaults if missing)",
			Value: config.DefaultConfigPath(),
		},
		cli.StringFlag{
			Name:  "rom",
			Usage: "path to the 32KiB program-memory image",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "path to write a WAVE file (defaults under the config's output directory; omit entirely with an empty value to skip file output)",
		},
		cli.Float64Flag{
			Name:  "seconds",
			Usage: "length of render, in seconds",
			Value: 60,
		},
		cli.IntFlag{
			Name:  "sample-rate",
			Usage: "output sample rate in Hz (defaults to the config's audio.sample_rate)",
		},
		cli.BoolFlag{
			Name:  "no-audio",
			Usage: "do not open a sound-card sink, only render to --out (defaults to the inverse of the config's audio.enabled)",
		},
		cli.Float64Flag{
			Name:  "volume",
			Usage: "live sink volume, 0..1 (defaults to the config's audio.volume)",
			Value: -1,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("ppmckplay failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.New()
	if err := cfg.LoadFromFile(c.String("config")); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}
	if !filepath.IsAbs(romPath) && cfg.Paths.ROMs != "" {
		if _, err := os.Stat(romPath); os.IsNotExist(err) {
			romPath = filepath.Join(cfg.Paths.ROMs, romPath)
		}
	}

	sampleRate := c.Int("sample-rate")
	if sampleRate <= 0 {
		sampleRate = cfg.Audio.SampleRate
	}
	seconds := c.Float64("seconds")
	if seconds <= 0 {
		return errors.New("--seconds must be positive")
	}

	mem := memory.New()
	if err := mem.LoadFromFile(romPath); err != nil {
		return fmt.Errorf("loading program memory: %w", err)
	}

	core := apu.New(mem, sampleRate)
	interp := driver.New(mem, core)
	clock := glue.New(core, interp)

	outPath := c.String("out")
	if !c.IsSet("out") {
		name := filepath.Base(romPath)
		name = name[:len(name)-len(filepath.Ext(name))] + ".wav"
		outPath = filepath.Join(cfg.Paths.Output, name)
	}
	var wav *wavefile.Writer
	if outPath != "" {
		var err error
		wav, err = wavefile.Create(outPath, sampleRate)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer wav.Close()
	}

	disableAudio := c.Bool("no-audio")
	if !c.IsSet("no-audio") {
		disableAudio = !cfg.Audio.Enabled
	}
	volume := float32(c.Float64("volume"))
	if volume < 0 {
		volume = cfg.Audio.Volume
	}
	var sink *audio.Sink
	if !disableAudio {
		var err error
		sink, err = audio.NewSink(sampleRate, cfg.Audio.BufferSize)
		if err != nil {
			slog.Warn("no sound-card sink available, continuing without live playback", "error", err)
		} else {
			sink.SetVolume(volume)
			defer sink.Close()
		}
	}

	totalSamples := int(seconds * float64(sampleRate))
	buf := make([]float32, glue.FrameCycles)
	rendered := 0
	start := time.Now()

	for rendered < totalSamples {
		n, irq := clock.RunFrame(buf)
		if irq {
			slog.Debug("DMC IRQ observed")
		}
		frame := buf[:n]
		if rendered+n > totalSamples {
			frame = frame[:totalSamples-rendered]
		}

		if wav != nil {
			if err := wav.WriteSamples(frame); err != nil {
				return fmt.Errorf("writing samples: %w", err)
			}
		}
		if sink != nil {
			sink.Push(frame)
		}

		rendered += len(frame)
	}

	slog.Info("render complete", "samples", rendered, "seconds", seconds, "elapsed", time.Since(start))
	return nil
}
