// Command rackrender renders a sine tone through one of the rack units and
// writes the result as a mono WAV file.
//
// Usage:
//
//	rackrender [flags] output.wav
//
// Examples:
//
//	rackrender -model lockhart -gain 4 -stages 2 fold.wav
//	rackrender -model serge -oversample 1 -report serge-1x.wav
//	rackrender -model ladder -cutoff 0.4 -res 0.9 -tone 55 ladder.wav
//	rackrender -model delay -delay-ms 120 -feedback 0.7 echo.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cwbudde/algo-rackdsp/measure/alias"
	"github.com/sirupsen/logrus"
)

const minRequiredArgs = 1

var models = []string{"linear", "lockhart", "serge", "ladder", "delay"}

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if err := run(os.Args[1:], os.Stdout, log); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		log.WithError(err).Error("render failed")
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, log *logrus.Logger) error {
	cfg := defaultRenderConfig()

	fs := flag.NewFlagSet("rackrender", flag.ContinueOnError)
	fs.SetOutput(stdout)

	fs.StringVar(&cfg.Model, "model", cfg.Model, "unit to render: "+strings.Join(models, ", "))
	fs.Float64Var(&cfg.SampleRate, "rate", cfg.SampleRate, "sample rate in Hz")
	fs.IntVar(&cfg.BlockSize, "block", cfg.BlockSize, "processing block size in samples")
	duration := fs.Duration("duration", 2*time.Second, "rendered length")
	fs.Float64Var(&cfg.ToneHz, "tone", cfg.ToneHz, "test tone frequency in Hz")
	fs.Float64Var(&cfg.Amplitude, "amp", cfg.Amplitude, "test tone amplitude in volts")
	bitDepth := fs.Int("bits", 24, "output bit depth (16 or 24)")

	fs.Float64Var(&cfg.Gain, "gain", cfg.Gain, "waveshaper input gain")
	fs.Float64Var(&cfg.Bias, "bias", cfg.Bias, "waveshaper input bias in volts")
	fs.Float64Var(&cfg.K, "k", cfg.K, "waveshaper output drive")
	fs.Float64Var(&cfg.AmpPos, "amp-pos", cfg.AmpPos, "waveshaper positive half-wave boost")
	fs.Float64Var(&cfg.AmpNeg, "amp-neg", cfg.AmpNeg, "waveshaper negative half-wave boost")
	fs.IntVar(&cfg.Stages, "stages", cfg.Stages, "waveshaper fold stages")
	fs.IntVar(&cfg.Oversampling, "oversample", cfg.Oversampling, "waveshaper oversampling factor")
	fs.BoolVar(&cfg.BlockDC, "block-dc", cfg.BlockDC, "enable the waveshaper DC blocker")

	fs.Float64Var(&cfg.Cutoff, "cutoff", cfg.Cutoff, "ladder frequency knob [0, 1]")
	fs.Float64Var(&cfg.Resonance, "res", cfg.Resonance, "ladder resonance knob [0, 1]")
	fs.Float64Var(&cfg.Drive, "drive", cfg.Drive, "ladder drive knob [0, 1]")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "ladder noise seed")

	fs.Float64Var(&cfg.DelayMS, "delay-ms", cfg.DelayMS, "delay time in milliseconds")
	fs.Float64Var(&cfg.Feedback, "feedback", cfg.Feedback, "delay feedback gain")
	fs.Float64Var(&cfg.Mix, "mix", cfg.Mix, "delay wet/dry mix [0, 1]")

	report := fs.Bool("report", false, "print an aliasing report of the rendered signal")
	verbose := fs.Bool("v", false, "verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: rackrender [flags] output.wav\n\n")
		fmt.Fprintf(fs.Output(), "Renders a sine tone through a rack unit and writes a mono WAV file.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < minRequiredArgs {
		fs.Usage()
		return errors.New("missing output path")
	}

	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	path := fs.Arg(0)
	cfg.Samples = int(duration.Seconds() * cfg.SampleRate)

	log.WithFields(logrus.Fields{
		"model":   cfg.Model,
		"rate":    cfg.SampleRate,
		"samples": cfg.Samples,
		"tone":    cfg.ToneHz,
	}).Debug("Rendering")

	start := time.Now()

	out, err := render(cfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if err := writeWAV(f, out, int(cfg.SampleRate), *bitDepth); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	log.WithFields(logrus.Fields{
		"path":     path,
		"bits":     *bitDepth,
		"duration": duration.String(),
		"realtime": fmt.Sprintf("%.1fx", duration.Seconds()/elapsed.Seconds()),
	}).Info("Wrote WAV file")

	if *report {
		rep, err := alias.Analyze(out, cfg.SampleRate, cfg.ToneHz, alias.WithSkip(int(cfg.SampleRate/10)))
		if err != nil {
			return fmt.Errorf("alias report: %w", err)
		}

		printReport(stdout, rep)
	}

	return nil
}

func printReport(w io.Writer, rep alias.Report) {
	fmt.Fprintf(w, "fundamental   %10.2f Hz\n", rep.Fundamental)
	fmt.Fprintf(w, "fft size      %10d\n", rep.FFTSize)
	fmt.Fprintf(w, "harmonics     %10d\n", rep.Harmonics)
	fmt.Fprintf(w, "alias ratio   %10.2f dB\n", rep.AliasRatioDB)
	fmt.Fprintf(w, "dc            %10.4f V\n", rep.DC)
	fmt.Fprintf(w, "rms           %10.4f V\n", rep.RMS)
	fmt.Fprintf(w, "peak          %10.4f V\n", rep.Peak)
}
