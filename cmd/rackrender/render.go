package main

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-rackdsp/dsp/core"
	"github.com/cwbudde/algo-rackdsp/dsp/delay"
	"github.com/cwbudde/algo-rackdsp/dsp/filter/ladder"
	"github.com/cwbudde/algo-rackdsp/dsp/waveshaper"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	maxInt16 = 32767.0
	maxInt24 = 8388607.0

	// Module signals are in volts; the file is normalized to this level.
	fullScaleVolts = 10.0
)

var errUnknownModel = errors.New("unknown model")

// renderConfig holds everything needed to render one tone through a model.
type renderConfig struct {
	core.ProcessorConfig

	Model   string
	Samples int

	ToneHz    float64
	Amplitude float64

	// Waveshaper parameters.
	Gain         float64
	Bias         float64
	K            float64
	AmpPos       float64
	AmpNeg       float64
	Stages       int
	Oversampling int
	BlockDC      bool

	// Ladder knobs in [0, 1].
	Cutoff    float64
	Resonance float64
	Drive     float64
	Seed      uint64

	// Delay parameters.
	DelayMS  float64
	Feedback float64
	Mix      float64
}

func defaultRenderConfig() renderConfig {
	return renderConfig{
		ProcessorConfig: core.ApplyProcessorOptions(core.WithSampleRate(48000)),
		Model:           "lockhart",
		Samples:         96000,
		ToneHz:          110,
		Amplitude:       5,
		Gain:            1,
		Stages:          1,
		Oversampling:    8,
		BlockDC:         true,
		Cutoff:          0.5,
		Resonance:       0.3,
		Drive:           0.2,
		Seed:            1,
		DelayMS:         250,
		Feedback:        0.5,
		Mix:             0.5,
	}
}

func (c renderConfig) validate() error {
	if c.SampleRate <= 0 || !core.IsFinite(c.SampleRate) {
		return fmt.Errorf("sample rate must be > 0: %v", c.SampleRate)
	}

	if c.BlockSize < 1 {
		return fmt.Errorf("block size must be > 0: %d", c.BlockSize)
	}

	if c.Samples < 1 {
		return fmt.Errorf("duration must cover at least one sample: %d", c.Samples)
	}

	if c.ToneHz <= 0 || c.ToneHz >= c.SampleRate/2 {
		return fmt.Errorf("tone frequency must be in (0, %v): %v", c.SampleRate/2, c.ToneHz)
	}

	if c.Mix < 0 || c.Mix > 1 {
		return fmt.Errorf("mix must be in [0, 1]: %v", c.Mix)
	}

	return nil
}

// blockProcessor is the block API shared by all rendered units.
type blockProcessor interface {
	ProcessTo(dst, src []float64)
}

func newProcessor(cfg renderConfig) (blockProcessor, error) {
	switch cfg.Model {
	case "ladder":
		f, err := ladder.New(cfg.SampleRate,
			ladder.WithFrequency(cfg.Cutoff),
			ladder.WithResonance(cfg.Resonance),
			ladder.WithDrive(cfg.Drive),
			ladder.WithSeed(cfg.Seed),
		)
		if err != nil {
			return nil, err
		}

		return f, nil
	case "delay":
		samples := cfg.DelayMS * cfg.SampleRate / 1000

		d, err := delay.NewFeedback(cfg.SampleRate,
			delay.WithMaxDelay(int(math.Ceil(samples))+1),
			delay.WithDelay(samples),
			delay.WithFeedback(cfg.Feedback),
		)
		if err != nil {
			return nil, err
		}

		return d, nil
	}

	kind, ok := waveshaper.ParseKind(cfg.Model)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnknownModel, cfg.Model)
	}

	s, err := waveshaper.New(kind, cfg.SampleRate,
		waveshaper.WithOversampling(cfg.Oversampling),
		waveshaper.WithStages(cfg.Stages),
		waveshaper.WithBlockDC(cfg.BlockDC),
	)
	if err != nil {
		return nil, err
	}

	s.SetGain(cfg.Gain)
	s.SetBias(cfg.Bias)
	s.SetK(cfg.K)
	s.SetAmplitude(cfg.AmpPos, cfg.AmpNeg)

	return s, nil
}

// render generates the test tone and runs it through the configured model.
// The delay model mixes the dry tone with the delayed signal.
func render(cfg renderConfig) ([]float64, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	proc, err := newProcessor(cfg)
	if err != nil {
		return nil, err
	}

	dry := make([]float64, cfg.Samples)

	w := 2 * math.Pi * cfg.ToneHz / cfg.SampleRate
	for i := range dry {
		dry[i] = cfg.Amplitude * math.Sin(w*float64(i))
	}

	out := make([]float64, cfg.Samples)
	for start := 0; start < len(out); start += cfg.BlockSize {
		end := min(start+cfg.BlockSize, len(out))
		proc.ProcessTo(out[start:end], dry[start:end])
	}

	if cfg.Model == "delay" {
		core.ScaleInto(out, out, cfg.Mix)
		core.ScaleInto(dry, dry, 1-cfg.Mix)
		core.AddInto(out, dry)
	}

	return out, nil
}

// writeWAV encodes mono samples in volts as PCM, mapping fullScaleVolts to
// digital full scale and clipping beyond it.
func writeWAV(w io.WriteSeeker, samples []float64, sampleRate, bitDepth int) error {
	var scale float64

	switch bitDepth {
	case 16:
		scale = maxInt16
	case 24:
		scale = maxInt24
	default:
		return fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: bitDepth,
	}

	for i, v := range samples {
		v = core.Clamp(core.Sanitize(v)/fullScaleVolts, -1, 1)
		buf.Data[i] = int(math.Round(v * scale))
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav close: %w", err)
	}

	return nil
}
