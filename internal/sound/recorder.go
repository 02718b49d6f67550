package sound

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Recorder captures the buzzer as a mono 16-bit WAV file. Samples are
// buffered in memory and written on Close.
type Recorder struct {
	path    string
	on      bool
	osc     Square
	samples []int
}

func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

func (r *Recorder) SetBuzzer(on bool) error {
	r.on = on
	return nil
}

// EndFrame appends one frame worth of samples.
func (r *Recorder) EndFrame() error {
	for i := 0; i < SamplesPerFrame; i++ {
		r.samples = append(r.samples, r.osc.Next(r.on))
	}
	return nil
}

// Frames returns the number of frames recorded so far.
func (r *Recorder) Frames() int {
	return len(r.samples) / SamplesPerFrame
}

func (r *Recorder) Close() error {
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("sound: create %q: %w", r.path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, SampleRate, 16, 1, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  SampleRate,
		},
		Data:           r.samples,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("sound: encode %q: %w", r.path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("sound: finish %q: %w", r.path, err)
	}

	slog.Info("sound: wav written", "path", r.path, "frames", r.Frames())
	return nil
}
