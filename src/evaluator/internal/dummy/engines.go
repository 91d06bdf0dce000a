package dummy

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/mixcheck/stembench/src/evaluator/internal/audio"
	"github.com/mixcheck/stembench/src/evaluator/internal/lib/storagepath"
	"github.com/mixcheck/stembench/src/evaluator/internal/museval"
	"github.com/mixcheck/stembench/src/evaluator/internal/separation"
	"github.com/mixcheck/stembench/src/shared/dataset"
	"github.com/mixcheck/stembench/src/shared/lib/mark"
)

func FloatPtr(v float64) *float64 {
	return &v
}

var _ separation.Engine = &SeparationEngine{}

// SeparationEngine writes deterministic stem waveforms instead of running a
// separation model, and counts invocations so tests can assert that cached
// pairs never trigger recomputation.
type SeparationEngine struct {
	LoadModelCalls int
	SeparateCalls  int

	FailLoadModel bool
	FailSeparate  bool

	// stem samples to write, defaulted to a short fixed ramp
	StemSamples [][]float64
	SampleRate  int

	mutex sync.Mutex
}

func NewSeparationEngine() *SeparationEngine {
	return &SeparationEngine{}
}

func (s *SeparationEngine) LoadModel(ctx context.Context, modelID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LoadModelCalls++

	if s.FailLoadModel {
		return mark.Message(separation.ModelLoadMark, "Dummy model load failure")
	}

	return nil
}

func (s *SeparationEngine) Separate(ctx context.Context, modelID string, mixturePath string, outputDir string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.SeparateCalls++

	if s.FailSeparate {
		return mark.Message(separation.SeparationFailedMark, "Dummy separation failure")
	}

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return errors.Wrap(err, "Failed to create dummy output dir")
	}

	samples := s.StemSamples
	if samples == nil {
		samples = FixedStemSamples()
	}

	sampleRate := s.SampleRate
	if sampleRate == 0 {
		sampleRate = 44100
	}

	for _, fileName := range []string{storagepath.VocalsFileName, storagepath.InstrumentalFileName} {
		stemPath := filepath.Join(outputDir, fileName)
		if err := audio.WriteStem(stemPath, samples, sampleRate); err != nil {
			return errors.Wrap(err, "Failed to write dummy stem file")
		}
	}

	return nil
}

// FixedStemSamples is a short stereo ramp, enough frames to decode cleanly.
func FixedStemSamples() [][]float64 {
	samples := make([][]float64, 64)
	for i := range samples {
		value := float64(i) / 128
		samples[i] = []float64{value, -value}
	}

	return samples
}

var _ museval.Engine = &MetricEngine{}

// MetricEngine returns canned raw scores instead of running bss_eval.
type MetricEngine struct {
	EvalCalls int

	Fail   bool
	Scores museval.RawScores

	mutex sync.Mutex
}

func NewMetricEngine(scores museval.RawScores) *MetricEngine {
	return &MetricEngine{
		Scores: scores,
	}
}

func (m *MetricEngine) EvalTrack(ctx context.Context, track dataset.Track, estimates museval.Estimates, outputDir string) (museval.RawScores, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.EvalCalls++

	if m.Fail {
		return museval.RawScores{}, mark.Message(museval.MetricComputeMark, "Dummy metric computation failure")
	}

	return m.Scores, nil
}

// SingleFrameScores builds a raw score record with one frame per target,
// every metric set to the given value.
func SingleFrameScores(vocalsValue float64, accompanimentValue float64) museval.RawScores {
	frame := func(value float64) museval.Frame {
		return museval.Frame{
			Time:     0,
			Duration: 1,
			Metrics: museval.FrameMetrics{
				SDR: FloatPtr(value),
				SIR: FloatPtr(value),
				SAR: FloatPtr(value),
				ISR: FloatPtr(value),
			},
		}
	}

	return museval.RawScores{
		Targets: []museval.Target{
			{Name: museval.VocalsTarget, Frames: []museval.Frame{frame(vocalsValue)}},
			{Name: museval.AccompanimentTarget, Frames: []museval.Frame{frame(accompanimentValue)}},
		},
	}
}
