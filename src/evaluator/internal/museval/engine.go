package museval

import (
	"context"

	"github.com/mixcheck/stembench/src/evaluator/internal/audio"
	"github.com/mixcheck/stembench/src/shared/dataset"
)

// Estimates carries the two estimated stems for one (model, track) pair.
// The accompaniment stem is the engine-facing name for what the rest of the
// system calls instrumental.
type Estimates struct {
	Vocals        audio.Stem
	Accompaniment audio.Stem
}

// Engine computes the framed separation quality scores for one track. The
// BSS eval numerics are a black box behind this interface.
type Engine interface {
	EvalTrack(ctx context.Context, track dataset.Track, estimates Estimates, outputDir string) (RawScores, error)
}
