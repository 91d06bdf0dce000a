package dummy

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/mixcheck/stembench/src/shared/dataset"
	resultsentity "github.com/mixcheck/stembench/src/shared/results/entity"
)

// Evaluator is a scripted per-pair evaluator for orchestrator tests.
type Evaluator struct {
	// pairs scripted to fail
	Failures map[string]map[string]bool

	// score assigned per evaluated pair
	Score float64

	EvaluatedPairs []string

	mutex sync.Mutex
}

func NewEvaluator(score float64) *Evaluator {
	return &Evaluator{
		Failures: map[string]map[string]bool{},
		Score:    score,
	}
}

func (e *Evaluator) FailPair(modelID string, trackName string) {
	if e.Failures[modelID] == nil {
		e.Failures[modelID] = map[string]bool{}
	}

	e.Failures[modelID][trackName] = true
}

func (e *Evaluator) Evaluate(ctx context.Context, modelID string, trackName string, ds *dataset.Dataset) (resultsentity.TrackScoreEntry, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.EvaluatedPairs = append(e.EvaluatedPairs, modelID+"/"+trackName)

	if e.Failures[modelID][trackName] {
		return resultsentity.TrackScoreEntry{}, errors.New("Dummy evaluation failure")
	}

	metricSet := resultsentity.MetricSet{
		SDR: e.Score,
		SIR: e.Score,
		SAR: e.Score,
		ISR: e.Score,
	}

	return resultsentity.TrackScoreEntry{
		TrackName: trackName,
		Scores: resultsentity.StemScores{
			Vocals:       metricSet,
			Instrumental: metricSet,
		},
	}, nil
}
