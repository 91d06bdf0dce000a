package resultsentity

import (
	"github.com/mixcheck/stembench/src/shared/lib/mark"
)

// MetricSet holds the four separation quality ratios for one stem,
// rounded to 6 significant figures before storage.
type MetricSet struct {
	SDR float64 `json:"SDR"`
	SIR float64 `json:"SIR"`
	SAR float64 `json:"SAR"`
	ISR float64 `json:"ISR"`
}

// StemScores always carries both stem roles. Partially evaluated pairs are
// never persisted, so a zero value here never reaches the store.
type StemScores struct {
	Vocals       MetricSet `json:"vocals"`
	Instrumental MetricSet `json:"instrumental"`
}

type TrackScoreEntry struct {
	TrackName string     `json:"track_name"`
	Scores    StemScores `json:"scores"`
}

type ModelResultEntry struct {
	ModelName   string            `json:"model_name"`
	TrackScores []TrackScoreEntry `json:"track_scores"`
}

// CombinedResults maps a model identifier (the canonical weight file name)
// to its accumulated track scores. Track entries only ever get appended.
type CombinedResults map[string]*ModelResultEntry

func NewCombinedResults() CombinedResults {
	return CombinedResults{}
}

// HasTrack is the single source of truth for whether a (model, track) pair
// has already been evaluated and recorded.
func (c CombinedResults) HasTrack(modelID string, trackName string) bool {
	modelEntry, ok := c[modelID]
	if !ok {
		return false
	}

	for _, trackScore := range modelEntry.TrackScores {
		if trackScore.TrackName == trackName {
			return true
		}
	}

	return false
}

// AppendTrackResult appends the entry under modelID, creating the model's
// result entry if this is the first track recorded for it. Appending a track
// that is already recorded is an integrity violation, not an overwrite.
func (c CombinedResults) AppendTrackResult(modelID string, modelName string, entry TrackScoreEntry) error {
	if c.HasTrack(modelID, entry.TrackName) {
		return mark.Message(DuplicateTrackMark, "Track is already recorded for this model")
	}

	modelEntry, ok := c[modelID]
	if !ok {
		modelEntry = &ModelResultEntry{
			ModelName:   modelName,
			TrackScores: []TrackScoreEntry{},
		}
		c[modelID] = modelEntry
	}

	modelEntry.TrackScores = append(modelEntry.TrackScores, entry)
	return nil
}
