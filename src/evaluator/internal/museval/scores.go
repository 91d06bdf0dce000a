package museval

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const (
	VocalsTarget        = "vocals"
	AccompanimentTarget = "accompaniment"
)

var MetricNames = []string{"SDR", "SIR", "SAR", "ISR"}

// RawScores is the self-describing record the metric engine emits: one
// target per stem, framed over time segments. A nil metric value means the
// metric was undefined for that frame (silent segment), mirroring the null
// entries museval writes.
type RawScores struct {
	Targets []Target `json:"targets"`
}

type Target struct {
	Name   string  `json:"name"`
	Frames []Frame `json:"frames"`
}

type Frame struct {
	Time     float64      `json:"time"`
	Duration float64      `json:"duration"`
	Metrics  FrameMetrics `json:"metrics"`
}

type FrameMetrics struct {
	SDR *float64 `json:"SDR"`
	SIR *float64 `json:"SIR"`
	SAR *float64 `json:"SAR"`
	ISR *float64 `json:"ISR"`
}

func (f FrameMetrics) Value(metricName string) *float64 {
	switch metricName {
	case "SDR":
		return f.SDR
	case "SIR":
		return f.SIR
	case "SAR":
		return f.SAR
	case "ISR":
		return f.ISR
	default:
		return nil
	}
}

func (r RawScores) Target(name string) (Target, bool) {
	for _, target := range r.Targets {
		if target.Name == name {
			return target, true
		}
	}

	return Target{}, false
}

// LoadRawScores reads a raw score record back from its cache file.
func LoadRawScores(path string) (RawScores, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return RawScores{}, errors.Wrap(err, "Failed to read raw scores file")
	}

	scores := RawScores{}
	if err := json.Unmarshal(contents, &scores); err != nil {
		return RawScores{}, errors.Wrap(err, "Raw scores file is not well formed")
	}

	if len(scores.Targets) == 0 {
		return RawScores{}, errors.New("Raw scores file contains no targets")
	}

	return scores, nil
}

// Save persists the raw score record so a later run can skip recomputation.
func (r RawScores) Save(path string) error {
	contents, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "Failed to serialize raw scores")
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errors.Wrap(err, "Failed to create the raw scores dir")
	}

	if err := os.WriteFile(path, contents, 0644); err != nil {
		return errors.Wrap(err, "Failed to write raw scores file")
	}

	return nil
}
