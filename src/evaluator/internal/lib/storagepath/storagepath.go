package storagepath

import "path/filepath"

const (
	VocalsFileName       = "vocals.wav"
	InstrumentalFileName = "instrumental.wav"
	RawScoresFileName    = "museval-results.json"
)

// Generator lays out the per-pair results tree:
// {results_root}/{modelID}/{trackName}/{vocals,instrumental}.wav plus the
// raw museval scores cache next to them.
type Generator struct {
	ResultsRoot string
}

func (g Generator) PairDir(modelID string, trackName string) string {
	return filepath.Join(g.ResultsRoot, modelID, trackName)
}

func (g Generator) VocalsPath(modelID string, trackName string) string {
	return filepath.Join(g.PairDir(modelID, trackName), VocalsFileName)
}

func (g Generator) InstrumentalPath(modelID string, trackName string) string {
	return filepath.Join(g.PairDir(modelID, trackName), InstrumentalFileName)
}

func (g Generator) RawScoresPath(modelID string, trackName string) string {
	return filepath.Join(g.PairDir(modelID, trackName), RawScoresFileName)
}
