package evaluate

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/mixcheck/stembench/src/evaluator/internal/audio"
	"github.com/mixcheck/stembench/src/evaluator/internal/lib/storagepath"
	"github.com/mixcheck/stembench/src/evaluator/internal/museval"
	"github.com/mixcheck/stembench/src/evaluator/internal/separation"
	"github.com/mixcheck/stembench/src/shared/dataset"
	"github.com/mixcheck/stembench/src/shared/lib/mark"
	resultsentity "github.com/mixcheck/stembench/src/shared/results/entity"
)

// TrackEvaluator produces the score entry for one (model, track) pair.
// Both the separated stem files and the raw metric scores are
// filesystem-resident caches keyed by the pair: whatever already exists on
// disk is reused, whatever is missing is computed and left behind for the
// next run.
type TrackEvaluator struct {
	separator separation.Engine
	metrics   museval.Engine
	paths     storagepath.Generator
}

func NewTrackEvaluator(separator separation.Engine, metrics museval.Engine, paths storagepath.Generator) TrackEvaluator {
	return TrackEvaluator{
		separator: separator,
		metrics:   metrics,
		paths:     paths,
	}
}

func (t TrackEvaluator) Evaluate(ctx context.Context, modelID string, trackName string, ds *dataset.Dataset) (resultsentity.TrackScoreEntry, error) {
	logger := log.WithFields(log.Fields{
		"model_id":   modelID,
		"track_name": trackName,
	})

	logger.Info("Evaluating track")

	rawScores, found := t.loadCachedScores(modelID, trackName, logger)
	if !found {
		var err error
		rawScores, err = t.computeScores(ctx, modelID, trackName, ds)
		if err != nil {
			return resultsentity.TrackScoreEntry{}, err
		}
	}

	stemScores, err := aggregateToStemScores(rawScores)
	if err != nil {
		return resultsentity.TrackScoreEntry{}, errors.Wrap(err, "Failed to aggregate raw scores")
	}

	logStemScores(logger, stemScores)

	return resultsentity.TrackScoreEntry{
		TrackName: trackName,
		Scores:    stemScores,
	}, nil
}

// loadCachedScores returns the cached raw scores for the pair if a
// well-formed cache file exists. A malformed cache is recomputed, not fatal.
func (t TrackEvaluator) loadCachedScores(modelID string, trackName string, logger log.Interface) (museval.RawScores, bool) {
	cachePath := t.paths.RawScoresPath(modelID, trackName)

	if _, err := os.Stat(cachePath); err != nil {
		return museval.RawScores{}, false
	}

	scores, err := museval.LoadRawScores(cachePath)
	if err != nil {
		logger.WithField("cache_path", cachePath).
			WithError(err).
			Warn("Found existing evaluation results but they don't parse, recomputing")
		return museval.RawScores{}, false
	}

	logger.Info("Found existing evaluation results, loading from file")
	return scores, true
}

func (t TrackEvaluator) computeScores(ctx context.Context, modelID string, trackName string, ds *dataset.Dataset) (museval.RawScores, error) {
	track, err := ds.Track(trackName)
	if err != nil {
		return museval.RawScores{}, errors.Wrap(err, "Failed to get track from dataset")
	}

	if err := t.ensureSeparated(ctx, modelID, track); err != nil {
		return museval.RawScores{}, err
	}

	estimates, err := t.loadEstimates(modelID, trackName)
	if err != nil {
		return museval.RawScores{}, err
	}

	log.WithFields(log.Fields{
		"model_id":   modelID,
		"track_name": trackName,
	}).Info("Performing evaluation")

	pairDir := t.paths.PairDir(modelID, trackName)
	rawScores, err := t.metrics.EvalTrack(ctx, track, estimates, pairDir)
	if err != nil {
		return museval.RawScores{}, errors.Wrap(err, "Failed to compute metric scores")
	}

	// persist before returning: if the store flush never happens, the next
	// run resumes from here instead of re-running bss_eval
	cachePath := t.paths.RawScoresPath(modelID, trackName)
	if err := rawScores.Save(cachePath); err != nil {
		return museval.RawScores{}, errors.Wrap(err, "Failed to persist raw scores to the cache")
	}

	return rawScores, nil
}

// ensureSeparated makes sure both estimated stem files exist for the pair,
// invoking the separation engine only when at least one is missing.
func (t TrackEvaluator) ensureSeparated(ctx context.Context, modelID string, track dataset.Track) error {
	vocalsPath := t.paths.VocalsPath(modelID, track.Name)
	instrumentalPath := t.paths.InstrumentalPath(modelID, track.Name)

	if fileExists(vocalsPath) && fileExists(instrumentalPath) {
		return nil
	}

	log.WithFields(log.Fields{
		"model_id":   modelID,
		"track_name": track.Name,
	}).Info("Performing separation")

	if err := t.separator.LoadModel(ctx, modelID); err != nil {
		return errors.Wrap(err, "Failed to load the separation model")
	}

	outputDir := t.paths.PairDir(modelID, track.Name)
	if err := t.separator.Separate(ctx, modelID, track.MixturePath(), outputDir); err != nil {
		return errors.Wrap(err, "Failed to separate the mixture")
	}

	return nil
}

func (t TrackEvaluator) loadEstimates(modelID string, trackName string) (museval.Estimates, error) {
	vocals, err := audio.LoadStem(t.paths.VocalsPath(modelID, trackName))
	if err != nil {
		return museval.Estimates{}, errors.Wrap(err, "Failed to load the estimated vocals stem")
	}

	accompaniment, err := audio.LoadStem(t.paths.InstrumentalPath(modelID, trackName))
	if err != nil {
		return museval.Estimates{}, errors.Wrap(err, "Failed to load the estimated instrumental stem")
	}

	return museval.Estimates{
		Vocals:        vocals,
		Accompaniment: accompaniment,
	}, nil
}

// aggregateToStemScores maps the engine's target names onto the stored stem
// roles: the generic accompaniment target becomes instrumental.
func aggregateToStemScores(rawScores museval.RawScores) (resultsentity.StemScores, error) {
	aggregated, err := rawScores.Aggregate()
	if err != nil {
		return resultsentity.StemScores{}, err
	}

	vocals, ok := aggregated[museval.VocalsTarget]
	if !ok {
		return resultsentity.StemScores{}, mark.Message(museval.MetricComputeMark, "Raw scores are missing the vocals target")
	}

	accompaniment, ok := aggregated[museval.AccompanimentTarget]
	if !ok {
		return resultsentity.StemScores{}, mark.Message(museval.MetricComputeMark, "Raw scores are missing the accompaniment target")
	}

	return resultsentity.StemScores{
		Vocals:       vocals,
		Instrumental: accompaniment,
	}, nil
}

func logStemScores(logger log.Interface, scores resultsentity.StemScores) {
	logger.Infof("Vocals (SDR, SIR, SAR, ISR): %.2f, %.2f, %.2f, %.2f",
		scores.Vocals.SDR, scores.Vocals.SIR, scores.Vocals.SAR, scores.Vocals.ISR)
	logger.Infof("Accompaniment (SDR, SIR, SAR, ISR): %.2f, %.2f, %.2f, %.2f",
		scores.Instrumental.SDR, scores.Instrumental.SIR, scores.Instrumental.SAR, scores.Instrumental.ISR)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
