package sweep

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/mixcheck/stembench/src/shared/catalog"
	"github.com/mixcheck/stembench/src/shared/dataset"
	resultsentity "github.com/mixcheck/stembench/src/shared/results/entity"
	resultsstorage "github.com/mixcheck/stembench/src/shared/results/storage"
)

// Evaluator is the per-pair work unit the orchestrator drives.
type Evaluator interface {
	Evaluate(ctx context.Context, modelID string, trackName string, ds *dataset.Dataset) (resultsentity.TrackScoreEntry, error)
}

// Orchestrator walks the model catalog against the selected dataset tracks.
// Pairs already present in the combined store are skipped, pair failures are
// logged and isolated, and the store is flushed after every recorded pair so
// a crash never costs more than the pair in flight.
type Orchestrator struct {
	evaluator Evaluator
	storePath string
}

func NewOrchestrator(evaluator Evaluator, storePath string) Orchestrator {
	return Orchestrator{
		evaluator: evaluator,
		storePath: storePath,
	}
}

// Run drives the full sweep. The returned error is reserved for conditions
// where continuing is unsafe or pointless: a corrupt store, a failed flush,
// or a broken append invariant. Per-pair evaluation failures never propagate.
func (o Orchestrator) Run(ctx context.Context, cat catalog.Catalog, ds *dataset.Dataset, trackNames []string) error {
	runLogger := log.WithFields(log.Fields{
		"sweep_id":   uuid.New().String(),
		"store_path": o.storePath,
	})

	results, err := resultsstorage.Load(o.storePath)
	if err != nil {
		return errors.Wrap(err, "Failed to load the combined results store")
	}

	tracks, err := ds.Select(trackNames)
	if err != nil {
		return errors.Wrap(err, "Failed to select evaluation tracks")
	}

	var attempted, recorded, failed, skipped int

	for _, entry := range cat.Entries {
		modelID, ok := entry.Resolve()
		if !ok {
			runLogger.WithFields(log.Fields{
				"model_name": entry.ModelName,
				"model_type": entry.ModelType,
			}).Info("Catalog entry has no recognized weight file, skipping")
			continue
		}

		for _, track := range tracks {
			pairLogger := runLogger.WithFields(log.Fields{
				"model_id":   modelID,
				"track_name": track.Name,
			})

			if results.HasTrack(modelID, track.Name) {
				pairLogger.Info("Skipping already evaluated track for model")
				skipped++
				continue
			}

			attempted++

			trackEntry, err := o.evaluator.Evaluate(ctx, modelID, track.Name, ds)
			if err != nil {
				failed++
				pairLogger.WithField("cause", fmt.Sprintf("%+v", err)).
					WithError(err).
					Error("Error evaluating model")
				continue
			}

			if err := results.AppendTrackResult(modelID, entry.ModelName, trackEntry); err != nil {
				// the store's duplicate guard tripping means the resume
				// bookkeeping itself is broken, no safe way to continue
				return errors.Wrap(err, "Failed to append the track result")
			}

			if err := resultsstorage.Flush(results, o.storePath); err != nil {
				return errors.Wrap(err, "Failed to flush the combined results store")
			}

			recorded++
			pairLogger.Info("Updated combined results store")
		}
	}

	runLogger.WithFields(log.Fields{
		"attempted": attempted,
		"recorded":  recorded,
		"failed":    failed,
		"skipped":   skipped,
	}).Info("Evaluation complete")

	return nil
}
