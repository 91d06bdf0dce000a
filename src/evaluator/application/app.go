package application

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/mixcheck/stembench/src/evaluator/internal/evaluate"
	"github.com/mixcheck/stembench/src/evaluator/internal/executor"
	"github.com/mixcheck/stembench/src/evaluator/internal/lib/storagepath"
	"github.com/mixcheck/stembench/src/evaluator/internal/museval"
	"github.com/mixcheck/stembench/src/evaluator/internal/separation"
	"github.com/mixcheck/stembench/src/evaluator/internal/sweep"
	"github.com/mixcheck/stembench/src/shared/catalog"
	"github.com/mixcheck/stembench/src/shared/dataset"
)

type Config struct {
	DatasetRoot  string
	ResultsRoot  string
	StorePath    string
	RegistryPath string
	SeparatorBin string
	MusevalBin   string
	Tracks       []string
}

type App struct {
	config       Config
	orchestrator sweep.Orchestrator
}

func NewApp(config Config) App {
	pathGenerator := storagepath.Generator{
		ResultsRoot: config.ResultsRoot,
	}

	binExecutor := executor.BinaryFileExecutor{}

	trackEvaluator := evaluate.NewTrackEvaluator(
		separation.NewLocalEngine(config.SeparatorBin, binExecutor),
		museval.NewLocalEngine(config.MusevalBin, binExecutor),
		pathGenerator,
	)

	return App{
		config:       config,
		orchestrator: sweep.NewOrchestrator(trackEvaluator, config.StorePath),
	}
}

// Run loads the catalog and dataset, then drives the sweep. Errors returned
// here are setup or store integrity failures - individual pair failures are
// absorbed by the orchestrator.
func (a App) Run(ctx context.Context) error {
	modelCatalog, err := catalog.Load(a.config.RegistryPath)
	if err != nil {
		return errors.Wrap(err, "Failed to load the model registry")
	}

	ds, err := dataset.Load(a.config.DatasetRoot)
	if err != nil {
		return errors.Wrap(err, "Failed to load the dataset")
	}

	if err := a.orchestrator.Run(ctx, modelCatalog, ds, a.config.Tracks); err != nil {
		return errors.Wrap(err, "Sweep aborted")
	}

	return nil
}
