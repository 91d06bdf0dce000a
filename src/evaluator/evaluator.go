package main

import (
	"context"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"github.com/joho/godotenv"
	"github.com/mixcheck/stembench/src/evaluator/application"
	"github.com/mixcheck/stembench/src/shared/config"
	"github.com/mixcheck/stembench/src/shared/lib/envvar"
)

func main() {
	log.SetHandler(text.New(os.Stderr))

	// missing .env is fine, env vars may come from the shell
	_ = godotenv.Load()

	appConfig := resolveConfig()

	log.Info("Starting model evaluation sweep")

	app := application.NewApp(appConfig)
	if err := app.Run(context.Background()); err != nil {
		log.WithError(err).Error("Sweep failed before completion")
		os.Exit(1)
	}
}

func resolveConfig() application.Config {
	appConfig := application.Config{
		DatasetRoot:  envvar.GetOr(envvar.DATASET_ROOT, "datasets/musdb18hq"),
		ResultsRoot:  envvar.GetOr(envvar.RESULTS_ROOT, "results"),
		StorePath:    envvar.GetOr(envvar.STORE_PATH, "models-scores.json"),
		RegistryPath: envvar.GetOr(envvar.MODEL_REGISTRY, "models.yaml"),
		SeparatorBin: envvar.GetOr(envvar.SEPARATOR_BIN_PATH, "audio-separator"),
		MusevalBin:   envvar.GetOr(envvar.MUSEVAL_BIN_PATH, "museval"),
	}

	runConfigPath := envvar.GetOr(envvar.RUN_CONFIG_PATH, "")
	if runConfigPath != "" {
		run, err := config.LoadRunFile(runConfigPath)
		if err != nil {
			log.WithError(err).WithField("path", runConfigPath).Error("Failed to load run config")
			os.Exit(1)
		}

		applyRunConfig(&appConfig, run)
	}

	if tracks := envvar.GetOr(envvar.TRACKS, ""); tracks != "" {
		appConfig.Tracks = splitTracks(tracks)
	}

	return appConfig
}

func applyRunConfig(appConfig *application.Config, run config.Run) {
	if run.DatasetRoot != "" {
		appConfig.DatasetRoot = run.DatasetRoot
	}
	if run.ResultsRoot != "" {
		appConfig.ResultsRoot = run.ResultsRoot
	}
	if run.StorePath != "" {
		appConfig.StorePath = run.StorePath
	}
	if run.ModelRegistry != "" {
		appConfig.RegistryPath = run.ModelRegistry
	}
	if run.SeparatorBin != "" {
		appConfig.SeparatorBin = run.SeparatorBin
	}
	if run.MusevalBin != "" {
		appConfig.MusevalBin = run.MusevalBin
	}
	if len(run.Tracks) > 0 {
		appConfig.Tracks = run.Tracks
	}
}

func splitTracks(value string) []string {
	parts := strings.Split(value, ",")
	tracks := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tracks = append(tracks, trimmed)
		}
	}

	return tracks
}
