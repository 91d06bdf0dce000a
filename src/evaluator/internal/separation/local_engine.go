package separation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/mixcheck/stembench/src/evaluator/internal/executor"
	"github.com/mixcheck/stembench/src/evaluator/internal/lib/storagepath"
	"github.com/mixcheck/stembench/src/shared/lib/mark"
)

var _ Engine = LocalEngine{}

// LocalEngine drives an audio-separator style CLI binary. Model weights are
// fetched/verified by the binary itself; this adapter only owns argument
// construction and output placement.
type LocalEngine struct {
	separatorBinPath string
	executor         executor.Executor
}

func NewLocalEngine(separatorBinPath string, executor executor.Executor) LocalEngine {
	return LocalEngine{
		separatorBinPath: separatorBinPath,
		executor:         executor,
	}
}

func (l LocalEngine) LoadModel(ctx context.Context, modelID string) error {
	logger := log.WithFields(log.Fields{
		"model_id": modelID,
	})

	logger.Info("Ensuring separation model is available")

	args := []string{"--download_model_only", "--model_filename", modelID}

	cmd := l.executor.Command(l.separatorBinPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return mark.Wrap(err, ModelLoadMark,
			fmt.Sprintf("Failed to load separation model: %s", string(output)))
	}

	logger.Debug(string(output))
	return nil
}

func (l LocalEngine) Separate(ctx context.Context, modelID string, mixturePath string, outputDir string) error {
	absMixturePath, err := filepath.Abs(mixturePath)
	if err != nil {
		return errors.Wrap(err, "Cannot convert mixture path to absolute format")
	}

	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return errors.Wrap(err, "Cannot convert output dir to absolute format")
	}

	if err := os.MkdirAll(absOutputDir, os.ModePerm); err != nil {
		return errors.Wrap(err, "Failed to create the separation output dir")
	}

	// separation is a lengthy process, if we want to halt now is the time
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "Context cancelled before separation could happen")
	}

	logger := log.WithFields(log.Fields{
		"model_id":     modelID,
		"mixture_path": absMixturePath,
		"output_dir":   absOutputDir,
	})

	logger.Info("Running separation command")

	args := []string{
		"--model_filename", modelID,
		"--output_dir", absOutputDir,
		"--custom_output_names", `{"Vocals": "vocals", "Instrumental": "instrumental"}`,
		absMixturePath,
	}

	cmd := l.executor.Command(l.separatorBinPath, args...)
	cmd.SetDir(absOutputDir)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return mark.Wrap(err, SeparationFailedMark,
			fmt.Sprintf("Error occurred while running the separator: %s", string(output)))
	}

	logger.Debug(string(output))
	logger.Info("Finished separation command")

	return verifyStemOutputs(absOutputDir)
}

func verifyStemOutputs(outputDir string) error {
	for _, fileName := range []string{storagepath.VocalsFileName, storagepath.InstrumentalFileName} {
		stemPath := filepath.Join(outputDir, fileName)
		if _, err := os.Stat(stemPath); err != nil {
			return mark.Wrap(err, SeparationFailedMark, "Separator exited cleanly but did not produce the expected stem file")
		}
	}

	return nil
}
