package museval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/mixcheck/stembench/src/evaluator/internal/executor"
	"github.com/mixcheck/stembench/src/shared/dataset"
	"github.com/mixcheck/stembench/src/shared/lib/mark"
)

var _ Engine = LocalEngine{}

// LocalEngine drives a museval style CLI binary that reads the reference
// track and the estimate files, then writes its framed scores JSON under
// {outputDir}/test/{trackName}.json. That side output is parsed, returned
// and cleaned up; the caller owns where the record ultimately lives.
type LocalEngine struct {
	musevalBinPath string
	executor       executor.Executor
}

func NewLocalEngine(musevalBinPath string, executor executor.Executor) LocalEngine {
	return LocalEngine{
		musevalBinPath: musevalBinPath,
		executor:       executor,
	}
}

func (l LocalEngine) EvalTrack(ctx context.Context, track dataset.Track, estimates Estimates, outputDir string) (RawScores, error) {
	if err := checkEstimateShapes(estimates); err != nil {
		return RawScores{}, err
	}

	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return RawScores{}, errors.Wrap(err, "Cannot convert output dir to absolute format")
	}

	// metric computation runs bss_eval over the full track, if we want to
	// halt now is the time
	if ctx.Err() != nil {
		return RawScores{}, errors.Wrap(ctx.Err(), "Context cancelled before evaluation could happen")
	}

	logger := log.WithFields(log.Fields{
		"track_name": track.Name,
		"output_dir": absOutputDir,
	})

	logger.Info("Running evaluation command")

	args := []string{
		"--reference", track.Dir,
		"--estimates", absOutputDir,
		"--output", absOutputDir,
		"--mode", "v4",
	}

	cmd := l.executor.Command(l.musevalBinPath, args...)
	cmd.SetDir(absOutputDir)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return RawScores{}, mark.Wrap(err, MetricComputeMark,
			fmt.Sprintf("Error occurred while running museval: %s", string(output)))
	}

	logger.Debug(string(output))
	logger.Info("Finished evaluation command")

	return collectSideOutput(absOutputDir, track.Name)
}

// collectSideOutput picks up the scores JSON museval leaves under the test/
// subdirectory and removes it once parsed.
func collectSideOutput(outputDir string, trackName string) (RawScores, error) {
	sideOutputPath := filepath.Join(outputDir, "test", trackName+".json")

	scores, err := LoadRawScores(sideOutputPath)
	if err != nil {
		return RawScores{}, mark.Wrap(err, MetricComputeMark, "Museval exited cleanly but its scores output is unusable")
	}

	if err := os.Remove(sideOutputPath); err != nil {
		return RawScores{}, errors.Wrap(err, "Failed to remove the museval side output file")
	}

	// best effort, the dir only ever holds the one file
	_ = os.Remove(filepath.Join(outputDir, "test"))

	return scores, nil
}

func checkEstimateShapes(estimates Estimates) error {
	if estimates.Vocals.Frames() == 0 || estimates.Accompaniment.Frames() == 0 {
		return mark.Message(MetricComputeMark, "Estimated stem is empty")
	}

	if estimates.Vocals.Channels() != estimates.Accompaniment.Channels() {
		return mark.Message(MetricComputeMark, "Estimated stems disagree on channel count")
	}

	return nil
}
