package evaluate_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/mixcheck/stembench/src/evaluator/internal/audio"
	"github.com/mixcheck/stembench/src/evaluator/internal/dummy"
	"github.com/mixcheck/stembench/src/evaluator/internal/evaluate"
	"github.com/mixcheck/stembench/src/evaluator/internal/lib/storagepath"
	"github.com/mixcheck/stembench/src/evaluator/internal/museval"
	"github.com/mixcheck/stembench/src/evaluator/internal/separation"
	"github.com/mixcheck/stembench/src/shared/dataset"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Track evaluator", func() {
	const (
		modelID   = "model_x.onnx"
		trackName = "Song A"
	)

	var (
		ds           *dataset.Dataset
		paths        storagepath.Generator
		sepEngine    *dummy.SeparationEngine
		metricEngine *dummy.MetricEngine
		evaluator    evaluate.TrackEvaluator
	)

	BeforeEach(func() {
		datasetRoot := GinkgoT().TempDir()
		trackDir := filepath.Join(datasetRoot, "test", trackName)
		err := os.MkdirAll(trackDir, os.ModePerm)
		Expect(err).NotTo(HaveOccurred())
		err = os.WriteFile(filepath.Join(trackDir, "mixture.wav"), []byte("RIFF"), 0644)
		Expect(err).NotTo(HaveOccurred())

		ds, err = dataset.Load(datasetRoot)
		Expect(err).NotTo(HaveOccurred())

		paths = storagepath.Generator{ResultsRoot: GinkgoT().TempDir()}
		sepEngine = dummy.NewSeparationEngine()
		metricEngine = dummy.NewMetricEngine(dummy.SingleFrameScores(5.123456, 12.3456789))
		evaluator = evaluate.NewTrackEvaluator(sepEngine, metricEngine, paths)
	})

	Describe("Cold evaluation", func() {
		It("separates, evaluates and aggregates", func() {
			entry, err := evaluator.Evaluate(context.Background(), modelID, trackName, ds)
			Expect(err).NotTo(HaveOccurred())

			Expect(entry.TrackName).To(Equal(trackName))
			Expect(entry.Scores.Vocals.SDR).To(Equal(5.12346))
			Expect(entry.Scores.Instrumental.SDR).To(Equal(12.3457))

			Expect(sepEngine.LoadModelCalls).To(Equal(1))
			Expect(sepEngine.SeparateCalls).To(Equal(1))
			Expect(metricEngine.EvalCalls).To(Equal(1))
		})

		It("leaves the stem artifacts and the raw scores cache behind", func() {
			_, err := evaluator.Evaluate(context.Background(), modelID, trackName, ds)
			Expect(err).NotTo(HaveOccurred())

			for _, path := range []string{
				paths.VocalsPath(modelID, trackName),
				paths.InstrumentalPath(modelID, trackName),
				paths.RawScoresPath(modelID, trackName),
			} {
				_, err := os.Stat(path)
				Expect(err).NotTo(HaveOccurred())
			}
		})
	})

	Describe("Raw scores cache hit", func() {
		BeforeEach(func() {
			_, err := evaluator.Evaluate(context.Background(), modelID, trackName, ds)
			Expect(err).NotTo(HaveOccurred())
		})

		It("skips separation and metric computation entirely", func() {
			entry, err := evaluator.Evaluate(context.Background(), modelID, trackName, ds)
			Expect(err).NotTo(HaveOccurred())

			Expect(entry.Scores.Vocals.SDR).To(Equal(5.12346))
			Expect(sepEngine.LoadModelCalls).To(Equal(1))
			Expect(sepEngine.SeparateCalls).To(Equal(1))
			Expect(metricEngine.EvalCalls).To(Equal(1))
		})

		It("recomputes when the cache does not parse", func() {
			cachePath := paths.RawScoresPath(modelID, trackName)
			err := os.WriteFile(cachePath, []byte(`{"targets": [`), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = evaluator.Evaluate(context.Background(), modelID, trackName, ds)
			Expect(err).NotTo(HaveOccurred())
			Expect(metricEngine.EvalCalls).To(Equal(2))
		})
	})

	Describe("Separated stems already on disk", func() {
		BeforeEach(func() {
			pairDir := paths.PairDir(modelID, trackName)
			err := os.MkdirAll(pairDir, os.ModePerm)
			Expect(err).NotTo(HaveOccurred())

			for _, fileName := range []string{storagepath.VocalsFileName, storagepath.InstrumentalFileName} {
				err := audio.WriteStem(filepath.Join(pairDir, fileName), dummy.FixedStemSamples(), 44100)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("skips separation but still computes metrics", func() {
			_, err := evaluator.Evaluate(context.Background(), modelID, trackName, ds)
			Expect(err).NotTo(HaveOccurred())

			Expect(sepEngine.LoadModelCalls).To(BeZero())
			Expect(sepEngine.SeparateCalls).To(BeZero())
			Expect(metricEngine.EvalCalls).To(Equal(1))
		})
	})

	Describe("Failures", func() {
		It("fails with the track not found mark for unknown tracks", func() {
			_, err := evaluator.Evaluate(context.Background(), modelID, "Song Zzz", ds)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, dataset.TrackNotFoundMark)).To(BeTrue())
		})

		It("surfaces model load failures", func() {
			sepEngine.FailLoadModel = true

			_, err := evaluator.Evaluate(context.Background(), modelID, trackName, ds)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, separation.ModelLoadMark)).To(BeTrue())
		})

		It("surfaces separation failures", func() {
			sepEngine.FailSeparate = true

			_, err := evaluator.Evaluate(context.Background(), modelID, trackName, ds)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, separation.SeparationFailedMark)).To(BeTrue())
		})

		It("surfaces metric computation failures and caches nothing", func() {
			metricEngine.Fail = true

			_, err := evaluator.Evaluate(context.Background(), modelID, trackName, ds)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, museval.MetricComputeMark)).To(BeTrue())

			_, err = os.Stat(paths.RawScoresPath(modelID, trackName))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})
})
