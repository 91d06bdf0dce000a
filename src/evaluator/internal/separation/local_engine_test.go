package separation_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/mixcheck/stembench/src/evaluator/internal/dummy"
	"github.com/mixcheck/stembench/src/evaluator/internal/separation"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Local separation engine", func() {
	var (
		outputDir   string
		mixturePath string
		exec        *dummy.Executor
		engine      separation.LocalEngine
	)

	BeforeEach(func() {
		outputDir = filepath.Join(GinkgoT().TempDir(), "model_x.onnx", "Song A")
		mixturePath = filepath.Join(GinkgoT().TempDir(), "mixture.wav")

		err := os.WriteFile(mixturePath, []byte("RIFF"), 0644)
		Expect(err).NotTo(HaveOccurred())

		// the fake binary leaves the two stem files behind like the real one
		exec = dummy.NewExecutor(func(name string, args []string) ([]byte, error) {
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return nil, err
			}

			for _, fileName := range []string{"vocals.wav", "instrumental.wav"} {
				if err := os.WriteFile(filepath.Join(outputDir, fileName), []byte("RIFF"), 0644); err != nil {
					return nil, err
				}
			}

			return []byte("separated"), nil
		})

		engine = separation.NewLocalEngine("/somewhere/audio-separator", exec)
	})

	Describe("LoadModel", func() {
		It("asks the binary to fetch the model", func() {
			err := engine.LoadModel(context.Background(), "model_x.onnx")
			Expect(err).NotTo(HaveOccurred())

			Expect(exec.Commands).To(HaveLen(1))
			Expect(exec.Commands[0]).To(ContainElement("--download_model_only"))
			Expect(exec.Commands[0]).To(ContainElement("model_x.onnx"))
		})

		It("fails with the model load mark when the binary errors", func() {
			exec.OnRun = func(name string, args []string) ([]byte, error) {
				return []byte("unknown model"), errors.New("exit status 1")
			}

			err := engine.LoadModel(context.Background(), "model_x.onnx")
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, separation.ModelLoadMark)).To(BeTrue())
		})
	})

	Describe("Separate", func() {
		It("creates the output dir and runs the binary", func() {
			err := engine.Separate(context.Background(), "model_x.onnx", mixturePath, outputDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(exec.Commands).To(HaveLen(1))
			Expect(exec.Commands[0][0]).To(Equal("/somewhere/audio-separator"))
			Expect(exec.Commands[0]).To(ContainElement("--model_filename"))

			_, err = os.Stat(filepath.Join(outputDir, "vocals.wav"))
			Expect(err).NotTo(HaveOccurred())
			_, err = os.Stat(filepath.Join(outputDir, "instrumental.wav"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("fails with the separation mark when the binary errors", func() {
			exec.OnRun = func(name string, args []string) ([]byte, error) {
				return []byte("inference exploded"), errors.New("exit status 1")
			}

			err := engine.Separate(context.Background(), "model_x.onnx", mixturePath, outputDir)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, separation.SeparationFailedMark)).To(BeTrue())
		})

		It("fails with the separation mark when the stems never materialize", func() {
			exec.OnRun = func(name string, args []string) ([]byte, error) {
				return []byte("wrote nothing"), nil
			}

			err := engine.Separate(context.Background(), "model_x.onnx", mixturePath, outputDir)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, separation.SeparationFailedMark)).To(BeTrue())
		})

		It("refuses to run once the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := engine.Separate(ctx, "model_x.onnx", mixturePath, outputDir)
			Expect(err).To(HaveOccurred())
			Expect(exec.Commands).To(BeEmpty())
		})
	})
})
