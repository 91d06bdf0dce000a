package config_test

import (
	"strings"

	"github.com/mixcheck/stembench/src/shared/config"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Run config", func() {
	It("decodes a full run config", func() {
		contents := `dataset_root: /data/musdb18hq
results_root: /data/results
store_path: /data/models-scores.json
model_registry: /data/models.yaml
separator_bin: /usr/local/bin/audio-separator
museval_bin: /usr/local/bin/museval
tracks:
  - Song A
  - Song B
`

		run, err := config.LoadRun(strings.NewReader(contents))
		Expect(err).NotTo(HaveOccurred())

		Expect(run.DatasetRoot).To(Equal("/data/musdb18hq"))
		Expect(run.StorePath).To(Equal("/data/models-scores.json"))
		Expect(run.Tracks).To(Equal([]string{"Song A", "Song B"}))
	})

	It("leaves unset fields empty for the caller to default", func() {
		run, err := config.LoadRun(strings.NewReader("dataset_root: /data/musdb18hq\n"))
		Expect(err).NotTo(HaveOccurred())

		Expect(run.ResultsRoot).To(BeEmpty())
		Expect(run.Tracks).To(BeEmpty())
	})

	It("rejects malformed YAML", func() {
		_, err := config.LoadRun(strings.NewReader("tracks: [unclosed"))
		Expect(err).To(HaveOccurred())
	})
})
