package museval_test

import (
	"os"
	"path/filepath"

	"github.com/mixcheck/stembench/src/evaluator/internal/dummy"
	"github.com/mixcheck/stembench/src/evaluator/internal/museval"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Raw score records", func() {
	var cachePath string

	BeforeEach(func() {
		cachePath = filepath.Join(GinkgoT().TempDir(), "museval-results.json")
	})

	It("round trips through save and load", func() {
		scores := dummy.SingleFrameScores(5.123456, 12.3)

		err := scores.Save(cachePath)
		Expect(err).NotTo(HaveOccurred())

		loaded, err := museval.LoadRawScores(cachePath)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(scores))
	})

	It("parses null metric values as undefined frames", func() {
		record := `{
			"targets": [
				{
					"name": "vocals",
					"frames": [
						{"time": 0, "duration": 1, "metrics": {"SDR": null, "SIR": 1.5, "SAR": 2.5, "ISR": 3.5}}
					]
				}
			]
		}`

		err := os.WriteFile(cachePath, []byte(record), 0644)
		Expect(err).NotTo(HaveOccurred())

		loaded, err := museval.LoadRawScores(cachePath)
		Expect(err).NotTo(HaveOccurred())

		target, ok := loaded.Target("vocals")
		Expect(ok).To(BeTrue())
		Expect(target.Frames[0].Metrics.SDR).To(BeNil())
		Expect(*target.Frames[0].Metrics.SIR).To(Equal(1.5))
	})

	It("rejects a record with no targets", func() {
		err := os.WriteFile(cachePath, []byte(`{"targets": []}`), 0644)
		Expect(err).NotTo(HaveOccurred())

		_, err = museval.LoadRawScores(cachePath)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a malformed record", func() {
		err := os.WriteFile(cachePath, []byte(`{"targets": [`), 0644)
		Expect(err).NotTo(HaveOccurred())

		_, err = museval.LoadRawScores(cachePath)
		Expect(err).To(HaveOccurred())
	})
})
