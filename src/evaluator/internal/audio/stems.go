package audio

import (
	"os"

	"github.com/cockroachdb/errors"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mixcheck/stembench/src/shared/lib/mark"
)

// Stem is one decoded stem waveform in the frames x channels layout the
// metric engine consumes. Mono files come out with a single channel column,
// matching the reference track's 2D convention.
type Stem struct {
	Path       string
	Samples    [][]float64
	SampleRate int
}

func (s Stem) Channels() int {
	if len(s.Samples) == 0 {
		return 0
	}

	return len(s.Samples[0])
}

func (s Stem) Frames() int {
	return len(s.Samples)
}

// LoadStem decodes a PCM WAV file into normalized float samples in [-1, 1).
func LoadStem(path string) (Stem, error) {
	file, err := os.Open(path)
	if err != nil {
		return Stem{}, errors.Wrap(err, "Failed to open stem file")
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return Stem{}, mark.Message(MalformedAudioMark, "Stem file is not a valid WAV file")
	}

	buffer, err := decoder.FullPCMBuffer()
	if err != nil {
		return Stem{}, mark.Wrap(err, MalformedAudioMark, "Failed to decode PCM data from stem file")
	}

	numChannels := buffer.Format.NumChannels
	if numChannels < 1 {
		return Stem{}, mark.Message(MalformedAudioMark, "Stem file reports no channels")
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = buffer.SourceBitDepth
	}
	if bitDepth <= 0 {
		return Stem{}, mark.Message(MalformedAudioMark, "Stem file reports no bit depth")
	}
	scale := float64(int64(1) << (bitDepth - 1))

	frameCount := len(buffer.Data) / numChannels
	samples := make([][]float64, frameCount)
	for frame := 0; frame < frameCount; frame++ {
		channels := make([]float64, numChannels)
		for channel := 0; channel < numChannels; channel++ {
			channels[channel] = float64(buffer.Data[frame*numChannels+channel]) / scale
		}
		samples[frame] = channels
	}

	return Stem{
		Path:       path,
		Samples:    samples,
		SampleRate: buffer.Format.SampleRate,
	}, nil
}

// WriteStem encodes float samples back into a 16-bit PCM WAV file. The sweep
// itself never writes stems - the separation engine does - but dummy engines
// and fixtures need to produce real waveform files.
func WriteStem(path string, samples [][]float64, sampleRate int) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "Failed to create stem file")
	}
	defer file.Close()

	numChannels := 1
	if len(samples) > 0 {
		numChannels = len(samples[0])
	}

	const bitDepth = 16
	const scale = 1 << (bitDepth - 1)

	data := make([]int, 0, len(samples)*numChannels)
	for _, frame := range samples {
		for _, sample := range frame {
			data = append(data, int(sample*scale))
		}
	}

	encoder := wav.NewEncoder(file, sampleRate, bitDepth, numChannels, 1)
	buffer := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: numChannels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := encoder.Write(buffer); err != nil {
		return errors.Wrap(err, "Failed to encode stem samples")
	}

	if err := encoder.Close(); err != nil {
		return errors.Wrap(err, "Failed to finalize stem file")
	}

	return nil
}
