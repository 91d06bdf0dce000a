package separation

import "context"

// Engine turns a mixture waveform into estimated stem waveform files. The
// separation numerics are a black box behind this interface: given a model
// identifier and a mixture file, it materializes vocals.wav and
// instrumental.wav in the output directory.
type Engine interface {
	LoadModel(ctx context.Context, modelID string) error
	Separate(ctx context.Context, modelID string, mixturePath string, outputDir string) error
}
