package separation

import "github.com/cockroachdb/errors"

var (
	ModelLoadMark        = errors.New("model_load_failed")
	SeparationFailedMark = errors.New("separation_failed")
)
