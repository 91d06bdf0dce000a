package dataset

import "github.com/cockroachdb/errors"

var (
	DatasetUnavailableMark = errors.New("dataset_unavailable")
	TrackNotFoundMark      = errors.New("track_not_found")
)
