package resultsentity

import "github.com/cockroachdb/errors"

var (
	DuplicateTrackMark = errors.New("duplicate_track_entry")
)
