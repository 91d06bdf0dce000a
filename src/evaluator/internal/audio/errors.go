package audio

import "github.com/cockroachdb/errors"

var (
	MalformedAudioMark = errors.New("malformed_audio_file")
)
