package dataset

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/apex/log"
	"github.com/mixcheck/stembench/src/shared/lib/mark"
)

const (
	MixtureFileName = "mixture.wav"
)

// Track is one song in the reference dataset. The directory holds the
// mixture waveform and the ground truth stem waveforms.
type Track struct {
	Name string
	Dir  string
}

func (t Track) MixturePath() string {
	return filepath.Join(t.Dir, MixtureFileName)
}

func (t Track) ReferenceStemPath(stemName string) string {
	return filepath.Join(t.Dir, stemName+".wav")
}

// Dataset is an index over a MUSDB-style directory tree: every directory
// containing a mixture.wav is a track, named after the directory.
type Dataset struct {
	root   string
	tracks []Track
}

func Load(root string) (*Dataset, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, mark.Wrap(err, DatasetUnavailableMark, "Failed to stat the dataset root")
	}

	if !info.IsDir() {
		return nil, mark.Message(DatasetUnavailableMark, "Dataset root is not a directory")
	}

	tracks := []Track{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || d.Name() != MixtureFileName {
			return nil
		}

		trackDir := filepath.Dir(path)
		tracks = append(tracks, Track{
			Name: filepath.Base(trackDir),
			Dir:  trackDir,
		})

		return nil
	})

	if err != nil {
		return nil, mark.Wrap(err, DatasetUnavailableMark, "Failed to walk the dataset root")
	}

	// WalkDir is lexically ordered already, but the iteration order is a
	// durability contract so it doesn't get to be implicit
	sort.Slice(tracks, func(i int, j int) bool {
		return tracks[i].Dir < tracks[j].Dir
	})

	log.WithFields(log.Fields{
		"root":        root,
		"track_count": len(tracks),
	}).Info("Indexed dataset")

	return &Dataset{
		root:   root,
		tracks: tracks,
	}, nil
}

func (d *Dataset) Root() string {
	return d.root
}

func (d *Dataset) Tracks() []Track {
	return d.tracks
}

func (d *Dataset) Track(name string) (Track, error) {
	for _, track := range d.tracks {
		if track.Name == name {
			return track, nil
		}
	}

	return Track{}, mark.Message(TrackNotFoundMark, "Track is not in the dataset")
}

// Select resolves the configured track names into dataset tracks. An empty
// selection keeps the smoke sweep behavior of the first discovered track.
func (d *Dataset) Select(names []string) ([]Track, error) {
	if len(names) == 0 {
		if len(d.tracks) == 0 {
			return nil, mark.Message(DatasetUnavailableMark, "Dataset contains no tracks")
		}

		return d.tracks[:1], nil
	}

	selected := make([]Track, 0, len(names))
	for _, name := range names {
		track, err := d.Track(name)
		if err != nil {
			return nil, mark.Wrap(err, DatasetUnavailableMark, "Configured track selection names a missing track")
		}

		selected = append(selected, track)
	}

	return selected, nil
}
