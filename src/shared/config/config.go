package config

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Run is the optional YAML run configuration. Anything left empty falls back
// to the environment defaults in the application package.
type Run struct {
	DatasetRoot   string   `yaml:"dataset_root"`
	ResultsRoot   string   `yaml:"results_root"`
	StorePath     string   `yaml:"store_path"`
	ModelRegistry string   `yaml:"model_registry"`
	SeparatorBin  string   `yaml:"separator_bin"`
	MusevalBin    string   `yaml:"museval_bin"`

	// Tracks selects which dataset tracks get evaluated. Empty keeps the
	// smoke sweep default of the first discovered track.
	Tracks []string `yaml:"tracks"`
}

func LoadRun(reader io.Reader) (Run, error) {
	decoder := yaml.NewDecoder(reader)

	var run Run
	if err := decoder.Decode(&run); err != nil {
		return Run{}, errors.Wrap(err, "Failed to decode run config")
	}

	return run, nil
}

func LoadRunFile(path string) (Run, error) {
	file, err := os.Open(path)
	if err != nil {
		return Run{}, errors.Wrap(err, "Failed to open run config file")
	}
	defer file.Close()

	return LoadRun(file)
}
