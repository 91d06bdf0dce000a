package catalog

import (
	"os"
	"strings"

	"github.com/mixcheck/stembench/src/shared/lib/mark"
	"gopkg.in/yaml.v3"
)

// Weight file extensions that can serve as the canonical model identifier.
var weightExtensions = []string{".onnx", ".pth", ".ckpt"}

// Entry is one model in the registry. A registry value is either a bare
// weight file name or a mapping of candidate files, so the two shapes are
// resolved into a tagged variant at load time instead of being type-switched
// at every use site.
type Entry struct {
	ModelType string
	ModelName string

	// exactly one of these is set
	SingleFile string
	Files      []string
}

// Resolve picks the canonical model identifier for this entry: the single
// file if there is one, otherwise the first candidate carrying a recognized
// weight extension in registry order. ok is false when no candidate
// qualifies.
func (e Entry) Resolve() (string, bool) {
	if e.SingleFile != "" {
		return e.SingleFile, true
	}

	for _, fileName := range e.Files {
		for _, extension := range weightExtensions {
			if strings.HasSuffix(fileName, extension) {
				return fileName, true
			}
		}
	}

	return "", false
}

type Catalog struct {
	Entries []Entry
}

// Load parses the model registry YAML:
//
//	model_type:
//	  model name: weight_file.ckpt
//	  other model:
//	    file_a.yaml: <checksum>
//	    file_b.onnx: <checksum>
//
// Decoding goes through yaml.Node so that registry order is preserved -
// entry order decides which candidate file wins and which pair runs first.
func Load(path string) (Catalog, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, mark.Wrap(err, RegistryUnavailableMark, "Failed to read the model registry")
	}

	return Parse(contents)
}

func Parse(contents []byte) (Catalog, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(contents, &document); err != nil {
		return Catalog{}, mark.Wrap(err, RegistryUnavailableMark, "Failed to parse the model registry")
	}

	if len(document.Content) == 0 {
		return Catalog{}, nil
	}

	registry := document.Content[0]
	if registry.Kind != yaml.MappingNode {
		return Catalog{}, mark.Message(RegistryUnavailableMark, "Model registry root is not a mapping")
	}

	entries := []Entry{}
	for i := 0; i+1 < len(registry.Content); i += 2 {
		modelType := registry.Content[i].Value
		models := registry.Content[i+1]

		if models.Kind != yaml.MappingNode {
			return Catalog{}, mark.Message(RegistryUnavailableMark, "Model type section is not a mapping")
		}

		for j := 0; j+1 < len(models.Content); j += 2 {
			modelName := models.Content[j].Value
			value := models.Content[j+1]

			entry, err := parseEntry(modelType, modelName, value)
			if err != nil {
				return Catalog{}, err
			}

			entries = append(entries, entry)
		}
	}

	return Catalog{Entries: entries}, nil
}

func parseEntry(modelType string, modelName string, value *yaml.Node) (Entry, error) {
	entry := Entry{
		ModelType: modelType,
		ModelName: modelName,
	}

	switch value.Kind {
	case yaml.ScalarNode:
		entry.SingleFile = value.Value
		return entry, nil

	case yaml.MappingNode:
		for k := 0; k < len(value.Content); k += 2 {
			entry.Files = append(entry.Files, value.Content[k].Value)
		}
		return entry, nil

	default:
		return Entry{}, mark.Message(RegistryUnavailableMark, "Model registry entry is neither a file name nor a file mapping")
	}
}
