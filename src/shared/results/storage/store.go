package resultsstorage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/mixcheck/stembench/src/shared/lib/mark"
	resultsentity "github.com/mixcheck/stembench/src/shared/results/entity"
)

// Load reads the combined results store from path. A missing file is not an
// error - it means no sweep has recorded anything yet and an empty store is
// returned. A file that exists but does not parse is a fatal integrity error.
func Load(path string) (resultsentity.CombinedResults, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return resultsentity.NewCombinedResults(), nil
		}

		return nil, mark.Wrap(err, CorruptStoreMark, "Failed to read the combined results store")
	}

	results := resultsentity.NewCombinedResults()
	if err := json.Unmarshal(contents, &results); err != nil {
		return nil, mark.Wrap(err, CorruptStoreMark, "Combined results store contents are not well formed")
	}

	return results, nil
}

// Flush serializes the whole store and replaces the file at path atomically.
// The temp file lands in the same directory so the rename never crosses a
// filesystem boundary, and a crash mid-write leaves the previous file intact.
func Flush(results resultsentity.CombinedResults, path string) error {
	contents, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return errors.Wrap(err, "Failed to serialize the combined results store")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrap(err, "Failed to create the directory for the combined results store")
	}

	tempPath := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%s", filepath.Base(path), uuid.New().String()))
	if err := os.WriteFile(tempPath, contents, 0644); err != nil {
		return errors.Wrap(err, "Failed to write the temp results file")
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "Failed to move the temp results file into place")
	}

	return nil
}
