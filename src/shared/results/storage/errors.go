package resultsstorage

import "github.com/cockroachdb/errors"

var (
	CorruptStoreMark = errors.New("corrupt_results_store")
)
