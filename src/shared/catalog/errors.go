package catalog

import "github.com/cockroachdb/errors"

var (
	RegistryUnavailableMark = errors.New("model_registry_unavailable")
)
