package mark

import (
	"github.com/cockroachdb/errors"
)

// Wrap attaches a mark to a wrapped error so that callers can classify it
// with errors.Is without the error types leaking across package boundaries.
func Wrap(err error, m error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), m)
}

func Message(m error, msg string) error {
	return errors.Mark(errors.New(msg), m)
}
