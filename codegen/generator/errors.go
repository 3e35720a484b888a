package generator

import (
	"errors"
	"fmt"
)

// StaleError reports a generated file that does not match what the generator would write.
type StaleError struct {
	Path   string
	Reason string
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("%s is stale (%s); run markergen generate", e.Path, e.Reason)
}

// IsStaleErr reports whether err is or wraps a *StaleError.
func IsStaleErr(err error) bool {
	var staleErr *StaleError
	return errors.As(err, &staleErr)
}
