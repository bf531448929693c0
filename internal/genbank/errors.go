package genbank

import (
	"errors"
	"fmt"
)

// ErrNoFeatures is returned by callers that require a record when the input
// holds no feature table or no source feature with an organism qualifier.
var ErrNoFeatures = errors.New("no source feature with an organism qualifier found")

// ConfigurationError reports an invalid Cursor construction.
type ConfigurationError struct {
	Param   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("genbank: invalid %s: %s", e.Param, e.Message)
}
