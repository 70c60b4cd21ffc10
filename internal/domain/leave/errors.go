package leave

import "errors"

// Leave domain errors
var (
	ErrStatusNotFound = errors.New("leave status not found")
)
