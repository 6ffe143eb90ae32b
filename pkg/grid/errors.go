package grid

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError reports a required setting that is absent or invalid.
// It is always fatal and is raised before any remote activity.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration error (%s): required value absent from environment", e.Key)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Key, e.Reason)
}

// NotFoundError reports a local or remote path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file/directory %s not found", e.Path)
}

func NotFound(p string) error {
	return &NotFoundError{Path: p}
}

// IsNotFound reports whether err, or anything it wraps, is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConfiguration reports whether err, or anything it wraps, is a
// ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
