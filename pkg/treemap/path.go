package treemap

import (
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// Disambiguate turns a raw user-supplied path into an absolute, cleaned
// local path. A leading "~" or "~/" is expanded to the invoking user's home
// directory; "~name" is an ordinary relative path. "." and ".." segments are resolved lexically; symbolic links
// are left alone.
func Disambiguate(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("empty path")
	}

	p := raw
	if p == "~" || strings.HasPrefix(p, "~/") {
		expanded, err := homedir.Expand(p)
		if err != nil {
			return "", errors.Wrapf(err, "Failed to expand home directory in %s", raw)
		}
		p = expanded
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to make %s absolute", raw)
	}
	return abs, nil
}
