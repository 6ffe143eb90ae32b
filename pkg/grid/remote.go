package grid

// Helpers for slash-separated remote paths. Remote paths never use the
// local OS separator, so everything here goes through package path rather
// than path/filepath.

import (
	"path"
	"strings"
)

// HomeCollection returns the per-user home collection for a zone.
func HomeCollection(zone, user string) string {
	return path.Join("/", zone, "home", user)
}

// ResolveRemote turns a user-supplied target into an absolute remote path.
// Absolute targets are cleaned; relative ones (including "" and "~") are
// placed under home.
func ResolveRemote(home, target string) string {
	switch {
	case target == "" || target == "~":
		return path.Clean(home)
	case strings.HasPrefix(target, "~/"):
		return path.Join(home, target[2:])
	case strings.HasPrefix(target, "/"):
		return path.Clean(target)
	default:
		return path.Join(home, target)
	}
}

// JoinRemote joins remote path elements. The result is cleaned and has no
// trailing slash; empty elements are ignored.
func JoinRemote(elem ...string) string {
	return path.Join(elem...)
}

// Base returns the last element of a remote path.
func Base(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return path.Base(p)
}

// SplitRemote splits an absolute remote path into its zone (first segment)
// and the remainder, without leading or trailing slashes.
func SplitRemote(p string) (zone string, rest string) {
	p = strings.Trim(path.Clean("/"+p), "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i], p[i+1:]
	}
	return p, ""
}
