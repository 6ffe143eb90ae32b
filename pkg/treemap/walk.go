package treemap

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	"github.com/serverlessresearch/gridkit/pkg/grid"
)

// WalkResult is everything found under a local root. Paths are relative to
// Root, slash-separated, with no leading slash. The root directory itself
// is the empty string in Directories.
type WalkResult struct {
	Root        string
	Directories []string
	Files       []string
}

// Walk enumerates every directory and file under root.
//
// Symbolic links are never followed: a link to a directory is neither
// descended into nor reported, any other link is reported as a file.
// Directories are returned sorted; files are returned in traversal order,
// which is lexical within each directory.
func Walk(root string) (*WalkResult, error) {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, grid.NotFound(root)
	} else if err != nil {
		return nil, errors.Wrapf(err, "Failed to stat %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", root)
	}

	// The root may itself be a link; walk its target but report paths
	// relative to it.
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to resolve %s", root)
	}

	res := &WalkResult{Root: root}
	err = godirwalk.Walk(walkRoot, &godirwalk.Options{
		FollowSymbolicLinks: false,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			rel := relativeTo(walkRoot, osPathname)
			if de.IsDir() {
				res.Directories = append(res.Directories, rel)
				return nil
			}
			if de.IsSymlink() {
				toDir, err := de.IsDirOrSymlinkToDir()
				if err != nil {
					// Dangling link, still a file entry.
					toDir = false
				}
				if toDir {
					return godirwalk.SkipThis
				}
			}
			res.Files = append(res.Files, rel)
			return nil
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to walk %s", root)
	}

	sort.Strings(res.Directories)
	return res, nil
}

func relativeTo(root, p string) string {
	rel := strings.TrimPrefix(p, root)
	rel = strings.TrimLeft(rel, string(os.PathSeparator))
	return filepath.ToSlash(rel)
}
