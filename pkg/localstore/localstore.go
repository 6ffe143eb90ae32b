// A grid store kept on a go-billy filesystem. Collections are directories
// and data objects are regular files under the filesystem root, so remote
// path "/zone/home/user/f.txt" lives at <root>/zone/home/user/f.txt.
// Backed by osfs for a real on-disk grid and memfs for tests.
package localstore

import (
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
	"github.com/serverlessresearch/gridkit/pkg/grid"
)

type localStore struct {
	fs  billy.Filesystem
	log grid.Logger
}

// New wraps an existing billy filesystem.
func New(logger grid.Logger, fs billy.Filesystem) *localStore {
	return &localStore{fs: fs, log: logger}
}

// NewOS opens a store rooted at a local directory, creating it if needed.
func NewOS(logger grid.Logger, root string) (*localStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrap(err, "Failed to create local grid root "+root)
	}
	return New(logger, osfs.New(root)), nil
}

func errorHandler(err error, p string) error {
	if os.IsNotExist(err) {
		return grid.NotFound(p)
	} else if os.IsExist(err) {
		return errors.Errorf("%s already exists", p)
	} else if os.IsPermission(err) {
		return errors.Errorf("permission denied on %s", p)
	}
	return errors.Wrap(err, p)
}

func (s *localStore) stat(remotePath string) (os.FileInfo, error) {
	info, err := s.fs.Stat(remotePath)
	if err != nil {
		s.log.Debugf("stat %s: %v", remotePath, err)
		return nil, err
	}
	return info, nil
}

func (s *localStore) DataObjectExists(remotePath string) bool {
	info, err := s.stat(remotePath)
	return err == nil && info.Mode().IsRegular()
}

func (s *localStore) CollectionExists(remotePath string) bool {
	info, err := s.stat(remotePath)
	return err == nil && info.IsDir()
}

func (s *localStore) CreateCollection(remotePath string) (*grid.Object, error) {
	if err := s.fs.MkdirAll(remotePath, 0755); err != nil {
		return nil, errorHandler(err, remotePath)
	}
	return grid.NewObject(remotePath, grid.CollectionKind, 0, nil), nil
}

func (s *localStore) Put(localFile string, remotePath string) error {
	from, err := os.Open(localFile)
	if err != nil {
		if os.IsNotExist(err) {
			return grid.NotFound(localFile)
		}
		return errors.Wrap(err, "Failed to open "+localFile)
	}
	defer from.Close()

	to, err := s.fs.OpenFile(remotePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errorHandler(err, remotePath)
	}
	if _, err := io.Copy(to, from); err != nil {
		to.Close()
		return errors.Wrapf(err, "Failed to write %s", remotePath)
	}
	return errors.Wrapf(to.Close(), "Failed to close %s", remotePath)
}

func (s *localStore) Get(remotePath string) (*grid.Object, error) {
	info, err := s.fs.Stat(remotePath)
	if err != nil {
		return nil, errorHandler(err, remotePath)
	}
	if info.IsDir() {
		return grid.NewObject(remotePath, grid.CollectionKind, 0, nil), nil
	}
	return grid.NewObject(remotePath, grid.DataObjectKind, info.Size(), func() (io.ReadCloser, error) {
		f, err := s.fs.Open(remotePath)
		if err != nil {
			return nil, errorHandler(err, remotePath)
		}
		return f, nil
	}), nil
}

func (s *localStore) Destroy() {}
