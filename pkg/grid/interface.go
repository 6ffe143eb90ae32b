// Standard interfaces and datatypes for gridkit.
// Terms:
//   "collection" : a remote directory-equivalent node in the grid hierarchy
//   "data object" : a remote file-equivalent leaf in the grid hierarchy
//   "store" : a specific implementation of the grid (S3-compatible service, local filesystem, etc.)
package grid

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Logger is satisfied by both *logrus.Logger and *logrus.Entry so callers
// can hand in a pre-configured logger or a field-scoped entry.
type Logger interface {
	logrus.FieldLogger
}

type Kind int

const (
	DataObjectKind Kind = iota
	CollectionKind
)

func (k Kind) String() string {
	switch k {
	case DataObjectKind:
		return "data object"
	case CollectionKind:
		return "collection"
	default:
		return "unknown"
	}
}

// An Object is a handle on a node in the remote hierarchy. Handles for data
// objects can be opened for reading; collection handles cannot.
type Object struct {
	Path string
	Name string
	Kind Kind
	Size int64

	open func() (io.ReadCloser, error)
}

// NewObject builds a handle. open may be nil for collections.
func NewObject(p string, kind Kind, size int64, open func() (io.ReadCloser, error)) *Object {
	return &Object{
		Path: p,
		Name: Base(p),
		Kind: kind,
		Size: size,
		open: open,
	}
}

func (o *Object) IsCollection() bool {
	return o.Kind == CollectionKind
}

// Open returns a reader over the data object's contents. Callers must close
// the reader.
func (o *Object) Open() (io.ReadCloser, error) {
	if o.Kind != DataObjectKind || o.open == nil {
		return nil, errors.Errorf("%s is a %v and cannot be opened", o.Path, o.Kind)
	}
	return o.open()
}

type Store interface {
	// Existence checks never fail. Errors from the backend are treated the
	// same as "does not exist"; implementations log them at debug level.
	DataObjectExists(remotePath string) bool
	CollectionExists(remotePath string) bool

	// Create a collection. Missing ancestor collections are materialized
	// by the store. Creating an existing collection is not an error.
	CreateCollection(remotePath string) (*Object, error)

	// Upload localFile to remotePath, replacing any existing data object.
	// Fails if localFile does not exist.
	Put(localFile string, remotePath string) error

	// Get returns a handle for a data object or collection. Returns a
	// NotFoundError if neither exists at remotePath.
	Get(remotePath string) (*Object, error)

	// Users must call Destroy on any created stores to release resources.
	Destroy()
}
