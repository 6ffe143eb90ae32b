package gridmgr

import (
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/serverlessresearch/gridkit/pkg/grid"
	"github.com/serverlessresearch/gridkit/pkg/localstore"
	"github.com/serverlessresearch/gridkit/pkg/s3store"
	"github.com/serverlessresearch/gridkit/pkg/treemap"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type GridManager struct {
	Store   grid.Store
	Logger  grid.Logger
	Cfg     Config
	planner *treemap.Planner
}

// NewManager builds a session. Recognized options:
//   "config-file" (string): explicit configuration file
//   "logger" (grid.Logger): logger to use instead of a fresh logrus logger
//   "store" (grid.Store): pre-built store, skipping store construction
func NewManager(userCfg map[string]interface{}) (*GridManager, error) {
	mgr := &GridManager{}

	if loggerRaw, ok := userCfg["logger"]; ok {
		if logger, ok := loggerRaw.(grid.Logger); ok {
			mgr.Logger = logger
		} else {
			return nil, errors.New("option 'logger' must satisfy grid.Logger")
		}
	} else {
		mgr.Logger = logrus.New()
	}

	// This is a private viper context just for gridkit (so as not to
	// conflict with the importer's usage).
	v := viper.New()
	setDefaults(v)

	var err error
	if cfgPathRaw, ok := userCfg["config-file"]; ok {
		if cfgPath, ok := cfgPathRaw.(string); ok {
			err = readConfigFile(v, &cfgPath)
		} else {
			return nil, errors.New("option 'config-file' must be of type string")
		}
	} else {
		err = readConfigFile(v, nil)
	}
	if err != nil {
		return nil, err
	}

	// Credentials are checked here, before any store (and so any network
	// activity) exists.
	mgr.Cfg, err = LoadConfig(v)
	if err != nil {
		return nil, err
	}
	mgr.planner = treemap.NewPlanner(mgr.Cfg.PrefixMode)

	if storeRaw, ok := userCfg["store"]; ok {
		if store, ok := storeRaw.(grid.Store); ok {
			mgr.Store = store
		} else {
			return nil, errors.New("option 'store' must satisfy grid.Store")
		}
	} else if err := mgr.initStore(); err != nil {
		return nil, err
	}

	return mgr, nil
}

func (self *GridManager) initStore() error {
	var err error
	switch self.Cfg.Store {
	case "s3":
		self.Store, err = s3store.NewStore(
			self.Logger.WithField("module", "store.s3"),
			self.Cfg.S3)
	case "local":
		self.Store, err = localstore.NewOS(
			self.Logger.WithField("module", "store.local"),
			self.Cfg.LocalRoot)
	default:
		return errors.New("Unrecognized store: " + self.Cfg.Store)
	}
	if err != nil {
		return errors.Wrap(err, "Failed to initialize store "+self.Cfg.Store)
	}
	return nil
}

func (self *GridManager) Destroy() {
	if self.Store != nil {
		self.Store.Destroy()
	}
}

// Resolve places a relative remote target under the user's home collection.
func (self *GridManager) Resolve(target string) string {
	return grid.ResolveRemote(self.Cfg.HomeCollection(), target)
}

// Plan computes the actions for uploading localPath to dest without
// touching the store.
func (self *GridManager) Plan(localPath string, dest string) (*treemap.Plan, error) {
	return self.planner.Plan(localPath, self.Resolve(dest))
}

// Upload mirrors a local file or directory to dest.
func (self *GridManager) Upload(localPath string, dest string) (*treemap.Plan, error) {
	plan, err := self.Plan(localPath, dest)
	if err != nil {
		return nil, err
	}
	return plan, self.Execute(plan)
}

// Execute carries out a plan in order: every collection, then every file.
// The first failure stops execution; earlier actions are left in place.
func (self *GridManager) Execute(plan *treemap.Plan) error {
	for _, c := range plan.Collections {
		self.Logger.Debugf("mkcoll %s", c.Remote)
		if _, err := self.Store.CreateCollection(c.Remote); err != nil {
			return errors.Wrapf(err, "Failed to create collection %s", c.Remote)
		}
	}

	// A lone file sent to a collection lands inside it, as with PutFile.
	single := len(plan.Collections) == 0

	var total uint64
	for _, t := range plan.Transfers {
		remote := t.Remote
		if single {
			remote = self.dataObjectPath(t.Local, remote)
		}
		info, err := os.Stat(t.Local)
		if err != nil {
			if os.IsNotExist(err) {
				return grid.NotFound(t.Local)
			}
			return errors.Wrapf(err, "Failed to stat %s", t.Local)
		}
		self.Logger.WithField("size", humanize.Bytes(uint64(info.Size()))).Debugf("put %s -> %s", t.Local, remote)
		if err := self.Store.Put(t.Local, remote); err != nil {
			return errors.Wrapf(err, "Failed to put %s to %s", t.Local, remote)
		}
		total += uint64(info.Size())
	}

	self.Logger.Infof("Uploaded %d files (%s) and created %d collections under %s",
		len(plan.Transfers), humanize.Bytes(total), len(plan.Collections), plan.Destination)
	return nil
}

// PutFile uploads a single regular file to dest.
func (self *GridManager) PutFile(localFile string, dest string) error {
	local, err := treemap.Disambiguate(localFile)
	if err != nil {
		return err
	}
	if info, err := os.Stat(local); err != nil || !info.Mode().IsRegular() {
		return grid.NotFound(local)
	}
	return self.Store.Put(local, self.dataObjectPath(local, self.Resolve(dest)))
}

// dataObjectPath is where a single local file sent to remote is stored.
// The home collection and any existing collection receive the file under
// its own name; anything else is taken as the data object path itself.
func (self *GridManager) dataObjectPath(local string, remote string) string {
	if remote == self.Cfg.HomeCollection() || self.Store.CollectionExists(remote) {
		return grid.JoinRemote(remote, filepath.Base(local))
	}
	return remote
}

func (self *GridManager) MakeCollection(target string) (*grid.Object, error) {
	return self.Store.CreateCollection(self.Resolve(target))
}

// Exists reports what, if anything, lives at target.
func (self *GridManager) Exists(target string) (grid.Kind, bool) {
	p := self.Resolve(target)
	if self.Store.DataObjectExists(p) {
		return grid.DataObjectKind, true
	}
	if self.Store.CollectionExists(p) {
		return grid.CollectionKind, true
	}
	return grid.DataObjectKind, false
}

// Get looks target up as a data object first, then as a collection.
func (self *GridManager) Get(target string) (*grid.Object, error) {
	p := self.Resolve(target)
	if self.Store.DataObjectExists(p) || self.Store.CollectionExists(p) {
		return self.Store.Get(p)
	}
	return nil, grid.NotFound(p)
}

// GetDataObject fetches a data object handle. With check set, a missing
// object yields (nil, nil) instead of an error.
func (self *GridManager) GetDataObject(target string, check bool) (*grid.Object, error) {
	p := self.Resolve(target)
	if check && !self.Store.DataObjectExists(p) {
		return nil, nil
	}
	obj, err := self.Store.Get(p)
	if err != nil {
		return nil, err
	}
	if obj.IsCollection() {
		return nil, errors.Errorf("%s is a collection", p)
	}
	return obj, nil
}

// GetCollection fetches a collection handle. With check set, a missing
// collection yields (nil, nil) instead of an error.
func (self *GridManager) GetCollection(target string, check bool) (*grid.Object, error) {
	p := self.Resolve(target)
	if check && !self.Store.CollectionExists(p) {
		return nil, nil
	}
	obj, err := self.Store.Get(p)
	if err != nil {
		return nil, err
	}
	if !obj.IsCollection() {
		return nil, errors.Errorf("%s is a data object", p)
	}
	return obj, nil
}

// Download copies the data object at target into localDir, which is created
// if needed. Returns the path of the written file.
func (self *GridManager) Download(target string, localDir string) (string, error) {
	obj, err := self.Get(target)
	if err != nil {
		return "", err
	}
	if obj.IsCollection() {
		return "", errors.Errorf("%s is a collection; only data objects can be downloaded", obj.Path)
	}
	return self.DataObjectToFile(obj, localDir)
}

// DataObjectToFile writes obj into localDir under the object's own name.
func (self *GridManager) DataObjectToFile(obj *grid.Object, localDir string) (string, error) {
	dir, err := treemap.Disambiguate(localDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0775); err != nil {
		return "", errors.Wrap(err, "Failed to create download directory "+dir)
	}

	src, err := obj.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	fileDest := filepath.Join(dir, obj.Name)
	dst, err := os.Create(fileDest)
	if err != nil {
		return "", errors.Wrap(err, "Failed to create "+fileDest)
	}
	n, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		return "", errors.Wrapf(err, "Failed to write %s", fileDest)
	}
	if err := dst.Close(); err != nil {
		return "", errors.Wrapf(err, "Failed to close %s", fileDest)
	}

	self.Logger.Infof("Downloaded %s to %s (%s)", obj.Path, fileDest, humanize.Bytes(uint64(n)))
	return fileDest, nil
}
