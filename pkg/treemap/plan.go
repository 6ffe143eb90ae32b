package treemap

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/serverlessresearch/gridkit/pkg/grid"
)

// A CollectionAction creates one remote collection.
type CollectionAction struct {
	Relative string
	Remote   string
}

// A TransferAction uploads one local file.
type TransferAction struct {
	Relative string
	Local    string
	Remote   string
}

// Plan is the ordered list of remote actions for one upload. Every
// collection action must be carried out before any transfer action.
type Plan struct {
	Source      string
	Destination string
	Collections []CollectionAction
	Transfers   []TransferAction
}

type Planner struct {
	Mode PrefixMode
}

func NewPlanner(mode PrefixMode) *Planner {
	return &Planner{Mode: mode}
}

// Plan maps localPath onto the remote prefix dest.
//
// A file is sent to dest itself. A directory named N is mirrored under
// dest/N, creating its minimal directory set first. Nothing is touched
// remotely; the only I/O is the local walk.
func (p *Planner) Plan(localPath string, dest string) (*Plan, error) {
	local, err := Disambiguate(localPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(local)
	if os.IsNotExist(err) {
		return nil, grid.NotFound(local)
	} else if err != nil {
		return nil, errors.Wrapf(err, "Failed to stat %s", local)
	}

	plan := &Plan{Source: local, Destination: dest}

	if info.Mode().IsRegular() {
		plan.Transfers = []TransferAction{{
			Relative: filepath.Base(local),
			Local:    local,
			Remote:   dest,
		}}
		return plan, nil
	}
	if !info.IsDir() {
		return nil, grid.NotFound(local)
	}

	name := filepath.Base(local)
	if name == string(filepath.Separator) {
		return nil, errors.Errorf("cannot upload filesystem root %s", local)
	}

	walked, err := Walk(local)
	if err != nil {
		return nil, err
	}

	subtree := grid.JoinRemote(dest, name)
	for _, d := range MinimalDirectories(walked.Directories, p.Mode) {
		plan.Collections = append(plan.Collections, CollectionAction{
			Relative: d,
			Remote:   grid.JoinRemote(subtree, d),
		})
	}
	for _, f := range walked.Files {
		plan.Transfers = append(plan.Transfers, TransferAction{
			Relative: f,
			Local:    filepath.Join(local, filepath.FromSlash(f)),
			Remote:   grid.JoinRemote(subtree, f),
		})
	}
	return plan, nil
}
