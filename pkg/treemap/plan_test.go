package treemap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/serverlessresearch/gridkit/pkg/grid"
	"github.com/serverlessresearch/gridkit/pkg/treemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Build a tree under a fresh temp dir: mytree/{a/b/c.txt, a/b/d/e.txt, a/x/}
func makeTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "mytree")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b", "d"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "x"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "c.txt"), []byte("c"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "d", "e.txt"), []byte("e"), 0644))
	return root
}

func TestWalk(t *testing.T) {
	root := makeTree(t)

	res, err := treemap.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, root, res.Root)
	assert.Equal(t, []string{"", "a", "a/b", "a/b/d", "a/x"}, res.Directories)
	assert.ElementsMatch(t, []string{"a/b/c.txt", "a/b/d/e.txt"}, res.Files)
}

func TestWalkRootFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.txt"), nil, 0644))

	res, err := treemap.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, res.Directories)
	assert.Equal(t, []string{"top.txt"}, res.Files)
}

func TestWalkSkipsDirectoryLinks(t *testing.T) {
	root := makeTree(t)
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "hidden.txt"), nil, 0644))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(root, "a", "b", "c.txt"), filepath.Join(root, "linkfile")))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "broken")))

	res, err := treemap.Walk(root)
	require.NoError(t, err)
	assert.NotContains(t, res.Directories, "linkdir")
	assert.NotContains(t, res.Files, "linkdir")
	assert.NotContains(t, res.Files, "linkdir/hidden.txt")
	assert.Contains(t, res.Files, "linkfile")
	assert.Contains(t, res.Files, "broken")
}

func TestPlanRejectsRoot(t *testing.T) {
	plan, err := treemap.NewPlanner(treemap.SegmentPrefix).Plan("/", "/zone")
	assert.Nil(t, plan)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "filesystem root")
}

func TestWalkMissing(t *testing.T) {
	_, err := treemap.Walk(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, grid.IsNotFound(err))
}

func TestPlanDirectory(t *testing.T) {
	root := makeTree(t)

	plan, err := treemap.NewPlanner(treemap.SegmentPrefix).Plan(root, "/zone/home/user")
	require.NoError(t, err)

	assert.Equal(t, []treemap.CollectionAction{
		{Relative: "a/b/d", Remote: "/zone/home/user/mytree/a/b/d"},
		{Relative: "a/x", Remote: "/zone/home/user/mytree/a/x"},
	}, plan.Collections)

	assert.ElementsMatch(t, []treemap.TransferAction{
		{Relative: "a/b/c.txt", Local: filepath.Join(root, "a", "b", "c.txt"), Remote: "/zone/home/user/mytree/a/b/c.txt"},
		{Relative: "a/b/d/e.txt", Local: filepath.Join(root, "a", "b", "d", "e.txt"), Remote: "/zone/home/user/mytree/a/b/d/e.txt"},
	}, plan.Transfers)
}

func TestPlanFlatDirectoryCreatesSubtreeRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "flat")
	require.NoError(t, os.Mkdir(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "one.txt"), nil, 0644))

	plan, err := treemap.NewPlanner(treemap.StringPrefix).Plan(root, "/zone/home/user")
	require.NoError(t, err)
	assert.Equal(t, []treemap.CollectionAction{{Relative: "", Remote: "/zone/home/user/flat"}}, plan.Collections)
	require.Len(t, plan.Transfers, 1)
	assert.Equal(t, "/zone/home/user/flat/one.txt", plan.Transfers[0].Remote)
}

func TestPlanSingleFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(file, []byte("a,b\n"), 0644))

	plan, err := treemap.NewPlanner(treemap.SegmentPrefix).Plan(file, "/zone/home/user")
	require.NoError(t, err)
	assert.Empty(t, plan.Collections)
	assert.Equal(t, []treemap.TransferAction{
		{Relative: "report.csv", Local: file, Remote: "/zone/home/user"},
	}, plan.Transfers)
}

func TestPlanMissing(t *testing.T) {
	plan, err := treemap.NewPlanner(treemap.SegmentPrefix).Plan(filepath.Join(t.TempDir(), "missing"), "/zone")
	assert.Nil(t, plan)
	assert.True(t, grid.IsNotFound(err))
}

func TestPlanIdempotent(t *testing.T) {
	root := makeTree(t)
	p := treemap.NewPlanner(treemap.SegmentPrefix)

	first, err := p.Plan(root, "/zone/home/user")
	require.NoError(t, err)
	second, err := p.Plan(root, "/zone/home/user")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDisambiguate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()

	p, err := treemap.Disambiguate("~/data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), p)

	p, err = treemap.Disambiguate("~")
	require.NoError(t, err)
	assert.Equal(t, home, p)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	p, err = treemap.Disambiguate("../data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(cwd), "data"), p)

	// Only the invoking user's home is expanded.
	p, err = treemap.Disambiguate("~other/x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "~other", "x"), p)

	p, err = treemap.Disambiguate("/x/./y/../z/")
	require.NoError(t, err)
	assert.Equal(t, "/x/z", p)

	_, err = treemap.Disambiguate("")
	assert.NotNil(t, err)
}
