package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestResolveHeaderlessFromSchemaFile(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	writeFile(t, dir, "schema.txt", "R A B\nS C D\n")
	writeFile(t, dir, "R.csv", "1,10\n2,20\n")

	c, err := Open(dir)
	require.NoError(err)

	tbl, err := c.Resolve("R")
	require.NoError(err)
	require.False(tbl.HasHeader)
	require.Equal([]string{"A", "B"}, tbl.Columns)
	require.Equal(filepath.Join(dir, "R.csv"), tbl.Path)
}

func TestResolveWithHeaderWhenNotInSchemaFile(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	writeFile(t, dir, "T.csv", "K,V\n1,5\n")

	c, err := Open(dir)
	require.NoError(err)

	tbl, err := c.Resolve("T")
	require.NoError(err)
	require.True(tbl.HasHeader)
}

func TestResolveMissingTable(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(err)

	_, err = c.Resolve("Ghost")
	require.Error(err)
}

func TestOpenWithoutSchemaFile(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(err)
	require.Empty(c.schemas)
}
