package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveQualified(t *testing.T) {
	require := require.New(t)
	s := New("R.A", "R.B")

	i, ok := s.Resolve("R", "A")
	require.True(ok)
	require.Equal(0, i)

	_, ok = s.Resolve("S", "A")
	require.False(ok)
}

func TestResolveBareUnique(t *testing.T) {
	require := require.New(t)
	s := New("R.A", "R.B")

	i, ok := s.Resolve("", "B")
	require.True(ok)
	require.Equal(1, i)

	_, ok = s.Resolve("", "Z")
	require.False(ok)
}

func TestResolveBareAmbiguous(t *testing.T) {
	require := require.New(t)
	s := New("R.A", "S.A")

	_, ok := s.Resolve("", "A")
	require.False(ok)
}

func TestConcatRenumbers(t *testing.T) {
	require := require.New(t)
	left := New("R.A", "R.B")
	right := New("S.C", "S.D")

	merged := Concat(left, right)
	require.Equal([]string{"R.A", "R.B", "S.C", "S.D"}, merged.Columns())

	i, ok := merged.Index("S.C")
	require.True(ok)
	require.Equal(2, i)
}

func TestSchemaIndicesContiguous(t *testing.T) {
	require := require.New(t)
	s := New("A", "B", "C")

	seen := make(map[int]bool)
	for _, c := range s.Columns() {
		i, ok := s.Index(c)
		require.True(ok)
		seen[i] = true
	}
	require.Len(seen, 3)
	for i := 0; i < 3; i++ {
		require.True(seen[i])
	}
}

func TestDuplicateColumnPanics(t *testing.T) {
	require := require.New(t)
	require.Panics(func() {
		New("A", "A")
	})
}

func TestTupleKey(t *testing.T) {
	require := require.New(t)
	tup := Tuple{"1", "foo"}
	require.Equal("1, foo", tup.Key())
}

func TestCheckWidth(t *testing.T) {
	require := require.New(t)
	s := New("A", "B")
	require.True(s.CheckWidth(Tuple{"1", "2"}))
	require.False(s.CheckWidth(Tuple{"1"}))
}
