package blazeerr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindsAreDistinguishable(t *testing.T) {
	require := require.New(t)

	err := ErrSchemaMiss.New("R.A")
	require.True(ErrSchemaMiss.Is(err))
	require.False(ErrTypeMismatch.Is(err))
}

func TestWrapPreservesKind(t *testing.T) {
	require := require.New(t)

	inner := ErrUnsupported.New("subquery")
	wrapped := Wrap(inner, "planning WHERE clause")
	require.Error(wrapped)
	require.Contains(wrapped.Error(), "planning WHERE clause")
	require.Contains(wrapped.Error(), "unsupported")
}

func TestWrapNil(t *testing.T) {
	require := require.New(t)
	require.NoError(Wrap(nil, "no-op"))
}
