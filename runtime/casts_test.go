package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCastHelperAddressesAreNonZero(t *testing.T) {
	require.NotZero(t, DoubleToPtrAddr())
	require.NotZero(t, PtrToDoubleAddr())
	require.NotZero(t, Int32ToPtrAddr())
}

func TestCastHelperAddressesAreStable(t *testing.T) {
	require.Equal(t, DoubleToPtrAddr(), DoubleToPtrAddr())
}
