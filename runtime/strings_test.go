package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringObjectSizeIsThreePointerFields(t *testing.T) {
	// char*, size_t, size_t: three machine-word-sized fields on every
	// platform this module targets.
	require.True(t, StringObjectSize == 24 || StringObjectSize == 12)
}

func TestStringHelperAddressesAreDistinctAndNonZero(t *testing.T) {
	addrs := []uintptr{
		StringDefaultCtorAddr(),
		StringFromCStrCtorAddr(),
		StringDtorAddr(),
		StringIndexAddr(),
		StringAssignAddr(),
		StringCStrAddr(),
	}
	seen := make(map[uintptr]bool, len(addrs))
	for _, a := range addrs {
		require.NotZero(t, a)
		require.False(t, seen[a], "helper addresses must be distinct")
		seen[a] = true
	}
}
