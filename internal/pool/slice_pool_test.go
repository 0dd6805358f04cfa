package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFloat64Slice(t *testing.T) {
	t.Run("ExactLength", func(t *testing.T) {
		s, cleanup := GetFloat64Slice(10)
		defer cleanup()
		require.Len(t, s, 10)
	})

	t.Run("ZeroLength", func(t *testing.T) {
		s, cleanup := GetFloat64Slice(0)
		defer cleanup()
		require.Empty(t, s)
	})

	t.Run("ShrinkAfterReuse", func(t *testing.T) {
		s, cleanup := GetFloat64Slice(100)
		s[0] = 1
		cleanup()

		s, cleanup = GetFloat64Slice(5)
		defer cleanup()
		require.Len(t, s, 5)
	})
}
