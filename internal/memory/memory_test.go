package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackRelease(t *testing.T) {
	Reset()

	Track(128)
	Track(64)
	require.Equal(t, int64(192), InUse())

	Release(64)
	require.Equal(t, int64(128), InUse())

	Release(128)
	require.Equal(t, int64(0), InUse())
}
