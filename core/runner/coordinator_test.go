package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCoordinator_BusyRejection tests that a second acquire is rejected while
// the first is held.
func TestCoordinator_BusyRejection(t *testing.T) {
	var c Coordinator

	release, err := c.TryAcquire()
	require.NoError(t, err)
	assert.True(t, c.Active())

	_, err = c.TryAcquire()
	assert.ErrorIs(t, err, ErrBusy)

	release()
	assert.False(t, c.Active())

	release2, err := c.TryAcquire()
	require.NoError(t, err)
	release2()
}

// TestCoordinator_ReleaseIdempotent tests that calling release twice does not
// free a slot held by a later run.
func TestCoordinator_ReleaseIdempotent(t *testing.T) {
	var c Coordinator

	release, err := c.TryAcquire()
	require.NoError(t, err)
	release()
	release()

	_, err = c.TryAcquire()
	require.NoError(t, err)
	assert.True(t, c.Active())
}
