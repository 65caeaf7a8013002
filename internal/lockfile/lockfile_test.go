package lockfile

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, 50500))

	info, err := Read(dir)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, os.Getpid(), info.PID)
	assert.Equal(t, 50500, info.Port)
}

func TestEnsureCleanRemovesStaleLock(t *testing.T) {
	dir := t.TempDir()
	// A PID that is essentially guaranteed not to be alive in this run.
	require.NoError(t, os.WriteFile(Path(dir), []byte(`{"pid": 999999999, "port": 1}`), 0o600))

	require.NoError(t, EnsureClean(dir))

	info, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestEnsureCleanRejectsLiveLock(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, 50500)) // writes our own PID, which is alive

	err := EnsureClean(dir)
	assert.ErrorIs(t, err, ErrHeldByLiveProcess)
}

func TestReadMissingLockIsNil(t *testing.T) {
	dir := t.TempDir()
	info, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, info)
}
