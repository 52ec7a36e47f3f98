package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/logsink/core"
)

func TestFileSink_AppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	s, err := NewFileSink(FileConfig{Filename: path})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(core.InfoLevel, []byte("first\n")))
	require.NoError(t, s.Write(core.ErrorLevel, []byte("second\n")))
	require.NoError(t, s.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestFileSink_OpensLazily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lazy.log")
	s, err := NewFileSink(FileConfig{Filename: path})
	require.NoError(t, err)
	defer s.Close()

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "file must not exist before first write")

	require.NoError(t, s.Write(core.InfoLevel, []byte("now\n")))
	_, statErr = os.Stat(path)
	assert.NoError(t, statErr)
}

func TestFileSink_RequiresFilename(t *testing.T) {
	_, err := NewFileSink(FileConfig{})
	assert.Error(t, err)
}

func TestFileSink_AppendsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	s1, err := NewFileSink(FileConfig{Filename: path})
	require.NoError(t, err)
	require.NoError(t, s1.Write(core.InfoLevel, []byte("one\n")))
	require.NoError(t, s1.Close())

	s2, err := NewFileSink(FileConfig{Filename: path})
	require.NoError(t, err)
	require.NoError(t, s2.Write(core.InfoLevel, []byte("two\n")))
	require.NoError(t, s2.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestFileSink_SizeRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rot.log")
	s, err := NewFileSink(FileConfig{Filename: path, MaxSize: 10})
	require.NoError(t, err)
	defer s.Close()

	// First write fits; the second starts above MaxSize and rotates
	require.NoError(t, s.Write(core.InfoLevel, []byte("0123456789\n")))
	require.NoError(t, s.Write(core.InfoLevel, []byte("after\n")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var rotated int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "rot.log.") {
			rotated++
		}
	}
	assert.Equal(t, 1, rotated, "expected one rotated backup")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "after\n", string(data))
}

func TestFileSink_CloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	s, err := NewFileSink(FileConfig{Filename: path})
	require.NoError(t, err)

	require.NoError(t, s.Write(core.InfoLevel, []byte("x\n")))
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestFileSink_IntervalRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "int.log")
	s, err := NewFileSink(FileConfig{Filename: path, RotateInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(core.InfoLevel, []byte("a\n")))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Write(core.InfoLevel, []byte("b\n")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 2, "expected the live file plus a backup")
}
