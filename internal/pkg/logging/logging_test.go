package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterRollsDaily(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	day := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return day }
	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)

	w.now = func() time.Time { return day.Add(2 * time.Minute) }
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(dir, "ebgreentek_2024-03-09.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(first))

	second, err := os.ReadFile(filepath.Join(dir, "ebgreentek_2024-03-10.log"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(second))
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	log, err := New(dir, false)
	require.NoError(t, err)

	log.Info("hello from test")
	log.Debug("hidden at info level")

	data, err := os.ReadFile(filepath.Join(dir, DailyFilename(time.Now())))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.NotContains(t, string(data), "hidden at info level")
}
