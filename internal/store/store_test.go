package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/docsteward/internal/model"
)

func openTemp(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestRecordAndRecent(t *testing.T) {
	h := openTemp(t)

	h.Record(&model.CoverageReport{FilesAnalyzed: 2, OverallCoverage: 40.0})
	h.Record(&model.CoverageReport{FilesAnalyzed: 2, OverallCoverage: 75.5})

	snaps, err := h.Recent(10)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	// Newest first.
	assert.Equal(t, 75.5, snaps[0].Coverage)
	assert.Equal(t, 40.0, snaps[1].Coverage)
	assert.Equal(t, 2, snaps[0].Files)
	assert.Contains(t, snaps[0].Payload, `"overall_coverage":75.5`)
}

func TestRecentLimit(t *testing.T) {
	h := openTemp(t)
	for i := 0; i < 5; i++ {
		h.Record(&model.CoverageReport{FilesAnalyzed: i})
	}

	snaps, err := h.Recent(3)
	require.NoError(t, err)
	assert.Len(t, snaps, 3)
}

func TestNilReceiver(t *testing.T) {
	var h *History
	h.Record(&model.CoverageReport{})
	snaps, err := h.Recent(5)
	require.NoError(t, err)
	assert.Empty(t, snaps)
	require.NoError(t, h.Close())
}

func TestRecentEmpty(t *testing.T) {
	h := openTemp(t)
	snaps, err := h.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}
