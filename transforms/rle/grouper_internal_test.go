package rle

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrouper__SplitsLongRuns(t *testing.T) {
	grouper := newGrouper(bytes.NewReader(bytes.Repeat([]byte{7}, 10)), 4)
	runs, err := grouper.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []Run{{7, 4}, {7, 4}, {7, 2}}, runs)
	assert.EqualValues(t, 10, grouper.Offset())
}
