package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReader_MonotoneToCompletion(t *testing.T) {
	payload := strings.Repeat("x", 1000)
	var seen []int
	pr := newProgressReader(strings.NewReader(payload), int64(len(payload)), func(pct int) {
		seen = append(seen, pct)
	})

	// Drain in small chunks to force many emissions.
	buf := make([]byte, 37)
	_, err := io.CopyBuffer(io.Discard, onlyReader{pr}, buf)
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i], seen[i-1], "progress must strictly increase per emission")
	}
	assert.Equal(t, 100, seen[len(seen)-1])
}

func TestProgressReader_SingleRead(t *testing.T) {
	payload := []byte("all at once")
	var seen []int
	pr := newProgressReader(bytes.NewReader(payload), int64(len(payload)), func(pct int) {
		seen = append(seen, pct)
	})

	_, err := io.ReadAll(onlyReader{pr})
	require.NoError(t, err)
	assert.Equal(t, []int{100}, seen)
}

// onlyReader hides any WriteTo/ReadFrom fast paths so the wrapped Read is
// what io.Copy exercises.
type onlyReader struct{ r io.Reader }

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }
