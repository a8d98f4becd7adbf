package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	const total = int64(100)

	t.Run("no header serves whole object", func(t *testing.T) {
		br, err := parseRange("", total)
		require.NoError(t, err)
		assert.Nil(t, br)
	})

	t.Run("explicit span", func(t *testing.T) {
		br, err := parseRange("bytes=10-49", total)
		require.NoError(t, err)
		require.NotNil(t, br)
		assert.Equal(t, int64(10), br.Start)
		assert.Equal(t, int64(49), br.End)
		assert.Equal(t, int64(40), br.Length())
	})

	t.Run("open end runs to last byte", func(t *testing.T) {
		br, err := parseRange("bytes=5-", total)
		require.NoError(t, err)
		require.NotNil(t, br)
		assert.Equal(t, int64(5), br.Start)
		assert.Equal(t, int64(99), br.End)
	})

	t.Run("single byte", func(t *testing.T) {
		br, err := parseRange("bytes=0-0", total)
		require.NoError(t, err)
		require.NotNil(t, br)
		assert.Equal(t, int64(1), br.Length())
	})

	t.Run("full span equals object size", func(t *testing.T) {
		br, err := parseRange("bytes=0-99", total)
		require.NoError(t, err)
		require.NotNil(t, br)
		assert.Equal(t, total, br.Length())
	})

	t.Run("start at object size is unsatisfiable", func(t *testing.T) {
		br, err := parseRange("bytes=100-", total)
		assert.ErrorIs(t, err, errUnsatisfiableRange)
		assert.Nil(t, br)
	})

	t.Run("start past object size is unsatisfiable", func(t *testing.T) {
		_, err := parseRange("bytes=150-200", total)
		assert.ErrorIs(t, err, errUnsatisfiableRange)
	})

	t.Run("end at object size is unsatisfiable", func(t *testing.T) {
		_, err := parseRange("bytes=0-100", total)
		assert.ErrorIs(t, err, errUnsatisfiableRange)
	})

	t.Run("malformed headers fall back to full response", func(t *testing.T) {
		for _, header := range []string{
			"bytes=abc-def",
			"bytes=-",
			"bytes=10",
			"items=0-5",
			"bytes=50-10",
			"bytes=-5-10",
		} {
			br, err := parseRange(header, total)
			assert.NoError(t, err, "header %q", header)
			assert.Nil(t, br, "header %q", header)
		}
	})
}
