package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilters_Empty(t *testing.T) {
	filters, err := ParseFilters(url.Values{})
	require.NoError(t, err)
	assert.Empty(t, filters)
}

func TestParseFilters_AllowedKeys(t *testing.T) {
	params := url.Values{}
	params.Set("channels", "2")
	params.Set("minduration", "1.5")
	params.Set("maxframerate", "48000")

	filters, err := ParseFilters(params)
	require.NoError(t, err)
	require.Len(t, filters, 3)

	byColumn := map[string]Filter{}
	for _, f := range filters {
		byColumn[f.Column] = f
	}
	assert.Equal(t, Filter{Column: "channels", Op: "=", Value: 2}, byColumn["channels"])
	assert.Equal(t, Filter{Column: "duration", Op: ">=", Value: 1.5}, byColumn["duration"])
	assert.Equal(t, Filter{Column: "framerate", Op: "<=", Value: 48000}, byColumn["framerate"])
}

func TestParseFilters_UnknownKeyNamesOffender(t *testing.T) {
	params := url.Values{}
	params.Set("minduration", "1.0")
	params.Set("loudness", "11")

	_, err := ParseFilters(params)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Contains(t, err.Error(), "loudness")
}

func TestParseFilters_NonNumericValue(t *testing.T) {
	params := url.Values{}
	params.Set("channels", "stereo")

	_, err := ParseFilters(params)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Contains(t, err.Error(), "channels")
}
