package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	for _, name := range []string{"ecommerce", "finance", "manufacturing"} {
		v := Builtin(name)
		require.NotNil(t, v, "builtin %q", name)
		assert.Equal(t, name, v.Name)
		assert.NotEmpty(t, v.Metrics)
		assert.NotEmpty(t, v.Dimensions)
	}
	assert.Nil(t, Builtin("astrology"))
	assert.NotNil(t, Builtin("E-Commerce"), "builtin lookup is case-insensitive")
}

func TestMatches(t *testing.T) {
	v := Builtin("finance")
	assert.True(t, v.MatchesMetric("total_premium"), "substring match")
	assert.True(t, v.MatchesMetric("PREMIUM"), "case-insensitive")
	assert.False(t, v.MatchesMetric("region"))
	assert.True(t, v.MatchesDimension("branch_code"))
	assert.False(t, v.MatchesDimension("premium"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "retail.yaml")
	content := "name: retail\nmetrics:\n  - basket_size\n  - spend\ndimensions:\n  - store\n  - aisle\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "retail", v.Name)
	assert.Equal(t, []string{"basket_size", "spend"}, v.Metrics)
	assert.True(t, v.MatchesDimension("store_id"))
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile("does/not/exist.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	unnamed := filepath.Join(dir, "unnamed.yaml")
	require.NoError(t, os.WriteFile(unnamed, []byte("metrics: [x]"), 0o644))
	_, err = LoadFile(unnamed)
	assert.Error(t, err, "a vocabulary without a name is rejected")
}
