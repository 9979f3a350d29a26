package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGeoTransformCommand(t *testing.T) {
	out, err := run(t, "geotransform", "--ext=-te 0 0 100 50 -tr 10 10")
	require.NoError(t, err)
	assert.Contains(t, out, "size: 10 x 5\n")
	assert.Contains(t, out, "geotransform: 0 10 0 50 0 -10\n")
	assert.Contains(t, out, "bounds: 0 0 100 50\n")
}

func TestGeoTransformCommandFromEnv(t *testing.T) {
	t.Setenv("GODOMAIN_EXT", "-te 100 2000 300 10000 -tr 50 200")
	out, err := run(t, "geotransform")
	require.NoError(t, err)
	assert.Contains(t, out, "size: 4 x 40\n")
}

func TestGeoTransformCommandInvalidExtent(t *testing.T) {
	_, err := run(t, "geotransform", "--ext=-te 0 0 100 50 -tr 1000 10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tr is too large")
}

func TestBadLogLevel(t *testing.T) {
	_, err := run(t, "geotransform", "--log-level=loud", "--ext=-te 0 0 1 1 -ts 1 1")
	assert.Error(t, err)
}
