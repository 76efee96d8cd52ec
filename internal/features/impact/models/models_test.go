package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRates_DefaultsWhenUnconfigured(t *testing.T) {
	rates, err := LoadRates("")

	require.NoError(t, err)
	assert.Equal(t, DefaultRates(), rates)
}

func TestLoadRates_ReadsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Plastic": 2.0, "Rubber": 1.1}`), 0o600))

	rates, err := LoadRates(path)

	require.NoError(t, err)
	assert.Equal(t, WasteRates{"Plastic": 2.0, "Rubber": 1.1}, rates)
}

func TestLoadRates_RejectsEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	_, err := LoadRates(path)

	assert.Error(t, err)
}

func TestLoadRates_MissingFile(t *testing.T) {
	_, err := LoadRates(filepath.Join(t.TempDir(), "absent.json"))

	assert.Error(t, err)
}
