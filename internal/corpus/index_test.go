package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIndex(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matches.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_BidirectionalLookup(t *testing.T) {
	path := writeIndex(t, `[
		{"eng": "The night was cold.", "heb": "הלילה היה קר."},
		{"eng": "Nobody spoke.", "heb": "איש לא דיבר."}
	]`)

	idx, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Pairs())

	got, ok := idx.Lookup("The night was cold.")
	require.True(t, ok)
	assert.Equal(t, "הלילה היה קר.", got)

	got, ok = idx.Lookup("איש לא דיבר.")
	require.True(t, ok)
	assert.Equal(t, "Nobody spoke.", got)

	_, ok = idx.Lookup("not in the index")
	assert.False(t, ok)
}

func TestLoad_SkipsMalformedEntries(t *testing.T) {
	path := writeIndex(t, `[
		{"eng": "only one side"},
		{"eng": "", "heb": "ריק"},
		{"a": "left", "b": "right"}
	]`)

	idx, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Pairs())

	got, ok := idx.Lookup("left")
	require.True(t, ok)
	assert.Equal(t, "right", got)
}

func TestLoad_FirstWriteWinsOnDuplicates(t *testing.T) {
	path := writeIndex(t, `[
		{"eng": "same", "heb": "first"},
		{"eng": "same", "heb": "second"}
	]`)

	idx, err := Load(path)
	require.NoError(t, err)

	got, ok := idx.Lookup("same")
	require.True(t, ok)
	assert.Equal(t, "first", got)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	_, err := Load(writeIndex(t, `{not json`))
	assert.Error(t, err)
}

func TestLoad_NotAnArray(t *testing.T) {
	_, err := Load(writeIndex(t, `{"eng": "x", "heb": "y"}`))
	assert.Error(t, err)
}
