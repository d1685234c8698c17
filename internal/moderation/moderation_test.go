package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFlagged(t *testing.T) {
	p := NewPredicate([]string{"crud", "junk"}, true)

	assert.False(t, p.IsFlagged("Paper"))
	assert.True(t, p.IsFlagged("crud"))
	assert.True(t, p.IsFlagged("CRUD"))
	assert.True(t, p.IsFlagged("total junk!"))
	assert.False(t, p.IsFlagged("crudite"), "token match, not substring match")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocked.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comment\ncrud\n\n  Junk \n"), 0600))

	p := Load(path, true)
	assert.True(t, p.IsFlagged("crud"))
	assert.True(t, p.IsFlagged("junk"))
	assert.False(t, p.IsFlagged("comment"), "comment lines must not become blocked words")
}

func TestMissingListFailOpen(t *testing.T) {
	p := Load(filepath.Join(t.TempDir(), "missing.txt"), true)
	assert.False(t, p.IsFlagged("anything"))
}

func TestMissingListFailClosed(t *testing.T) {
	p := Load(filepath.Join(t.TempDir(), "missing.txt"), false)
	assert.True(t, p.IsFlagged("anything"))
}
