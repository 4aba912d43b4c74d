package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Products Table")
	require.NoError(t, err)

	assert.Contains(t, filepath.Base(mf.UpPath), "add_products_table.up.sql")
	assert.Contains(t, filepath.Base(mf.DownPath), "add_products_table.down.sql")

	for _, path := range []string{mf.UpPath, mf.DownPath} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Add Products Table")
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Add Products Table", "add_products_table"},
		{"fix--weird   spacing", "fix_weird_spacing"},
		{"trailing-", "trailing"},
		{"Sp3ci@l Ch&rs!", "sp3cil_chrs"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.in), tt.in)
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	_, err := CreateMigration(dir, "first")
	require.NoError(t, err)

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	assert.Contains(t, migrations[0], "first")

	empty, err := ListMigrations(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
