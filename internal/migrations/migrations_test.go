package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/db?sslmode=disable", "pgx5://u:p@localhost:5432/db?sslmode=disable"},
		{"postgresql://u:p@localhost/db", "pgx5://u:p@localhost/db"},
		{"pgx5://u:p@localhost/db", "pgx5://u:p@localhost/db"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, driverURL(tt.in))
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(files, "*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(files, "*.down.sql")
	require.NoError(t, err)

	assert.Len(t, ups, 2)
	assert.Len(t, downs, len(ups))
}
