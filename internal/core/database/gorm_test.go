package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		user     string
		pass     string
		expected string
	}{
		{
			name:     "native dsn untouched",
			in:       "root:pw@tcp(localhost:3306)/listify?parseTime=true",
			expected: "root:pw@tcp(localhost:3306)/listify?parseTime=true",
		},
		{
			name:     "url form gets defaults",
			in:       "mysql://root:pw@localhost:3306/listify",
			expected: "root:pw@tcp(localhost:3306)/listify?charset=utf8mb4&parseTime=true",
		},
		{
			name:     "jdbc form with overrides",
			in:       "jdbc:mysql://localhost:3306/listify?useSSL=false&useUnicode=true",
			user:     "app",
			pass:     "secret",
			expected: "app:secret@tcp(localhost:3306)/listify?charset=utf8mb4&parseTime=true&tls=false",
		},
		{
			name:     "empty",
			in:       "  ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(db:3306)/x", maskDSN("root:pw@tcp(db:3306)/x"))
	assert.Equal(t, "tcp(db:3306)/x", maskDSN("tcp(db:3306)/x"))
}

func TestNewGorm(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		db, err := NewGorm(Opts{
			Driver:   "sqlite",
			DSN:      filepath.Join(t.TempDir(), "listify.db"),
			LogLevel: "silent",
		})
		require.NoError(t, err)
		require.NoError(t, db.Exec("SELECT 1").Error)
		require.NoError(t, Close(db))
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, err := NewGorm(Opts{Driver: "oracle"})
		assert.ErrorIs(t, err, ErrUnsupportedDriver)
	})
}
