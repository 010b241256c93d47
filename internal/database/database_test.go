package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestWithConnectTimeout(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "url without timeout",
			dsn:  "postgres://u:p@db:5432/app?sslmode=disable",
			want: "postgres://u:p@db:5432/app?connect_timeout=5&sslmode=disable",
		},
		{
			name: "url keeps explicit timeout",
			dsn:  "postgres://u:p@db:5432/app?connect_timeout=2",
			want: "postgres://u:p@db:5432/app?connect_timeout=2",
		},
		{
			name: "key value",
			dsn:  "host=db user=u dbname=app",
			want: "host=db user=u dbname=app connect_timeout=5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := withConnectTimeout(tt.dsn, 5*time.Second)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "db:5432", hostOf("postgres://u:p@db:5432/app"))
	assert.Equal(t, "db", hostOf("host=db user=u"))
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), Options{}, nil)
	assert.Error(t, err)
}

func TestRunMigrationsSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, RunMigrations(context.Background(), db, nil))
	for _, table := range []string{"users", "pain_entries", "medications", "medication_doses", "reminder_settings", "sessions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	up, err := migrationsFS.ReadFile("migrations/0001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS pain_entries")

	down, err := migrationsFS.ReadFile("migrations/0001_init.down.sql")
	require.NoError(t, err)
	assert.Contains(t, string(down), "DROP TABLE IF EXISTS pain_entries")
}
