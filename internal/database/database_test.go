package database

import (
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesAuditLog(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*models.AuditLog); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include AuditLog")
}

func TestRegisteredMigrationsAreOrdered(t *testing.T) {
	migs := GetMigrations()
	require.NotEmpty(t, migs, "embedded migrations should be registered at init")

	for i := 1; i < len(migs); i++ {
		require.Less(t, migs[i-1].Version, migs[i].Version, "migrations must be strictly ordered by version")
	}

	for _, m := range migs {
		require.NotEmpty(t, m.UpScript, "migration %s has empty up script", m.String())
		require.NotEmpty(t, m.DownScript, "migration %s has empty down script", m.String())
	}
}

func TestGetMigrationByVersion(t *testing.T) {
	m := GetMigrationByVersion(1)
	require.NotNil(t, m)
	require.Equal(t, 1, m.Version)

	require.Nil(t, GetMigrationByVersion(999999))
}
