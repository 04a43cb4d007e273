package service

import (
	"context"
	"fmt"
	"testing"

	"accesshub/internal/database"
	"accesshub/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// newTestDB opens a fresh in-memory database with the full schema. The
// shared-cache DSN keeps every pooled connection on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// seedUser inserts a user with the given role and returns it with a known
// password of "password123".
func seedUser(t *testing.T, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedSoftware(t *testing.T, db *gorm.DB, name string, levels ...model.AccessLevel) *model.Software {
	t.Helper()

	software := &model.Software{
		Name:         name,
		Description:  name + " description",
		AccessLevels: model.AccessLevelList(levels),
	}
	require.NoError(t, db.Create(software).Error)
	return software
}

func principalOf(user *model.User) model.Principal {
	return model.Principal{ID: user.ID, Username: user.Username, Role: user.Role}
}

func testCtx() context.Context {
	return context.Background()
}

// testDeps bundles the raw handle seeded tests need alongside a service.
type testDeps struct {
	db *gorm.DB
}
