package service

import (
	"testing"

	"accesshub/internal/model"
	"accesshub/internal/repository"
	"accesshub/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogService(t *testing.T) (CatalogService, *testDeps) {
	t.Helper()
	db := newTestDB(t)
	return NewCatalogService(repository.NewSoftwareRepository(db)), &testDeps{db: db}
}

func TestRegisterSoftware_NonAdminForbidden(t *testing.T) {
	svc, deps := newCatalogService(t)

	for _, role := range []model.Role{model.RoleEmployee, model.RoleManager} {
		user := seedUser(t, deps.db, "user_"+string(role), role)

		_, err := svc.RegisterSoftware(testCtx(), principalOf(user), RegisterSoftwareRequest{
			Name:         "CRM",
			AccessLevels: []string{"Read"},
		})
		assert.ErrorIs(t, err, apperror.ErrForbidden, "role %s", role)
	}

	// Catalog unchanged
	var count int64
	require.NoError(t, deps.db.Model(&model.Software{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterSoftware_Validation(t *testing.T) {
	svc, deps := newCatalogService(t)
	admin := seedUser(t, deps.db, "admin", model.RoleAdmin)

	tests := []struct {
		name string
		req  RegisterSoftwareRequest
	}{
		{"blank name", RegisterSoftwareRequest{Name: "   ", AccessLevels: []string{"Read"}}},
		{"empty levels", RegisterSoftwareRequest{Name: "CRM", AccessLevels: []string{}}},
		{"unknown level", RegisterSoftwareRequest{Name: "CRM", AccessLevels: []string{"Read", "Execute"}}},
		{"wrong case level", RegisterSoftwareRequest{Name: "CRM", AccessLevels: []string{"read"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterSoftware(testCtx(), principalOf(admin), tt.req)
			assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
		})
	}

	var count int64
	require.NoError(t, deps.db.Model(&model.Software{}).Count(&count).Error)
	assert.Zero(t, count, "failed registrations must not persist anything")
}

func TestRegisterSoftware_Success(t *testing.T) {
	svc, deps := newCatalogService(t)
	admin := seedUser(t, deps.db, "admin", model.RoleAdmin)

	resp, err := svc.RegisterSoftware(testCtx(), principalOf(admin), RegisterSoftwareRequest{
		Name:         "CRM",
		Description:  "Customer database",
		AccessLevels: []string{"Read", "Write", "Read"}, // duplicate collapses
	})
	require.NoError(t, err)

	assert.Equal(t, "CRM", resp.Name)
	assert.Equal(t, model.AccessLevelList{model.AccessRead, model.AccessWrite}, resp.AccessLevels)

	var stored model.Software
	require.NoError(t, deps.db.First(&stored, "id = ?", resp.ID).Error)
	assert.Equal(t, model.AccessLevelList{model.AccessRead, model.AccessWrite}, stored.AccessLevels)
}

func TestListSoftware_AnyAuthenticatedRole(t *testing.T) {
	svc, deps := newCatalogService(t)
	seedSoftware(t, deps.db, "CRM", model.AccessRead, model.AccessWrite)
	seedSoftware(t, deps.db, "ERP", model.AccessRead)

	for _, role := range []model.Role{model.RoleEmployee, model.RoleManager, model.RoleAdmin} {
		user := seedUser(t, deps.db, "lister_"+string(role), role)

		entries, total, err := svc.ListSoftware(testCtx(), principalOf(user), 1, 20)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, entries, 2)
		// Creation order is stable
		assert.Equal(t, "CRM", entries[0].Name)
		assert.Equal(t, "ERP", entries[1].Name)
	}
}
