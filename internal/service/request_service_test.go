package service

import (
	"testing"

	"accesshub/internal/model"
	"accesshub/internal/repository"
	"accesshub/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestService(t *testing.T) (RequestService, *testDeps) {
	t.Helper()
	db := newTestDB(t)
	return NewRequestService(repository.NewRequestRepository(db), repository.NewSoftwareRepository(db)), &testDeps{db: db}
}

func TestCreateRequest_NonEmployeeForbidden(t *testing.T) {
	svc, deps := newRequestService(t)
	software := seedSoftware(t, deps.db, "CRM", model.AccessRead)

	for _, role := range []model.Role{model.RoleManager, model.RoleAdmin} {
		user := seedUser(t, deps.db, "user_"+string(role), role)

		_, err := svc.CreateRequest(testCtx(), principalOf(user), CreateRequestDTO{
			SoftwareID: software.ID.String(),
			AccessType: "Read",
		})
		assert.ErrorIs(t, err, apperror.ErrForbidden, "role %s", role)
	}

	var count int64
	require.NoError(t, deps.db.Model(&model.AccessRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRequest_SoftwareNotFound(t *testing.T) {
	svc, deps := newRequestService(t)
	employee := seedUser(t, deps.db, "emp", model.RoleEmployee)

	_, err := svc.CreateRequest(testCtx(), principalOf(employee), CreateRequestDTO{
		SoftwareID: uuid.NewString(),
		AccessType: "Read",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateRequest_AccessTypeOutsideCatalogSet(t *testing.T) {
	svc, deps := newRequestService(t)
	employee := seedUser(t, deps.db, "emp", model.RoleEmployee)
	software := seedSoftware(t, deps.db, "CRM", model.AccessRead, model.AccessWrite)

	for _, accessType := range []string{"Admin", "Execute", ""} {
		_, err := svc.CreateRequest(testCtx(), principalOf(employee), CreateRequestDTO{
			SoftwareID: software.ID.String(),
			AccessType: accessType,
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidArgument, "accessType %q", accessType)
	}

	var count int64
	require.NoError(t, deps.db.Model(&model.AccessRequest{}).Count(&count).Error)
	assert.Zero(t, count, "rejected requests must create no record")
}

func TestCreateRequest_Success(t *testing.T) {
	svc, deps := newRequestService(t)
	employee := seedUser(t, deps.db, "emp", model.RoleEmployee)
	software := seedSoftware(t, deps.db, "CRM", model.AccessRead, model.AccessWrite)

	resp, err := svc.CreateRequest(testCtx(), principalOf(employee), CreateRequestDTO{
		SoftwareID: software.ID.String(),
		AccessType: "Write",
		Reason:     "need export",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, resp.Status)
	assert.Equal(t, model.AccessWrite, resp.AccessType)
	assert.Equal(t, software.ID, resp.Software.ID)
	assert.Equal(t, "CRM", resp.Software.Name)
	assert.Equal(t, resp.CreatedAt, resp.UpdatedAt)

	var stored model.AccessRequest
	require.NoError(t, deps.db.First(&stored, "id = ?", resp.ID).Error)
	assert.Equal(t, employee.ID, stored.UserID)
}

func TestCreateRequest_DuplicatesAllowed(t *testing.T) {
	svc, deps := newRequestService(t)
	employee := seedUser(t, deps.db, "emp", model.RoleEmployee)
	software := seedSoftware(t, deps.db, "CRM", model.AccessRead)

	dto := CreateRequestDTO{SoftwareID: software.ID.String(), AccessType: "Read", Reason: "retry"}
	first, err := svc.CreateRequest(testCtx(), principalOf(employee), dto)
	require.NoError(t, err)
	second, err := svc.CreateRequest(testCtx(), principalOf(employee), dto)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "identical requests are tracked independently")
}

func TestListPendingRequests_EmployeeForbidden(t *testing.T) {
	svc, deps := newRequestService(t)
	employee := seedUser(t, deps.db, "emp", model.RoleEmployee)

	_, _, err := svc.ListPendingRequests(testCtx(), principalOf(employee), 1, 20)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestListPendingRequests_OnlyPendingAndEnriched(t *testing.T) {
	svc, deps := newRequestService(t)
	employee := seedUser(t, deps.db, "emp", model.RoleEmployee)
	manager := seedUser(t, deps.db, "mgr", model.RoleManager)
	software := seedSoftware(t, deps.db, "CRM", model.AccessRead, model.AccessWrite)

	pending, err := svc.CreateRequest(testCtx(), principalOf(employee), CreateRequestDTO{
		SoftwareID: software.ID.String(), AccessType: "Read",
	})
	require.NoError(t, err)

	decided, err := svc.CreateRequest(testCtx(), principalOf(employee), CreateRequestDTO{
		SoftwareID: software.ID.String(), AccessType: "Write",
	})
	require.NoError(t, err)

	_, err = svc.DecideRequest(testCtx(), principalOf(manager), decided.ID.String(), DecideRequestDTO{Status: "Rejected"})
	require.NoError(t, err)

	list, total, err := svc.ListPendingRequests(testCtx(), principalOf(manager), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, pending.ID, got.ID)
	assert.Equal(t, model.StatusPending, got.Status)
	require.NotNil(t, got.User, "pending listing is enriched with the requester")
	assert.Equal(t, "emp", got.User.Username)
	assert.Equal(t, "emp@example.com", got.User.Email)
	assert.Equal(t, "CRM", got.Software.Name)
}

func TestListOwnRequests_ScopedToCaller(t *testing.T) {
	svc, deps := newRequestService(t)
	alice := seedUser(t, deps.db, "alice", model.RoleEmployee)
	bob := seedUser(t, deps.db, "bob", model.RoleEmployee)
	software := seedSoftware(t, deps.db, "CRM", model.AccessRead, model.AccessWrite)

	// Interleave requests from both users
	for i := 0; i < 3; i++ {
		_, err := svc.CreateRequest(testCtx(), principalOf(alice), CreateRequestDTO{
			SoftwareID: software.ID.String(), AccessType: "Read",
		})
		require.NoError(t, err)
		_, err = svc.CreateRequest(testCtx(), principalOf(bob), CreateRequestDTO{
			SoftwareID: software.ID.String(), AccessType: "Write",
		})
		require.NoError(t, err)
	}

	list, total, err := svc.ListOwnRequests(testCtx(), principalOf(alice), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 3)
	for _, r := range list {
		assert.Equal(t, model.AccessRead, r.AccessType, "only alice's requests")
		assert.Equal(t, "CRM", r.Software.Name)
	}
}

func TestDecideRequest_EmployeeForbidden(t *testing.T) {
	svc, deps := newRequestService(t)
	employee := seedUser(t, deps.db, "emp", model.RoleEmployee)
	software := seedSoftware(t, deps.db, "CRM", model.AccessRead)

	created, err := svc.CreateRequest(testCtx(), principalOf(employee), CreateRequestDTO{
		SoftwareID: software.ID.String(), AccessType: "Read",
	})
	require.NoError(t, err)

	_, err = svc.DecideRequest(testCtx(), principalOf(employee), created.ID.String(), DecideRequestDTO{Status: "Approved"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDecideRequest_InvalidDecision(t *testing.T) {
	svc, deps := newRequestService(t)
	manager := seedUser(t, deps.db, "mgr", model.RoleManager)

	for _, status := range []string{"Pending", "approved", "Done", ""} {
		_, err := svc.DecideRequest(testCtx(), principalOf(manager), uuid.NewString(), DecideRequestDTO{Status: status})
		assert.ErrorIs(t, err, apperror.ErrInvalidArgument, "status %q", status)
	}
}

func TestDecideRequest_NotFound(t *testing.T) {
	svc, deps := newRequestService(t)
	manager := seedUser(t, deps.db, "mgr", model.RoleManager)

	_, err := svc.DecideRequest(testCtx(), principalOf(manager), uuid.NewString(), DecideRequestDTO{Status: "Approved"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.DecideRequest(testCtx(), principalOf(manager), "not-a-uuid", DecideRequestDTO{Status: "Approved"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDecideRequest_TerminalStateConflict(t *testing.T) {
	svc, deps := newRequestService(t)
	employee := seedUser(t, deps.db, "emp", model.RoleEmployee)
	manager := seedUser(t, deps.db, "mgr", model.RoleManager)
	software := seedSoftware(t, deps.db, "CRM", model.AccessRead)

	created, err := svc.CreateRequest(testCtx(), principalOf(employee), CreateRequestDTO{
		SoftwareID: software.ID.String(), AccessType: "Read",
	})
	require.NoError(t, err)

	decided, err := svc.DecideRequest(testCtx(), principalOf(manager), created.ID.String(), DecideRequestDTO{Status: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, decided.Status)

	// A second decision, even with a different outcome, must conflict and
	// leave the first decision untouched.
	_, err = svc.DecideRequest(testCtx(), principalOf(manager), created.ID.String(), DecideRequestDTO{Status: "Rejected"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	var stored model.AccessRequest
	require.NoError(t, deps.db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, model.StatusApproved, stored.Status)
}

func TestRequestLifecycle_EndToEnd(t *testing.T) {
	svc, deps := newRequestService(t)
	catalogSvc := NewCatalogService(repository.NewSoftwareRepository(deps.db))

	admin := seedUser(t, deps.db, "admin", model.RoleAdmin)
	employee := seedUser(t, deps.db, "emp", model.RoleEmployee)
	manager := seedUser(t, deps.db, "mgr", model.RoleManager)

	software, err := catalogSvc.RegisterSoftware(testCtx(), principalOf(admin), RegisterSoftwareRequest{
		Name:         "CRM",
		AccessLevels: []string{"Read", "Write"},
	})
	require.NoError(t, err)

	created, err := svc.CreateRequest(testCtx(), principalOf(employee), CreateRequestDTO{
		SoftwareID: software.ID.String(),
		AccessType: "Write",
		Reason:     "need export",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, created.Status)

	decided, err := svc.DecideRequest(testCtx(), principalOf(manager), created.ID.String(), DecideRequestDTO{Status: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, decided.Status)

	// Gone from the pending list
	pendingList, total, err := svc.ListPendingRequests(testCtx(), principalOf(manager), 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, pendingList)

	// Visible as Approved in the employee's own list
	own, _, err := svc.ListOwnRequests(testCtx(), principalOf(employee), 1, 20)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, model.StatusApproved, own[0].Status)
}
