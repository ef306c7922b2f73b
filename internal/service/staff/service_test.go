package staff

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setup(t *testing.T) (*memory.Store, staff.StaffService, identity.Caller) {
	t.Helper()
	store := memory.NewStore()
	boss, err := store.Staff().Create(context.Background(), staff.Staff{
		EmployeeCode: "ADM001", Name: "Zed", Email: "zed@x.test", Role: identity.RoleAdmin,
	})
	require.NoError(t, err)
	return store, NewStaffService(store.Staff()), boss.Caller()
}

func newStaff(code, email string) staff.CreateStaffRequest {
	return staff.CreateStaffRequest{
		Name: "Ana", Email: email, Password: "secret1", EmployeeCode: code,
	}
}

func TestCreateStaff(t *testing.T) {
	ctx := context.Background()
	store, svc, admin := setup(t)

	req := newStaff(" EMP001 ", " Ana@X.test ")
	created, err := svc.CreateStaff(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", created.EmployeeCode)
	assert.Equal(t, "ana@x.test", created.Email)
	assert.Equal(t, string(identity.RoleEmployee), created.Role)
	assert.Equal(t, defaultPosition, created.Position)
	assert.Equal(t, staff.DefaultLeaveQuota, created.LeaveQuota)

	stored, err := store.Staff().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	_, err = svc.CreateStaff(ctx, admin, newStaff("EMP001", "other@x.test"))
	assert.ErrorIs(t, err, staff.ErrEmployeeCodeExists)

	_, err = svc.CreateStaff(ctx, admin, newStaff("EMP002", "ana@x.test"))
	assert.ErrorIs(t, err, staff.ErrEmailExists)
}

func TestCreateStaff_Validation(t *testing.T) {
	_, svc, admin := setup(t)

	_, err := svc.CreateStaff(context.Background(), admin, staff.CreateStaffRequest{
		Email: "not-an-email", Password: "123", EmployeeCode: "bad code", Role: "owner",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	assert.Equal(t, map[string]bool{"name": true, "email": true, "password": true, "employee_id": true, "role": true}, fields)
}

func TestAdminGuards(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := setup(t)
	employee := identity.Caller{StaffID: "x", Role: identity.RoleEmployee}

	_, err := svc.ListStaff(ctx, employee)
	assert.ErrorIs(t, err, identity.ErrForbidden)
	_, err = svc.CreateStaff(ctx, employee, newStaff("EMP009", "e@x.test"))
	assert.ErrorIs(t, err, identity.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteStaff(ctx, employee, "x"), identity.ErrForbidden)
	_, err = svc.ListProfiles(ctx, identity.Caller{})
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	_, svc, admin := setup(t)
	created, err := svc.CreateStaff(ctx, admin, newStaff("EMP001", "ana@x.test"))
	require.NoError(t, err)

	all, err := svc.ListStaff(ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ana", all[0].Name)

	profiles, err := svc.ListProfiles(ctx, admin)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "EMP001", profiles[0].EmployeeCode)

	assert.ErrorIs(t, svc.DeleteStaff(ctx, admin, admin.StaffID), staff.ErrCannotDeleteSelf)
	require.NoError(t, svc.DeleteStaff(ctx, admin, created.ID))
	assert.ErrorIs(t, svc.DeleteStaff(ctx, admin, created.ID), staff.ErrStaffNotFound)
}

func TestUpdateLeaveQuota(t *testing.T) {
	ctx := context.Background()
	store, svc, admin := setup(t)
	created, err := svc.CreateStaff(ctx, admin, newStaff("EMP001", "ana@x.test"))
	require.NoError(t, err)

	quota := 15
	require.NoError(t, svc.UpdateLeaveQuota(ctx, admin, staff.UpdateLeaveQuotaRequest{ID: created.ID, LeaveQuota: &quota}))
	stored, err := store.Staff().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, stored.LeaveQuota)

	negative := -1
	assert.Error(t, svc.UpdateLeaveQuota(ctx, admin, staff.UpdateLeaveQuotaRequest{ID: created.ID, LeaveQuota: &negative}))
	assert.Error(t, svc.UpdateLeaveQuota(ctx, admin, staff.UpdateLeaveQuotaRequest{ID: created.ID}))
	assert.ErrorIs(t, svc.UpdateLeaveQuota(ctx, admin, staff.UpdateLeaveQuotaRequest{ID: "missing", LeaveQuota: &quota}), staff.ErrStaffNotFound)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	store, svc, admin := setup(t)
	created, err := svc.CreateStaff(ctx, admin, newStaff("EMP001", "ana@x.test"))
	require.NoError(t, err)
	member, err := store.Staff().GetByID(ctx, created.ID)
	require.NoError(t, err)
	me := member.Caller()

	phone := "0812"
	require.NoError(t, svc.UpdateProfile(ctx, me, staff.UpdateProfileRequest{Name: " Ana Maria ", Phone: &phone}))

	profile, err := svc.GetProfile(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", profile.Name)
	require.NotNil(t, profile.Phone)
	assert.Equal(t, "0812", *profile.Phone)

	blank := " "
	require.NoError(t, svc.UpdateProfile(ctx, me, staff.UpdateProfileRequest{Name: "Ana", Phone: &blank}))
	profile, err = svc.GetProfile(ctx, me)
	require.NoError(t, err)
	assert.Nil(t, profile.Phone)

	assert.Error(t, svc.UpdateProfile(ctx, me, staff.UpdateProfileRequest{Name: ""}))
}
