package service

import (
	"context"
	"testing"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/ikkim/daily-report-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSalesPersonServiceTest(t *testing.T) (SalesPersonService, *serviceFixture) {
	f := setupServiceFixture(t)
	return NewSalesPersonService(repository.NewSalesPersonRepository(f.db), f.authz()), f
}

func TestSalesPersonService_ListSalesPersons(t *testing.T) {
	svc, f := setupSalesPersonServiceTest(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		actor *model.SalesPerson
		want  []string
	}{
		{"admin", f.eve, []string{"E001", "E002", "E003", "E004", "E005"}},
		{"manager", f.carol, []string{"E001", "E003"}},
		{"member", f.bob, []string{"E002"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, page, err := svc.ListSalesPersons(ctx, actorOf(tt.actor), &model.SalesPersonListQuery{})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), page.TotalCount)
			codes := make([]string, 0, len(items))
			for _, p := range items {
				codes = append(codes, p.EmployeeCode)
			}
			assert.Equal(t, tt.want, codes)
		})
	}

	role := model.RoleManager
	items, _, err := svc.ListSalesPersons(ctx, actorOf(f.eve), &model.SalesPersonListQuery{Role: &role, Keyword: "park"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.dave.ID, items[0].ID)
}

func TestSalesPersonService_GetSalesPerson(t *testing.T) {
	svc, f := setupSalesPersonServiceTest(t)
	ctx := context.Background()

	got, err := svc.GetSalesPerson(ctx, actorOf(f.carol), f.alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Manager)
	assert.Equal(t, f.carol.ID, got.Manager.ID)

	_, err = svc.GetSalesPerson(ctx, actorOf(f.carol), f.bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.GetSalesPerson(ctx, actorOf(f.eve), 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSalesPersonService_CreateSalesPerson(t *testing.T) {
	svc, f := setupSalesPersonServiceTest(t)
	ctx := context.Background()

	req := &model.CreateSalesPersonRequest{
		EmployeeCode: "E100",
		Name:         "Frank Yoon",
		Email:        " Frank@Example.com ",
		Password:     "password123",
		Role:         model.RoleMember,
		ManagerID:    uintPtr(f.carol.ID),
	}

	_, err := svc.CreateSalesPerson(ctx, actorOf(f.carol), req)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	person, err := svc.CreateSalesPerson(ctx, actorOf(f.eve), req)
	require.NoError(t, err)
	assert.Equal(t, "frank@example.com", person.Email)
	assert.True(t, person.IsActive)
	assert.True(t, util.VerifyPassword(person.PasswordHash, "password123"))

	t.Run("duplicate employee code", func(t *testing.T) {
		dup := *req
		dup.Email = "other@example.com"
		_, err := svc.CreateSalesPerson(ctx, actorOf(f.eve), &dup)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Equal(t, apperrors.SalesPersonCodeExists, apperrors.AsAppError(err).Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := *req
		dup.EmployeeCode = "E101"
		_, err := svc.CreateSalesPerson(ctx, actorOf(f.eve), &dup)
		assert.Equal(t, apperrors.SalesPersonEmailExists, apperrors.AsAppError(err).Code)
	})

	t.Run("manager must be a manager", func(t *testing.T) {
		bad := *req
		bad.EmployeeCode = "E102"
		bad.Email = "e102@example.com"
		bad.ManagerID = uintPtr(f.bob.ID)
		_, err := svc.CreateSalesPerson(ctx, actorOf(f.eve), &bad)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Equal(t, apperrors.SalesPersonInvalidManager, apperrors.AsAppError(err).Code)
	})
}

func TestSalesPersonService_UpdateSalesPerson(t *testing.T) {
	svc, f := setupSalesPersonServiceTest(t)
	ctx := context.Background()
	admin := actorOf(f.eve)

	t.Run("move member to another manager", func(t *testing.T) {
		updated, err := svc.UpdateSalesPerson(ctx, admin, f.alice.ID, &model.UpdateSalesPersonRequest{ManagerID: uintPtr(f.dave.ID)})
		require.NoError(t, err)
		require.NotNil(t, updated.ManagerID)
		assert.Equal(t, f.dave.ID, *updated.ManagerID)
	})

	t.Run("clear manager", func(t *testing.T) {
		updated, err := svc.UpdateSalesPerson(ctx, admin, f.alice.ID, &model.UpdateSalesPersonRequest{ClearManager: true})
		require.NoError(t, err)
		assert.Nil(t, updated.ManagerID)
	})

	t.Run("own manager", func(t *testing.T) {
		_, err := svc.UpdateSalesPerson(ctx, admin, f.dave.ID, &model.UpdateSalesPersonRequest{ManagerID: uintPtr(f.dave.ID)})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("demote manager with team", func(t *testing.T) {
		member := model.RoleMember
		_, err := svc.UpdateSalesPerson(ctx, admin, f.dave.ID, &model.UpdateSalesPersonRequest{Role: &member})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("cannot deactivate self", func(t *testing.T) {
		inactive := false
		_, err := svc.UpdateSalesPerson(ctx, admin, f.eve.ID, &model.UpdateSalesPersonRequest{IsActive: &inactive})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("email taken", func(t *testing.T) {
		_, err := svc.UpdateSalesPerson(ctx, admin, f.alice.ID, &model.UpdateSalesPersonRequest{Email: strPtr(f.bob.Email)})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("non admin", func(t *testing.T) {
		_, err := svc.UpdateSalesPerson(ctx, actorOf(f.carol), f.alice.ID, &model.UpdateSalesPersonRequest{Name: strPtr("x")})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestSalesPersonService_DeleteSalesPerson(t *testing.T) {
	svc, f := setupSalesPersonServiceTest(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteSalesPerson(ctx, actorOf(f.eve), f.eve.ID), apperrors.ErrValidation)
	assert.ErrorIs(t, svc.DeleteSalesPerson(ctx, actorOf(f.carol), f.alice.ID), apperrors.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteSalesPerson(ctx, actorOf(f.eve), 9999), apperrors.ErrNotFound)

	require.NoError(t, svc.DeleteSalesPerson(ctx, actorOf(f.eve), f.bob.ID))

	got, err := svc.GetSalesPerson(ctx, actorOf(f.eve), f.bob.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
