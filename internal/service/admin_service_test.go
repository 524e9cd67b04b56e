package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

func newAdminFixture() *AdminService {
	refs := &fakeReferenceRepo{
		priorities: map[int64]*domain.Priority{
			1: {ID: 1, Slug: "high", Name: "High", ResponseHours: intp(1), ResolutionHours: intp(4)},
		},
		types: map[int64]*domain.TicketType{
			1: {ID: 1, Slug: "incident", Name: "Incident"},
		},
		departments: map[int64]*domain.Department{
			1: {ID: 1, Name: "IT", IsActive: true},
		},
	}
	categories := &fakeCategoryRepo{categories: map[int64]*domain.Category{
		10: {ID: 10, DepartmentID: 1, Name: "Hardware", IsActive: true},
		11: {ID: 11, ParentID: i64p(10), DepartmentID: 1, Name: "Printers", IsActive: true},
	}}
	return NewAdminService(&fakeSLARuleRepo{}, categories, refs, nil)
}

func TestAdminCreateSLARule(t *testing.T) {
	ctx := context.Background()

	t.Run("valid rule gets an id", func(t *testing.T) {
		svc := newAdminFixture()
		rule, err := svc.CreateSLARule(ctx, &domain.SLARule{
			PriorityID:        i64p(1),
			TypeID:            i64p(1),
			ResponseMinutes:   intp(30),
			ResolutionMinutes: intp(240),
			IsActive:          true,
		})
		require.NoError(t, err)
		assert.NotZero(t, rule.ID)
	})

	t.Run("priority is mandatory", func(t *testing.T) {
		svc := newAdminFixture()
		_, err := svc.CreateSLARule(ctx, &domain.SLARule{ResponseMinutes: intp(30)})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
	})

	t.Run("unknown priority is rejected", func(t *testing.T) {
		svc := newAdminFixture()
		_, err := svc.CreateSLARule(ctx, &domain.SLARule{PriorityID: i64p(42), ResponseMinutes: intp(30)})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
	})

	t.Run("rule without any target is rejected", func(t *testing.T) {
		svc := newAdminFixture()
		_, err := svc.CreateSLARule(ctx, &domain.SLARule{PriorityID: i64p(1)})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
	})

	t.Run("non-positive target is rejected", func(t *testing.T) {
		svc := newAdminFixture()
		_, err := svc.CreateSLARule(ctx, &domain.SLARule{PriorityID: i64p(1), ResponseMinutes: intp(0)})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
	})
}

func TestAdminCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("subcategory under a root parent", func(t *testing.T) {
		svc := newAdminFixture()
		created, err := svc.CreateCategory(ctx, &domain.Category{
			ParentID:     i64p(10),
			DepartmentID: 1,
			Name:         "Monitors",
			IsActive:     true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Monitors", created.Name)
	})

	t.Run("nesting below one level is rejected", func(t *testing.T) {
		svc := newAdminFixture()
		_, err := svc.CreateCategory(ctx, &domain.Category{
			ParentID:     i64p(11),
			DepartmentID: 1,
			Name:         "Laser Printers",
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
	})

	t.Run("unknown department is rejected", func(t *testing.T) {
		svc := newAdminFixture()
		_, err := svc.CreateCategory(ctx, &domain.Category{DepartmentID: 7, Name: "Plumbing"})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
	})
}

func TestAdminReferenceData(t *testing.T) {
	ctx := context.Background()

	t.Run("priority fallback hours must be positive", func(t *testing.T) {
		svc := newAdminFixture()
		_, err := svc.CreatePriority(ctx, &domain.Priority{
			Slug:          "urgent",
			Name:          "Urgent",
			ResponseHours: intp(-1),
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
	})

	t.Run("priority without fallback hours is allowed", func(t *testing.T) {
		svc := newAdminFixture()
		_, err := svc.CreatePriority(ctx, &domain.Priority{Slug: "planning", Name: "Planning"})
		require.NoError(t, err)
	})

	t.Run("status needs slug and name", func(t *testing.T) {
		svc := newAdminFixture()
		_, err := svc.CreateStatus(ctx, &domain.Status{Name: "On Hold"})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
	})

	t.Run("group requires an existing department", func(t *testing.T) {
		svc := newAdminFixture()
		_, err := svc.CreateGroup(ctx, &domain.Group{DepartmentID: 9, Name: "Night Shift"})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))

		_, err = svc.CreateGroup(ctx, &domain.Group{DepartmentID: 1, Name: "Night Shift", IsActive: true})
		require.NoError(t, err)
	})
}
