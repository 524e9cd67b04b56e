package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

func intp(v int) *int { return &v }

func TestComputeDeadlines(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	priority := &domain.Priority{ID: 10, ResponseHours: intp(4), ResolutionHours: intp(48)}

	t.Run("RuleMinutesApplied", func(t *testing.T) {
		rules := []domain.SLARule{
			{ID: 1, PriorityID: i64(10), ResponseMinutes: intp(30), ResolutionMinutes: intp(240), IsActive: true},
		}
		d := ComputeDeadlines(rules, priority, nil, nil, now)
		require.NotNil(t, d.ResponseDueAt)
		require.NotNil(t, d.ResolutionDueAt)
		assert.Equal(t, now.Add(30*time.Minute), *d.ResponseDueAt)
		assert.Equal(t, now.Add(240*time.Minute), *d.ResolutionDueAt)
	})

	t.Run("RuleMayDefineOnlyOneTarget", func(t *testing.T) {
		rules := []domain.SLARule{
			{ID: 1, PriorityID: i64(10), ResponseMinutes: intp(15), IsActive: true},
		}
		d := ComputeDeadlines(rules, priority, nil, nil, now)
		require.NotNil(t, d.ResponseDueAt)
		assert.Nil(t, d.ResolutionDueAt)
	})

	t.Run("FallsBackToPriorityHours", func(t *testing.T) {
		d := ComputeDeadlines(nil, priority, nil, nil, now)
		require.NotNil(t, d.ResponseDueAt)
		require.NotNil(t, d.ResolutionDueAt)
		assert.Equal(t, now.Add(4*time.Hour), *d.ResponseDueAt)
		assert.Equal(t, now.Add(48*time.Hour), *d.ResolutionDueAt)
	})

	t.Run("PriorityWithoutTargetsYieldsNil", func(t *testing.T) {
		bare := &domain.Priority{ID: 11}
		d := ComputeDeadlines(nil, bare, nil, nil, now)
		assert.Nil(t, d.ResponseDueAt)
		assert.Nil(t, d.ResolutionDueAt)
	})

	t.Run("DevelopmentCategoryExempt", func(t *testing.T) {
		category := &domain.Category{ID: 5, IsDevelopment: true}
		rules := []domain.SLARule{
			{ID: 1, PriorityID: i64(10), CategoryID: i64(5), TypeID: i64(1), ResponseMinutes: intp(5), IsActive: true},
		}
		d := ComputeDeadlines(rules, priority, category, i64(1), now)
		assert.Nil(t, d.ResponseDueAt)
		assert.Nil(t, d.ResolutionDueAt)
	})
}
