package sla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

func i64(v int64) *int64 { return &v }

func TestResolve(t *testing.T) {
	typeA, typeB := int64(1), int64(2)
	prioP := int64(10)
	catC, catC2 := int64(100), int64(101)

	rules := []domain.SLARule{
		{ID: 3, PriorityID: i64(prioP), IsActive: true},                                       // priority-only
		{ID: 2, TypeID: i64(typeA), PriorityID: i64(prioP), IsActive: true},                   // type+priority
		{ID: 1, TypeID: i64(typeA), PriorityID: i64(prioP), CategoryID: i64(catC), IsActive: true}, // full
	}

	t.Run("FullMatchWins", func(t *testing.T) {
		rule := Resolve(rules, i64(typeA), prioP, i64(catC))
		require.NotNil(t, rule)
		assert.Equal(t, int64(1), rule.ID)
	})

	t.Run("FallsBackToTypePriority", func(t *testing.T) {
		rule := Resolve(rules, i64(typeA), prioP, i64(catC2))
		require.NotNil(t, rule)
		assert.Equal(t, int64(2), rule.ID)
	})

	t.Run("FallsBackToPriorityOnly", func(t *testing.T) {
		rule := Resolve(rules, i64(typeB), prioP, i64(catC))
		require.NotNil(t, rule)
		assert.Equal(t, int64(3), rule.ID)
	})

	t.Run("NoMatchReturnsNil", func(t *testing.T) {
		assert.Nil(t, Resolve(rules, i64(typeA), 99, i64(catC)))
	})

	t.Run("InactiveRulesIgnored", func(t *testing.T) {
		inactive := []domain.SLARule{
			{ID: 1, PriorityID: i64(prioP), IsActive: false},
		}
		assert.Nil(t, Resolve(inactive, nil, prioP, nil))
	})

	t.Run("TieBrokenByRuleID", func(t *testing.T) {
		dup := []domain.SLARule{
			{ID: 7, PriorityID: i64(prioP), IsActive: true},
			{ID: 4, PriorityID: i64(prioP), IsActive: true},
		}
		rule := Resolve(dup, nil, prioP, nil)
		require.NotNil(t, rule)
		assert.Equal(t, int64(4), rule.ID)
	})

	t.Run("NilTicketTypeCannotMatchTypedRule", func(t *testing.T) {
		typed := []domain.SLARule{
			{ID: 1, TypeID: i64(typeA), PriorityID: i64(prioP), IsActive: true},
		}
		assert.Nil(t, Resolve(typed, nil, prioP, nil))
	})

	t.Run("PartialPatternDoesNotParticipate", func(t *testing.T) {
		// category without type matches none of the three recognized patterns
		odd := []domain.SLARule{
			{ID: 1, PriorityID: i64(prioP), CategoryID: i64(catC), IsActive: true},
		}
		assert.Nil(t, Resolve(odd, nil, prioP, i64(catC)))
	})
}
