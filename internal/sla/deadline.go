package sla

import (
	"time"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// ComputeDeadlines converts the resolved rule, or the priority defaults when
// no rule matches, into absolute due timestamps relative to now. Deadlines
// are computed exactly once at ticket creation and never recalculated on
// later priority or category changes.
//
// A development-flagged category short-circuits everything: no rule lookup,
// both deadlines nil. The business_hours_only flag on rules is intentionally
// not consulted here; calendar-aware deadline math is pending product
// clarification.
func ComputeDeadlines(rules []domain.SLARule, priority *domain.Priority, category *domain.Category, typeID *int64, now time.Time) domain.Deadlines {
	if category != nil && category.IsDevelopment {
		return domain.Deadlines{}
	}

	var categoryID *int64
	if category != nil {
		categoryID = &category.ID
	}

	var responseMinutes, resolutionMinutes *int
	if rule := Resolve(rules, typeID, priority.ID, categoryID); rule != nil {
		responseMinutes = rule.ResponseMinutes
		resolutionMinutes = rule.ResolutionMinutes
	} else {
		responseMinutes = priority.ResponseMinutes()
		resolutionMinutes = priority.ResolutionMinutes()
	}

	return domain.Deadlines{
		ResponseDueAt:   addMinutes(now, responseMinutes),
		ResolutionDueAt: addMinutes(now, resolutionMinutes),
	}
}

func addMinutes(now time.Time, minutes *int) *time.Time {
	if minutes == nil {
		return nil
	}
	t := now.Add(time.Duration(*minutes) * time.Minute)
	return &t
}
