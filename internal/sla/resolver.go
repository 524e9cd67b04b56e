package sla

import (
	"sort"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// Rule pattern ranks, most specific first. A rule participates in exactly one
// rank depending on which pattern columns it defines.
const (
	rankFull         = 0 // type + priority + category
	rankTypePriority = 1 // type + priority, category wildcard
	rankPriorityOnly = 2 // priority, type and category wildcard
	rankNone         = -1
)

func ruleRank(rule *domain.SLARule) int {
	switch {
	case rule.TypeID != nil && rule.PriorityID != nil && rule.CategoryID != nil:
		return rankFull
	case rule.TypeID != nil && rule.PriorityID != nil && rule.CategoryID == nil:
		return rankTypePriority
	case rule.TypeID == nil && rule.PriorityID != nil && rule.CategoryID == nil:
		return rankPriorityOnly
	default:
		return rankNone
	}
}

func ruleMatches(rule *domain.SLARule, typeID *int64, priorityID int64, categoryID *int64) bool {
	if !rule.IsActive {
		return false
	}
	if rule.PriorityID == nil || *rule.PriorityID != priorityID {
		return false
	}
	if rule.TypeID != nil {
		if typeID == nil || *typeID != *rule.TypeID {
			return false
		}
	}
	if rule.CategoryID != nil {
		if categoryID == nil || *categoryID != *rule.CategoryID {
			return false
		}
	}
	return true
}

// Resolve picks the single most specific active rule for the given ticket
// classification, or nil when nothing matches. Specificity order is
// full match > type+priority > priority-only; ties inside a rank are broken
// by rule ID ascending so resolution stays deterministic regardless of the
// order rules were loaded in.
func Resolve(rules []domain.SLARule, typeID *int64, priorityID int64, categoryID *int64) *domain.SLARule {
	var best *domain.SLARule
	bestRank := rankNone

	sorted := make([]*domain.SLARule, 0, len(rules))
	for i := range rules {
		sorted = append(sorted, &rules[i])
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, rule := range sorted {
		rank := ruleRank(rule)
		if rank == rankNone {
			continue
		}
		if !ruleMatches(rule, typeID, priorityID, categoryID) {
			continue
		}
		if best == nil || rank < bestRank {
			best = rule
			bestRank = rank
		}
	}
	return best
}
