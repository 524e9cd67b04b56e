package report

import (
	"sort"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// DailyActivityGroup lists one user's activity entries for one day plus a
// count-by-action summary. The report is a grouped read of the immutable
// activity log; no business logic is derived here.
type DailyActivityGroup struct {
	Date         string                        `json:"date"`
	UserID       int64                         `json:"user_id"`
	UserName     string                        `json:"user_name"`
	Entries      []domain.TicketActivity       `json:"entries"`
	ActionCounts map[domain.ActivityAction]int `json:"action_counts"`
}

// DailyActivityReport is the grouped activity listing with an overall
// count-by-action summary.
type DailyActivityReport struct {
	Groups  []DailyActivityGroup          `json:"groups"`
	Summary map[domain.ActivityAction]int `json:"summary"`
}

// BuildDailyActivity groups activity entries per user per calendar day.
// Days use the entries' local date; groups sort by date, then user id.
func BuildDailyActivity(activities []domain.TicketActivity, userNames map[int64]string) DailyActivityReport {
	type key struct {
		date   string
		userID int64
	}

	groups := map[key]*DailyActivityGroup{}
	summary := map[domain.ActivityAction]int{}

	for _, entry := range activities {
		k := key{date: entry.CreatedAt.Format("2006-01-02"), userID: entry.UserID}
		group, ok := groups[k]
		if !ok {
			group = &DailyActivityGroup{
				Date:         k.date,
				UserID:       k.userID,
				UserName:     userNames[k.userID],
				ActionCounts: map[domain.ActivityAction]int{},
			}
			groups[k] = group
		}
		group.Entries = append(group.Entries, entry)
		group.ActionCounts[entry.Action]++
		summary[entry.Action]++
	}

	result := DailyActivityReport{Summary: summary}
	for _, group := range groups {
		result.Groups = append(result.Groups, *group)
	}
	sort.Slice(result.Groups, func(i, j int) bool {
		if result.Groups[i].Date != result.Groups[j].Date {
			return result.Groups[i].Date < result.Groups[j].Date
		}
		return result.Groups[i].UserID < result.Groups[j].UserID
	})
	return result
}
