package domain

import "time"

// SLARule maps a (type, priority, category) pattern to response/resolution
// targets. Nil pattern columns act as wildcards; specificity ranking lives in
// the sla package. BusinessHoursOnly is persisted but not consulted by any
// deadline calculation.
type SLARule struct {
	ID                int64
	TypeID            *int64
	PriorityID        *int64
	CategoryID        *int64
	ResponseMinutes   *int
	ResolutionMinutes *int
	BusinessHoursOnly bool
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Deadlines holds absolute SLA timestamps computed once at ticket creation.
type Deadlines struct {
	ResponseDueAt   *time.Time
	ResolutionDueAt *time.Time
}
