package lifecycle

import (
	"fmt"
	"time"
)

// FormatTicketNumber renders the human-readable ticket number for the given
// day and per-day sequence value, e.g. TKT-20260314-0007. The sequence is
// allocated transactionally by the repository so concurrent creations on the
// same day never collide.
func FormatTicketNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("TKT-%04d%02d%02d-%04d", day.Year(), int(day.Month()), day.Day(), seq)
}
