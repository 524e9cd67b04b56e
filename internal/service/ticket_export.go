package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
	"github.com/hospital-helpdesk/helpdesk-service/internal/lifecycle"
	"github.com/hospital-helpdesk/helpdesk-service/internal/repository"
)

// ExportTicketsCSV renders the filtered ticket list as CSV. Requesters are
// scoped to their own tickets through the same path as ListTickets.
func (s *TicketService) ExportTicketsCSV(ctx context.Context, actor lifecycle.Actor, filter repository.TicketFilter) ([]byte, error) {
	tickets, err := s.ListTickets(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"number", "title", "status", "priority_id", "category_id",
		"department_id", "requester_id", "assignee_id", "tags",
		"created_at", "resolved_at", "closed_at",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := range tickets {
		if err := w.Write(ticketExportRow(&tickets[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ticketExportRow(t *domain.Ticket) []string {
	return []string{
		t.Number,
		t.Title,
		t.StatusSlug,
		strconv.FormatInt(t.PriorityID, 10),
		int64PtrCell(t.CategoryID),
		strconv.FormatInt(t.DepartmentID, 10),
		strconv.FormatInt(t.RequesterID, 10),
		int64PtrCell(t.AssigneeID),
		strings.Join(t.Tags, ","),
		t.CreatedAt.Format(time.RFC3339),
		timeCell(t.ResolvedAt),
		timeCell(t.ClosedAt),
	}
}

func int64PtrCell(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
