package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/agrilink/support-service/internal/domain"
	"github.com/agrilink/support-service/internal/service"
)

func parseQueryVia(t *testing.T, target string) service.TicketQueryFilter {
	t.Helper()
	// Immutable so the parsed filter can be inspected after the request
	// context is recycled.
	app := fiber.New(fiber.Config{Immutable: true})
	var got service.TicketQueryFilter
	app.Get("/tickets", func(c *fiber.Ctx) error {
		got = parseTicketQuery(c)
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	return got
}

func TestParseTicketQueryLimitOffset(t *testing.T) {
	filter := parseQueryVia(t, "/tickets?limit=5&offset=40")
	if filter.Limit != 5 || filter.Offset != 40 {
		t.Errorf("limit/offset = %d/%d, want 5/40", filter.Limit, filter.Offset)
	}
}

func TestParseTicketQueryPageForm(t *testing.T) {
	filter := parseQueryVia(t, "/tickets?page=3&page_size=10")
	if filter.Limit != 10 || filter.Offset != 20 {
		t.Errorf("limit/offset = %d/%d, want 10/20", filter.Limit, filter.Offset)
	}
}

func TestParseTicketQueryDefaults(t *testing.T) {
	filter := parseQueryVia(t, "/tickets")
	if filter.Limit != 20 || filter.Offset != 0 {
		t.Errorf("limit/offset = %d/%d, want 20/0", filter.Limit, filter.Offset)
	}
	if filter.Offset != 0 || len(filter.Statuses) != 0 || filter.AssignedTo != nil {
		t.Errorf("unexpected non-zero filter: %+v", filter)
	}
}

func TestParseTicketQueryFilters(t *testing.T) {
	filter := parseQueryVia(t, "/tickets?status=open,assigned&priority=high&assigned_to=support-1")
	if len(filter.Statuses) != 2 || filter.Statuses[0] != domain.TicketStatusOpen || filter.Statuses[1] != domain.TicketStatusAssigned {
		t.Errorf("statuses = %v", filter.Statuses)
	}
	if len(filter.Priorities) != 1 || filter.Priorities[0] != domain.TicketPriorityHigh {
		t.Errorf("priorities = %v", filter.Priorities)
	}
	if filter.AssignedTo == nil || *filter.AssignedTo != "support-1" {
		t.Errorf("assigned_to = %v", filter.AssignedTo)
	}
}

func TestParseTicketQueryRejectsGarbagePagination(t *testing.T) {
	filter := parseQueryVia(t, "/tickets?limit=-2&offset=abc")
	if filter.Limit != 20 || filter.Offset != 0 {
		t.Errorf("limit/offset = %d/%d, want defaults 20/0", filter.Limit, filter.Offset)
	}
}
