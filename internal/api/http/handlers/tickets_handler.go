package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/agrilink/support-service/internal/api/dto"
	"github.com/agrilink/support-service/internal/auth"
	"github.com/agrilink/support-service/internal/domain"
	"github.com/agrilink/support-service/internal/repository"
	"github.com/agrilink/support-service/internal/service"
	apperrors "github.com/agrilink/support-service/pkg/util"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	}
	ticket, err := h.service.Create(c.Context(), principal.User, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter := parseTicketQuery(c)
	tickets, total, err := h.service.Query(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{Count: total, Results: items}})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, comments, history, err := h.service.Get(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, comments, history)})
}

// UpdateStatus POST /tickets/:id/update_status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateStatus(c.Context(), principal.User, c.Params("id"), req.Status, req.ResolutionNotes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AssignTicket POST /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.AssignedTo) == "" {
		return apperrors.NewValidationError("assigned_to required", nil)
	}
	ticket, err := h.service.Assign(c.Context(), principal.User, c.Params("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ForwardTicket POST /tickets/:id/forward.
func (h *TicketsHandler) ForwardTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ForwardRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Forward(c.Context(), principal.User, c.Params("id"), req.Role, req.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AddComment POST /tickets/:id/add_comment.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.Context(), principal.User, c.Params("id"), req.Comment, req.IsInternal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// Stats GET /tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	stats, err := h.service.Stats(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statsResponse(stats)})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketQueryFilter {
	filter := service.TicketQueryFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if assigned := c.Query("assigned_to"); assigned != "" {
		filter.AssignedTo = &assigned
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	// Direct limit/offset take precedence over the page form.
	if raw := c.Query("limit"); raw != "" {
		filter.Limit = parseInt(raw, filter.Limit)
	}
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			filter.Offset = parsed
		}
	}
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:              ticket.ID,
		TicketNumber:    ticket.TicketNumber,
		Title:           ticket.Title,
		Description:     ticket.Description,
		Category:        ticket.Category,
		Priority:        ticket.Priority,
		Status:          ticket.Status,
		CreatedBy:       ticket.CreatedBy,
		AssignedTo:      ticket.AssignedTo,
		ForwardedToRole: ticket.ForwardedToRole,
		ForwardedToUser: ticket.ForwardedToUser,
		ResolvedBy:      ticket.ResolvedBy,
		ResolutionNotes: ticket.ResolutionNotes,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
		ResolvedAt:      ticket.ResolvedAt,
		ClosedAt:        ticket.ClosedAt,
	}
}

func ticketDetail(ticket *domain.Ticket, comments []domain.TicketComment, history []domain.TicketHistory) dto.TicketDetailResponse {
	commentResps := make([]dto.TicketCommentResponse, 0, len(comments))
	for i := range comments {
		commentResps = append(commentResps, commentResponse(&comments[i]))
	}
	historyResps := make([]dto.TicketHistoryResponse, 0, len(history))
	for _, entry := range history {
		historyResps = append(historyResps, dto.TicketHistoryResponse{
			ID:          entry.ID,
			ActorID:     entry.ActorID,
			Action:      entry.Action,
			Description: entry.Description,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return dto.TicketDetailResponse{
		TicketResponse: ticketResponse(ticket),
		Comments:       commentResps,
		History:        historyResps,
	}
}

func commentResponse(comment *domain.TicketComment) dto.TicketCommentResponse {
	return dto.TicketCommentResponse{
		ID:         comment.ID,
		AuthorID:   comment.AuthorID,
		Comment:    comment.Comment,
		IsInternal: comment.IsInternal,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
}

func statsResponse(stats *repository.TicketStats) dto.TicketStatsResponse {
	return dto.TicketStatsResponse{
		Total:           stats.Total,
		OpenTickets:     stats.Open,
		Assigned:        stats.Assigned,
		InProgress:      stats.InProgress,
		Resolved:        stats.Resolved,
		Closed:          stats.Closed,
		Unassigned:      stats.Unassigned,
		AssignedToMe:    stats.AssignedToMe,
		Urgent:          stats.Urgent,
		High:            stats.High,
		AvgResponseTime: stats.AvgResponseHours,
	}
}
