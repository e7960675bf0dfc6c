package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrilink/support-service/internal/domain"
	"github.com/agrilink/support-service/internal/events"
	"github.com/agrilink/support-service/internal/repository"
	apperrors "github.com/agrilink/support-service/pkg/util"
)

// TicketService owns the ticket lifecycle: creation, assignment, the status
// state machine, forwarding and comments. Every mutation is applied through a
// versioned update, so concurrent writers to the same ticket lose with a
// conflict instead of clobbering each other.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.TicketCommentRepository
	history    repository.TicketHistoryRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.TicketCommentRepository
	HistoryRepo repository.TicketHistoryRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
}

// TicketQueryFilter describes listing filters.
type TicketQueryFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	AssignedTo *string
	Limit      int
	Offset     int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create opens a new ticket for the creator.
func (s *TicketService) Create(ctx context.Context, creator *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}

	category := input.Category
	if category == "" {
		category = domain.TicketCategoryGeneral
	}
	if !domain.ValidCategory(category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": category})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	number, err := s.generateTicketNumber(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		TicketNumber: number,
		Title:        title,
		Description:  description,
		Category:     category,
		Priority:     priority,
		Status:       domain.TicketStatusOpen,
		CreatedBy:    creator.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	newValue := string(ticket.Status)
	if err := s.appendHistory(ctx, &creator.ID, ticket.ID, domain.ActionCreated,
		fmt.Sprintf("Ticket created by %s", displayName(creator)), nil, &newValue); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// Assign routes the ticket to a support user. Re-assigning the same user is a
// permitted no-op transition that still re-stamps updated_at and records
// history.
func (s *TicketService) Assign(ctx context.Context, actor *domain.User, ticketID, assigneeID string) (*domain.Ticket, error) {
	if !rolesOf(actor).IsStaff() {
		return nil, apperrors.NewForbidden("staff role required to assign tickets")
	}

	assignee, err := s.userByID(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	if !domain.NewRoleSet(assignee.Roles...).Has(domain.RoleSupport) || !assignee.Active {
		return nil, apperrors.NewValidationError("assignee is not an active support user",
			map[string]any{"assigned_to": assigneeID})
	}

	ticket, err := s.ticketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldAssignee := ticket.AssignedTo
	oldAssigneeName, err := s.nameOf(ctx, oldAssignee)
	if err != nil {
		return nil, err
	}

	ticket.AssignedTo = &assignee.ID
	if ticket.Status == domain.TicketStatusOpen {
		ticket.Status = domain.TicketStatusAssigned
	}
	if err := s.updateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	newAssigneeName := displayName(assignee)
	if err := s.appendHistory(ctx, &actor.ID, ticket.ID, domain.ActionAssigned,
		fmt.Sprintf("Ticket assigned to %s", newAssigneeName), oldAssigneeName, &newAssigneeName); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Payload: events.TicketAssignedPayload{
			TicketNumber: ticket.TicketNumber,
			AssigneeID:   assignee.ID,
		},
	})
	return ticket, nil
}

// UpdateStatus drives the lifecycle state machine. Staff may take any edge the
// table allows; the ticket's creator may only reopen a resolved or closed
// ticket. Reopening never clears resolved_at/closed_at: resolution metadata is
// retained for audit.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus, resolutionNotes string) (*domain.Ticket, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	ticket, err := s.ticketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	isStaff := rolesOf(actor).IsStaff()
	isCreatorReopen := actor.ID == ticket.CreatedBy && domain.IsReopen(ticket.Status, newStatus)
	if !isStaff && !isCreatorReopen {
		return nil, apperrors.NewForbidden("staff role required to change ticket status")
	}
	if !domain.CanTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewInvalidTransition(string(ticket.Status), string(newStatus))
	}

	oldStatus := ticket.Status
	now := time.Now()
	switch newStatus {
	case domain.TicketStatusResolved:
		notes := strings.TrimSpace(resolutionNotes)
		if notes == "" {
			return nil, apperrors.NewValidationError("resolution_notes is required to resolve a ticket", nil)
		}
		ticket.ResolutionNotes = &notes
		ticket.ResolvedBy = &actor.ID
		ticket.ResolvedAt = &now
	case domain.TicketStatusClosed:
		ticket.ClosedAt = &now
	}
	ticket.Status = newStatus

	if err := s.updateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	oldValue := string(oldStatus)
	newValue := string(newStatus)
	if err := s.appendHistory(ctx, &actor.ID, ticket.ID, domain.ActionStatusChanged,
		fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus), &oldValue, &newValue); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			TicketNumber: ticket.TicketNumber,
			OldStatus:    oldStatus,
			NewStatus:    newStatus,
			CreatorID:    ticket.CreatedBy,
			AssigneeID:   ticket.AssignedTo,
		},
	})
	return ticket, nil
}

// Forward redirects ticket ownership intent to a role or a specific user
// without changing status. The two targets are mutually exclusive.
func (s *TicketService) Forward(ctx context.Context, actor *domain.User, ticketID string, role, userID string) (*domain.Ticket, error) {
	if !rolesOf(actor).IsStaff() {
		return nil, apperrors.NewForbidden("staff role required to forward tickets")
	}
	role = strings.TrimSpace(role)
	userID = strings.TrimSpace(userID)
	if (role == "") == (userID == "") {
		return nil, apperrors.NewValidationError("exactly one of role or user must be provided", nil)
	}

	ticket, err := s.ticketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	var description string
	var newValue string
	if role != "" {
		role = domain.NormalizeRole(role)
		ticket.ForwardedToRole = &role
		ticket.ForwardedToUser = nil
		description = fmt.Sprintf("Ticket forwarded to role %s", role)
		newValue = role
	} else {
		target, err := s.userByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		ticket.ForwardedToUser = &target.ID
		ticket.ForwardedToRole = nil
		description = fmt.Sprintf("Ticket forwarded to %s", displayName(target))
		newValue = target.ID
	}

	if err := s.updateTicket(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, &actor.ID, ticket.ID, domain.ActionForwarded, description, nil, &newValue); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketForwarded,
		TicketID: ticket.ID,
		Payload: events.TicketForwardedPayload{
			TicketNumber: ticket.TicketNumber,
			Role:         ticket.ForwardedToRole,
			UserID:       ticket.ForwardedToUser,
		},
	})
	return ticket, nil
}

// AddComment appends a comment to the ticket thread. Only staff may mark a
// comment internal; the flag is silently coerced to false for other authors.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID, text string, isInternal bool) (*domain.TicketComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text is required", nil)
	}

	ticket, err := s.ticketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	isStaff := rolesOf(actor).IsStaff()
	if !isStaff {
		if ticket.CreatedBy != actor.ID {
			return nil, apperrors.NewForbidden("access denied")
		}
		isInternal = false
	}

	// Claim the mutation first so concurrent comment/status writes on the
	// same ticket serialize, and updated_at reflects the comment.
	if err := s.updateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	comment := &domain.TicketComment{
		TicketID:   ticket.ID,
		AuthorID:   actor.ID,
		Comment:    text,
		IsInternal: isInternal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	preview := stringPreview(text, 100)
	if err := s.appendHistory(ctx, &actor.ID, ticket.ID, domain.ActionCommented,
		fmt.Sprintf("Comment added by %s", displayName(actor)), nil, &preview); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticket.ID,
		Payload: events.TicketCommentedPayload{
			TicketNumber: ticket.TicketNumber,
			CommentID:    comment.ID,
			IsInternal:   comment.IsInternal,
			CreatorID:    ticket.CreatedBy,
			AssigneeID:   ticket.AssignedTo,
		},
	})
	return comment, nil
}

// Query lists tickets ordered by created_at descending. Non-staff callers are
// implicitly restricted to tickets they created.
func (s *TicketService) Query(ctx context.Context, actor *domain.User, filter TicketQueryFilter) ([]domain.Ticket, int64, error) {
	repoFilter := repository.TicketFilter{
		AssignedTo: filter.AssignedTo,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if !rolesOf(actor).IsStaff() {
		creator := actor.ID
		repoFilter.CreatedBy = &creator
	}
	tickets, total, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return tickets, total, nil
}

// Get fetches a ticket with its comments and history. Internal comments are
// hidden from non-staff viewers; non-staff may only read their own tickets.
func (s *TicketService) Get(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, []domain.TicketComment, []domain.TicketHistory, error) {
	ticket, err := s.ticketByID(ctx, ticketID)
	if err != nil {
		return nil, nil, nil, err
	}

	isStaff := rolesOf(actor).IsStaff()
	if !isStaff && ticket.CreatedBy != actor.ID {
		return nil, nil, nil, apperrors.NewForbidden("access denied")
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	if !isStaff {
		visible := make([]domain.TicketComment, 0, len(comments))
		for _, comment := range comments {
			if comment.IsInternal {
				continue
			}
			visible = append(visible, comment)
		}
		comments = visible
	}

	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	return ticket, comments, history, nil
}

// Stats returns dashboard counters for the support view.
func (s *TicketService) Stats(ctx context.Context, actor *domain.User) (*repository.TicketStats, error) {
	if !rolesOf(actor).IsStaff() {
		return nil, apperrors.NewForbidden("staff role required for ticket stats")
	}
	stats, err := s.tickets.Stats(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

func (s *TicketService) ticketByID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) userByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *TicketService) updateTicket(ctx context.Context, ticket *domain.Ticket) error {
	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return apperrors.NewConflict("ticket was modified concurrently; retry with fresh data",
				map[string]any{"ticket_id": ticket.ID})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticket.ID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) appendHistory(ctx context.Context, actorID *string, ticketID, action, description string, oldValue, newValue *string) error {
	return s.history.Create(ctx, &domain.TicketHistory{
		TicketID:    ticketID,
		ActorID:     actorID,
		Action:      action,
		Description: description,
		OldValue:    oldValue,
		NewValue:    newValue,
	})
}

func (s *TicketService) nameOf(ctx context.Context, userID *string) (*string, error) {
	if userID == nil {
		return nil, nil
	}
	user, err := s.userByID(ctx, *userID)
	if err != nil {
		return nil, err
	}
	name := displayName(user)
	return &name, nil
}

func (s *TicketService) generateTicketNumber(ctx context.Context) (string, error) {
	date := time.Now().Format("20060102")
	for {
		number := fmt.Sprintf("TKT-%s-%05d", date, rand.Intn(90000)+10000)
		exists, err := s.tickets.TicketNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
}

func (s *TicketService) publishEvent(ctx context.Context, actor *domain.User, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if actor != nil {
		actorID := actor.ID
		event.Actor = events.Actor{
			ID:   &actorID,
			Name: displayName(actor),
			Role: rolesOf(actor).Primary(),
		}
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func rolesOf(user *domain.User) domain.RoleSet {
	if user == nil {
		return nil
	}
	return domain.NewRoleSet(user.Roles...)
}

func displayName(user *domain.User) string {
	if name := strings.TrimSpace(user.Name); name != "" {
		return name
	}
	return user.Email
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
