// Package ticket manages support cases and their status lifecycle.
package ticket

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/repository"
)

// CreateInput carries the ticket-creation payload. RawPriority is the
// unparsed client value: invalid or empty priorities silently become
// medium instead of rejecting the request.
type CreateInput struct {
	CustomerID  int64
	Title       string
	Description string
	RawPriority string
	Assignee    *string
}

type Service struct {
	customers repository.CustomersRepository
	tickets   repository.TicketsRepository
}

func New(customers repository.CustomersRepository, tickets repository.TicketsRepository) *Service {
	return &Service{customers: customers, tickets: tickets}
}

// Create opens a ticket for an active customer. Returns the ticket and
// the owning customer (callers need the name for confirmations).
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Ticket, *model.Customer, error) {
	var missing []string
	if in.CustomerID <= 0 {
		missing = append(missing, "customer")
	}
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return nil, nil, errs.MissingFields(missing...)
	}

	cust, err := s.customers.GetActive(ctx, in.CustomerID)
	if err != nil {
		return nil, nil, fmt.Errorf("load customer: %w", err)
	}
	if cust == nil {
		return nil, nil, errs.NotFound("customer", in.CustomerID)
	}

	now := time.Now()
	t := model.Ticket{
		CustomerID:  in.CustomerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Status:      model.TicketOpen,
		Priority:    model.ParseTicketPriority(in.RawPriority),
		Assignee:    in.Assignee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tickets.Insert(ctx, &t); err != nil {
		return nil, nil, fmt.Errorf("insert ticket: %w", err)
	}
	return &t, cust, nil
}

// ChangeStatus overwrites the status with any of the five known literals.
// The first transition into resolved stamps the resolution time; repeat
// resolutions keep the original stamp and no other status touches it.
func (s *Service) ChangeStatus(ctx context.Context, id int64, rawStatus string) (*model.Ticket, error) {
	status, ok := model.ParseTicketStatus(rawStatus)
	if !ok {
		return nil, errs.Validation("unknown status " + strings.TrimSpace(rawStatus))
	}

	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load ticket: %w", err)
	}
	if t == nil {
		return nil, errs.NotFound("ticket", id)
	}

	if err := s.tickets.SetStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	// re-read for the DB-assigned resolution timestamp
	t, err = s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload ticket: %w", err)
	}
	if t == nil {
		return nil, errs.NotFound("ticket", id)
	}
	return t, nil
}

// MarkResolved resolves every listed ticket that is currently open or
// in_progress, skipping the rest, and reports how many changed.
func (s *Service) MarkResolved(ctx context.Context, ids []int64) (int64, error) {
	return s.tickets.BulkResolve(ctx, ids)
}

// MarkInProgress moves listed open tickets to in_progress, skipping the rest.
func (s *Service) MarkInProgress(ctx context.Context, ids []int64) (int64, error) {
	return s.tickets.BulkMarkInProgress(ctx, ids)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errs.NotFound("ticket", id)
	}
	return t, nil
}

// List filters by status when rawStatus is non-empty; an unknown status
// literal is a validation error rather than an empty result.
func (s *Service) List(ctx context.Context, rawStatus string, limit, offset int) ([]model.Ticket, error) {
	var status model.TicketStatus
	if strings.TrimSpace(rawStatus) != "" {
		parsed, ok := model.ParseTicketStatus(rawStatus)
		if !ok {
			return nil, errs.Validation("unknown status " + strings.TrimSpace(rawStatus))
		}
		status = parsed
	}
	return s.tickets.List(ctx, status, limit, offset)
}

// UpdateInput is the admin update surface. Status is not here: status
// changes go through ChangeStatus so the resolution rule always applies.
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *string
	Assignee    *string
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*model.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load ticket: %w", err)
	}
	if t == nil {
		return nil, errs.NotFound("ticket", id)
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, errs.Validation("title cannot be blank")
		}
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		// admin updates are strict, unlike tool-side creation
		p := model.TicketPriority(strings.ToLower(strings.TrimSpace(*in.Priority)))
		if !p.Valid() {
			return nil, errs.Validation("unknown priority " + *in.Priority)
		}
		t.Priority = p
	}
	if in.Assignee != nil {
		t.Assignee = in.Assignee
	}

	if err := s.tickets.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return errs.NotFound("ticket", id)
	}
	return s.tickets.Delete(ctx, id)
}
