package model

import (
	"strings"
	"time"
)

type TicketStatus string

const (
	TicketOpen            TicketStatus = "open"
	TicketInProgress      TicketStatus = "in_progress"
	TicketPendingCustomer TicketStatus = "pending_customer"
	TicketResolved        TicketStatus = "resolved"
	TicketClosed          TicketStatus = "closed"
)

func (s TicketStatus) String() string { return string(s) }

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketPendingCustomer, TicketResolved, TicketClosed:
		return true
	}
	return false
}

// ParseTicketStatus normalizes input. Returns (value, true) if it is one of
// the five known literals; otherwise (open, false). There is no transition
// graph: any known status may overwrite any other.
func ParseTicketStatus(s string) (TicketStatus, bool) {
	v := TicketStatus(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v, true
	}
	return TicketOpen, false
}

type TicketPriority string

const (
	PriorityLow      TicketPriority = "low"
	PriorityMedium   TicketPriority = "medium"
	PriorityHigh     TicketPriority = "high"
	PriorityCritical TicketPriority = "critical"
)

func (p TicketPriority) String() string { return string(p) }

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// ParseTicketPriority normalizes input; empty or unknown => medium.
// Callers are deliberately lenient here: an agent sending "urgent" gets a
// medium ticket, not a rejection.
func ParseTicketPriority(s string) TicketPriority {
	v := TicketPriority(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v
	}
	return PriorityMedium
}

// Ticket is the DB entity persisted in the tickets table.
type Ticket struct {
	ID          int64          `db:"id" json:"id"`
	CustomerID  int64          `db:"customer_id" json:"customer_id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Status      TicketStatus   `db:"status" json:"status"`
	Priority    TicketPriority `db:"priority" json:"priority"`
	Assignee    *string        `db:"assignee" json:"assignee,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
	ResolvedAt  *time.Time     `db:"resolved_at" json:"resolved_at,omitempty"`
}

// ResolutionTime reports how long the ticket took to resolve.
// Zero duration and false while unresolved.
func (t *Ticket) ResolutionTime() (time.Duration, bool) {
	if t.ResolvedAt == nil {
		return 0, false
	}
	return t.ResolvedAt.Sub(t.CreatedAt), true
}
