package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/supporthub/support-desk/internal/audit"
	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/service/ticket"
)

type ticketAdmin interface {
	ChangeStatus(ctx context.Context, id int64, rawStatus string) (*model.Ticket, error)
	MarkResolved(ctx context.Context, ids []int64) (int64, error)
	MarkInProgress(ctx context.Context, ids []int64) (int64, error)
	Get(ctx context.Context, id int64) (*model.Ticket, error)
	List(ctx context.Context, rawStatus string, limit, offset int) ([]model.Ticket, error)
	Update(ctx context.Context, id int64, in ticket.UpdateInput) (*model.Ticket, error)
	Delete(ctx context.Context, id int64) error
}

func listTicketsHandler(svc ticketAdmin) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, offset := pagination(c)
		tickets, err := svc.List(c.Request().Context(), c.QueryParam("status"), limit, offset)
		if err != nil {
			if outcomeOf(err) == "error" {
				log.Errorf("ticket listing failed: %v", err)
			}
			return writeErr(c, err)
		}
		if tickets == nil {
			tickets = []model.Ticket{}
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"total":   len(tickets),
			"tickets": tickets,
		})
	}
}

func getTicketHandler(svc ticketAdmin) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return writeErr(c, errs.Validation("ticket id must be an integer"))
		}
		t, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			if outcomeOf(err) == "error" {
				log.Errorf("ticket read failed: %v", err)
			}
			return writeErr(c, err)
		}
		body := map[string]any{
			"success": true,
			"ticket":  t,
		}
		if d, ok := t.ResolutionTime(); ok {
			body["resolution_time"] = d.String()
		}
		return c.JSON(http.StatusOK, body)
	}
}

type updateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Assignee    *string `json:"assignee"`
}

func updateTicketHandler(svc ticketAdmin, auditor auditRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return writeErr(c, errs.Validation("ticket id must be an integer"))
		}
		var req updateTicketRequest
		if err := c.Bind(&req); err != nil {
			return writeErr(c, errs.Validation("malformed request body"))
		}

		t, err := svc.Update(c.Request().Context(), id, ticket.UpdateInput{
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
			Assignee:    req.Assignee,
		})
		if err != nil {
			if outcomeOf(err) == "error" {
				log.Errorf("ticket update failed: %v", err)
			}
			return writeErr(c, err)
		}

		auditor.Record(c.Request().Context(), audit.Entry{
			Kind:        model.AuditUpdate,
			Description: fmt.Sprintf("ticket #%06d updated", t.ID),
			CustomerID:  &t.CustomerID,
			Actor:       actingUser(c),
			SourceIP:    requestIP(c),
		})

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"ticket":  t,
		})
	}
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

// changeTicketStatusHandler is the only status write path for a single
// ticket; the first move into resolved stamps the resolution time.
func changeTicketStatusHandler(svc ticketAdmin, auditor auditRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return writeErr(c, errs.Validation("ticket id must be an integer"))
		}
		var req changeStatusRequest
		if err := c.Bind(&req); err != nil {
			return writeErr(c, errs.Validation("malformed request body"))
		}

		t, err := svc.ChangeStatus(c.Request().Context(), id, req.Status)
		if err != nil {
			if outcomeOf(err) == "error" {
				log.Errorf("ticket status change failed: %v", err)
			}
			return writeErr(c, err)
		}

		auditor.Record(c.Request().Context(), audit.Entry{
			Kind:        model.AuditUpdate,
			Description: fmt.Sprintf("ticket #%06d moved to %s", t.ID, t.Status),
			CustomerID:  &t.CustomerID,
			Actor:       actingUser(c),
			SourceIP:    requestIP(c),
		})

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"ticket":  t,
		})
	}
}

// bulkTicketStatusHandler backs mark-resolved and mark-in-process. Only
// eligible tickets change; the rest are silently skipped, matching how
// batch actions behave in the admin UI.
func bulkTicketStatusHandler(svc ticketAdmin, auditor auditRecorder, resolve bool) echo.HandlerFunc {
	verb := "marked in progress"
	action := func(ctx context.Context, ids []int64) (int64, error) { return svc.MarkInProgress(ctx, ids) }
	if resolve {
		verb = "resolved"
		action = func(ctx context.Context, ids []int64) (int64, error) { return svc.MarkResolved(ctx, ids) }
	}
	return func(c echo.Context) error {
		var req idsRequest
		if err := c.Bind(&req); err != nil {
			return writeErr(c, errs.Validation("malformed request body"))
		}
		if len(req.IDs) == 0 {
			return writeErr(c, errs.Validation("ids is required"))
		}

		n, err := action(c.Request().Context(), req.IDs)
		if err != nil {
			log.Errorf("bulk ticket update failed: %v", err)
			return writeErr(c, err)
		}

		auditor.Record(c.Request().Context(), audit.Entry{
			Kind:        model.AuditUpdate,
			Description: fmt.Sprintf("%d ticket(s) %s", n, verb),
			Actor:       actingUser(c),
			SourceIP:    requestIP(c),
			Metadata:    map[string]any{"ids": req.IDs, "updated": n},
		})

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"updated": n,
			"message": fmt.Sprintf("%d ticket(s) %s", n, verb),
		})
	}
}

func deleteTicketHandler(svc ticketAdmin, auditor auditRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return writeErr(c, errs.Validation("ticket id must be an integer"))
		}
		if err := svc.Delete(c.Request().Context(), id); err != nil {
			if outcomeOf(err) == "error" {
				log.Errorf("ticket deletion failed: %v", err)
			}
			return writeErr(c, err)
		}

		auditor.Record(c.Request().Context(), audit.Entry{
			Kind:        model.AuditUpdate,
			Description: fmt.Sprintf("ticket #%06d deleted", id),
			Actor:       actingUser(c),
			SourceIP:    requestIP(c),
		})

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": fmt.Sprintf("ticket #%06d deleted", id),
		})
	}
}
